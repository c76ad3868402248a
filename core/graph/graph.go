package graph

import (
	"fmt"

	"github.com/kilianp07/kitflow/core/model"
)

// Graph is one time-expanded flow network spanning [0, Horizon) relative
// hours. It is built fresh every planning cycle and never mutated once the
// solver has consumed it.
type Graph struct {
	Horizon int

	Source NodeID
	Sink   NodeID

	nodes []Node
	index map[NodeKey]NodeID

	Edges []Edge
}

// New creates an empty graph spanning the given horizon.
func New(horizon int) *Graph {
	g := &Graph{
		Horizon: horizon,
		index:   make(map[NodeKey]NodeID),
	}
	g.Source = g.addNode(NodeKey{Kind: KindSource})
	g.Sink = g.addNode(NodeKey{Kind: KindSink})
	return g
}

func (g *Graph) addNode(key NodeKey) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Key: key})
	g.index[key] = id
	return id
}

// NodeFor returns the node handle for the key, creating it lazily. Two
// calls with the same key always return the same handle. Keys outside the
// graph's time axis are rejected.
func (g *Graph) NodeFor(key NodeKey) (NodeID, error) {
	if key.Time < 0 || key.Time >= g.Horizon {
		return 0, fmt.Errorf("node %s outside horizon [0,%d)", key, g.Horizon)
	}
	if id, ok := g.index[key]; ok {
		return id, nil
	}
	return g.addNode(key), nil
}

// Node returns the arena entry for a handle.
func (g *Graph) Node(id NodeID) Node { return g.nodes[id] }

// NodeCount returns the number of nodes in the arena.
func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) addEdge(from, to NodeID, capacity, cost int64, p Payload) int {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Capacity: capacity, Cost: cost, Payload: p})
	return len(g.Edges) - 1
}

// AddInitialInventoryEdge connects the source to (airport, t, available):
// t is zero for on-hand stock and the ready hour for stock in motion.
func (g *Graph) AddInitialInventoryEdge(airport string, t int, kit model.KitType, quantity int64) (int, error) {
	if quantity < 0 {
		return 0, fmt.Errorf("negative inventory for %s/%s", airport, kit)
	}
	to, err := g.NodeFor(NodeKey{Location: airport, Time: t, Kind: KindAvailable, Kit: kit})
	if err != nil {
		return 0, err
	}
	return g.addEdge(g.Source, to, quantity, 0, InitialInventory{Airport: airport, Time: t, Kit: kit}), nil
}

// AddStorageEdge keeps stock at an airport from hour t to t+1. Edges that
// would cross the horizon are omitted, never clamped.
func (g *Graph) AddStorageEdge(airport string, t int, kit model.KitType, capacity, costMilli int64) (int, bool) {
	if t < 0 || t+1 >= g.Horizon {
		return 0, false
	}
	from, err := g.NodeFor(NodeKey{Location: airport, Time: t, Kind: KindAvailable, Kit: kit})
	if err != nil {
		return 0, false
	}
	to, err := g.NodeFor(NodeKey{Location: airport, Time: t + 1, Kind: KindAvailable, Kit: kit})
	if err != nil {
		return 0, false
	}
	return g.addEdge(from, to, capacity, costMilli, Storage{Airport: airport, Time: t, Kit: kit}), true
}

// AddFlightEdge moves kits from the origin at departure into the
// destination's frozen state at arrival. Omitted when either endpoint falls
// outside the horizon.
func (g *Graph) AddFlightEdge(p Flight, capacity, costMilli int64) (int, bool) {
	from, err := g.NodeFor(NodeKey{Location: p.Origin, Time: p.DepTime, Kind: KindAvailable, Kit: p.Kit})
	if err != nil {
		return 0, false
	}
	to, err := g.NodeFor(NodeKey{Location: p.Dest, Time: p.ArrTime, Kind: KindProcessing, Kit: p.Kit})
	if err != nil {
		return 0, false
	}
	return g.addEdge(from, to, capacity, costMilli, p), true
}

// AddProcessingEdge thaws arrived stock after the processing delay. Kits
// whose ready time exceeds the horizon never recover within this plan.
func (g *Graph) AddProcessingEdge(airport string, arrTime, readyTime int, kit model.KitType) (int, bool) {
	from, err := g.NodeFor(NodeKey{Location: airport, Time: arrTime, Kind: KindProcessing, Kit: kit})
	if err != nil {
		return 0, false
	}
	to, err := g.NodeFor(NodeKey{Location: airport, Time: readyTime, Kind: KindAvailable, Kit: kit})
	if err != nil {
		return 0, false
	}
	p := Processing{Airport: airport, ArrTime: arrTime, ReadyTime: readyTime, Kit: kit}
	return g.addEdge(from, to, Unbounded, 0, p), true
}

// AddDemandEdge drains passenger demand into the sink. The capacity is the
// servable portion of the requirement (clamped to the aircraft's carry
// capacity by the builder); Required keeps the full passenger count so
// unmet demand can be reported.
func (g *Graph) AddDemandEdge(p Demand, capacity int64) (int, bool) {
	from, err := g.NodeFor(NodeKey{Location: p.Airport, Time: p.Time, Kind: KindAvailable, Kit: p.Kit})
	if err != nil {
		return 0, false
	}
	return g.addEdge(from, g.Sink, capacity, p.RouteCostMilli-p.PenaltyMilli, p), true
}

// AddPurchaseEdge injects orderable kits at the hub after the lead time.
// Omitted when the delivery could never arrive within the horizon.
func (g *Graph) AddPurchaseEdge(hub string, p Purchase, maxOrder, unitCostMilli int64) (int, bool) {
	to, err := g.NodeFor(NodeKey{Location: hub, Time: p.DeliveryTime, Kind: KindAvailable, Kit: p.Kit})
	if err != nil {
		return 0, false
	}
	return g.addEdge(g.Source, to, maxOrder, unitCostMilli, p), true
}

// SupplyTotal returns the total quantity the source can emit for one kit
// class: current inventory plus orderable units.
func (g *Graph) SupplyTotal(kit model.KitType) int64 {
	var total int64
	for _, e := range g.Edges {
		if e.From != g.Source || !e.Bounded() {
			continue
		}
		if k, ok := e.Kit(); ok && k == kit {
			total += e.Capacity
		}
	}
	return total
}

// DemandTotal returns the declared demand capacity for one kit class.
func (g *Graph) DemandTotal(kit model.KitType) int64 {
	var total int64
	for _, e := range g.Edges {
		if d, ok := e.Payload.(Demand); ok && d.Kit == kit {
			total += d.Required
		}
	}
	return total
}

// Stats summarises edge counts per role for structured logging.
func (g *Graph) Stats() map[string]any {
	roles := make(map[string]int)
	for _, e := range g.Edges {
		roles[e.Payload.Role().String()]++
	}
	out := map[string]any{
		"nodes": len(g.nodes),
		"edges": len(g.Edges),
	}
	for role, n := range roles {
		out["edges_"+role] = n
	}
	return out
}
