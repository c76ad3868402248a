package graph

import "github.com/kilianp07/kitflow/core/model"

// Unbounded marks an edge without a capacity limit.
const Unbounded int64 = -1

// CostScale converts fractional business costs into the exact integer
// milli-units stored on edges, so integer flow algorithms never see
// floating point cost values.
const CostScale = 1000

// Role identifies the semantic role of an edge.
type Role int

const (
	RoleInitialInventory Role = iota
	RoleStorage
	RoleFlight
	RoleProcessing
	RoleDemand
	RolePurchase
	RoleBalancing
)

func (r Role) String() string {
	switch r {
	case RoleInitialInventory:
		return "initial_inventory"
	case RoleStorage:
		return "storage"
	case RoleFlight:
		return "flight"
	case RoleProcessing:
		return "processing"
	case RoleDemand:
		return "demand"
	case RolePurchase:
		return "purchase"
	case RoleBalancing:
		return "balancing"
	default:
		return "unknown"
	}
}

// Payload is the tagged variant attached to every edge: one concrete type
// per role, carrying only the fields relevant to that role. A unit of flow
// can always be traced back to the flight, airport, kit class and time it
// represents.
type Payload interface {
	Role() Role
}

// InitialInventory feeds existing stock from the source terminal into an
// airport: on-hand stock at relative hour zero, or stock already in motion
// (a processing load, a pending purchase delivery) at its ready hour.
type InitialInventory struct {
	Airport string
	Time    int // relative hour the stock becomes available
	Kit     model.KitType
}

func (InitialInventory) Role() Role { return RoleInitialInventory }

// Storage keeps stock at an airport from one hour to the next.
type Storage struct {
	Airport string
	Time    int // departure side of the edge
	Kit     model.KitType
}

func (Storage) Role() Role { return RoleStorage }

// Flight moves kits from the origin at departure to the destination's
// frozen state at arrival.
type Flight struct {
	FlightID string
	Origin   string
	Dest     string
	DepTime  int // relative hour
	ArrTime  int // relative hour
	Kit      model.KitType
}

func (Flight) Role() Role { return RoleFlight }

// Processing thaws arrived stock after the airport's processing delay.
type Processing struct {
	Airport   string
	ArrTime   int
	ReadyTime int
	Kit       model.KitType
}

func (Processing) Role() Role { return RoleProcessing }

// Demand drains kits consumed by a flight's passengers into the sink. Its
// edge cost is routeCostMilli - penaltyMilli, a net negative value, so the
// solver prefers serving passengers over idling stock; the two components
// are kept so reporting can separate real handling cost from the penalty
// reward.
type Demand struct {
	FlightID       string
	Airport        string // origin of the flight
	Time           int    // relative departure hour
	Kit            model.KitType
	Required       int64
	RouteCostMilli int64
	PenaltyMilli   int64
}

func (Demand) Role() Role { return RoleDemand }

// Purchase injects newly bought kits at the hub after the class lead time.
type Purchase struct {
	Kit          model.KitType
	OrderTime    int
	DeliveryTime int
}

func (Purchase) Role() Role { return RolePurchase }

// Balancing is the solver-added source->sink arc that lets excess supply
// bleed off at zero cost.
type Balancing struct {
	Kit model.KitType
}

func (Balancing) Role() Role { return RoleBalancing }

// Edge is a directed arc with integral capacity and milli-unit cost.
// A negative cost is legal only on demand edges.
type Edge struct {
	From     NodeID
	To       NodeID
	Capacity int64 // >= 0, or Unbounded
	Cost     int64 // milli-units, may be negative for demand edges
	Payload  Payload
}

// Bounded reports whether the edge carries a finite capacity.
func (e Edge) Bounded() bool { return e.Capacity != Unbounded }

// Kit returns the kit class an edge belongs to. Every edge except the
// terminals-only balancing arc is confined to a single class, which is what
// lets the solver decompose the problem per class.
func (e Edge) Kit() (model.KitType, bool) {
	switch p := e.Payload.(type) {
	case InitialInventory:
		return p.Kit, true
	case Storage:
		return p.Kit, true
	case Flight:
		return p.Kit, true
	case Processing:
		return p.Kit, true
	case Demand:
		return p.Kit, true
	case Purchase:
		return p.Kit, true
	case Balancing:
		return p.Kit, true
	default:
		return 0, false
	}
}

// OperatingCostMilli returns the real per-unit handling cost of the edge,
// excluding the penalty reward baked into demand edge costs.
func (e Edge) OperatingCostMilli() int64 {
	if d, ok := e.Payload.(Demand); ok {
		return d.RouteCostMilli
	}
	if e.Payload.Role() == RoleBalancing {
		return 0
	}
	return e.Cost
}
