package graph

import (
	"math"

	"github.com/kilianp07/kitflow/core/logger"
	"github.com/kilianp07/kitflow/core/model"
)

// CostConfig holds the tunable cost model of the builder. Every numeric
// business constant is configuration input; nothing is baked in.
type CostConfig struct {
	FuelCostPerKm      float64 // fuel cost per km per kg of kit weight
	PenaltyFactor      float64 // unmet-demand penalty multiplier over unit kit cost x distance
	StorageCostPerHour float64 // holding cost per unit per hour, usually zero
	MaxOrderPerKit     int64   // cap on one cycle's order size per class
}

// Arrival is stock already in motion toward an airport: a committed flight
// load still in processing, or a purchase order awaiting delivery.
type Arrival struct {
	Airport   string
	Kit       model.KitType
	Quantity  int64
	ReadyHour int // absolute hour the stock becomes usable
}

// Snapshot is the immutable per-cycle input to the builder: everything the
// planner currently knows about the world.
type Snapshot struct {
	CurrentHour int
	Airports    map[string]model.Airport
	Aircraft    map[string]model.AircraftType
	Flights     []model.Flight
	Inventory   map[string]model.KitQuantities // stock per airport
	Arrivals    []Arrival                      // in-motion stock, not yet usable
}

// Builder converts a snapshot into a time-expanded flow network. One
// builder is reused across cycles; each Build call returns a fresh graph.
type Builder struct {
	kits    map[model.KitType]model.KitSpec
	hub     string
	horizon int
	cfg     CostConfig
	log     logger.Logger
}

// NewBuilder creates a builder for the given fleet configuration.
func NewBuilder(kits map[model.KitType]model.KitSpec, hub string, horizon int, cfg CostConfig, log logger.Logger) *Builder {
	return &Builder{kits: kits, hub: hub, horizon: horizon, cfg: cfg, log: log}
}

func milli(v float64) int64 { return int64(math.Round(v * CostScale)) }

// routeCost is the per-unit cost of carrying one kit on a flight: loading
// at the origin, fuel by distance and weight, processing at the
// destination.
func (b *Builder) routeCost(src, dst model.Airport, distanceKM float64, kit model.KitType) float64 {
	return src.LoadingCost[kit] + distanceKM*b.cfg.FuelCostPerKm*b.kits[kit].UnitWeightKg + dst.ProcessingCost[kit]
}

// penalty is the cost of leaving one passenger of the class without a kit.
// It scales with distance and unit kit cost so it always exceeds any
// feasible routing plus purchase cost by the configured factor.
func (b *Builder) penalty(distanceKM float64, kit model.KitType) float64 {
	return distanceKM * b.kits[kit].UnitCost * b.cfg.PenaltyFactor
}

// Build assembles the network for one planning cycle. Flights with
// unresolvable airports or aircraft are skipped with a diagnostic; partial
// information never aborts planning.
func (b *Builder) Build(snap Snapshot) *Graph {
	g := New(b.horizon)

	// Initial inventory.
	for code, stock := range snap.Inventory {
		for _, kit := range model.AllKitTypes {
			if qty := stock.Get(kit); qty > 0 {
				if _, err := g.AddInitialInventoryEdge(code, 0, kit, qty); err != nil {
					b.log.Warnf("inventory edge %s/%s: %v", code, kit, err)
				}
			}
		}
	}

	// Stock already in motion enters the network at its ready hour, so the
	// solver does not re-order a shortfall a pending delivery already
	// covers. Arrivals maturing beyond the horizon stay invisible.
	for _, ar := range snap.Arrivals {
		rel := ar.ReadyHour - snap.CurrentHour
		if ar.Quantity <= 0 || rel < 0 || rel >= b.horizon {
			continue
		}
		if _, err := g.AddInitialInventoryEdge(ar.Airport, rel, ar.Kit, ar.Quantity); err != nil {
			b.log.Warnf("arrival edge %s/%s: %v", ar.Airport, ar.Kit, err)
		}
	}

	// Storage lanes.
	storageCost := milli(b.cfg.StorageCostPerHour)
	for code, ap := range snap.Airports {
		for _, kit := range model.AllKitTypes {
			capacity := ap.StorageCapacity.Get(kit)
			for t := 0; t+1 < b.horizon; t++ {
				g.AddStorageEdge(code, t, kit, capacity, storageCost)
			}
		}
	}

	// Flight, processing and demand edges.
	seenProcessing := make(map[NodeKey]bool)
	for _, f := range snap.Flights {
		b.addFlight(g, snap, f, seenProcessing)
	}

	// Purchase edges, landing only at the hub.
	for _, kit := range model.AllKitTypes {
		spec := b.kits[kit]
		if spec.LeadTimeHours >= b.horizon {
			continue
		}
		p := Purchase{Kit: kit, OrderTime: 0, DeliveryTime: spec.LeadTimeHours}
		g.AddPurchaseEdge(b.hub, p, b.cfg.MaxOrderPerKit, milli(spec.UnitCost))
	}

	return g
}

func (b *Builder) addFlight(g *Graph, snap Snapshot, f model.Flight, seenProcessing map[NodeKey]bool) {
	switch f.Status {
	case model.FlightDeparted, model.FlightLanded, model.FlightCancelled:
		return
	}
	depRel := f.DepartureHour - snap.CurrentHour
	arrRel := f.ArrivalHour - snap.CurrentHour
	if depRel < 0 {
		// Already departed relative to this cycle; cannot be influenced.
		return
	}
	if depRel >= b.horizon {
		return
	}
	src, okSrc := snap.Airports[f.Origin]
	dst, okDst := snap.Airports[f.Destination]
	if !okSrc || !okDst {
		b.log.Warnf("flight %s (%s): unknown airport %s or %s, skipping", f.Number, f.ID, f.Origin, f.Destination)
		return
	}
	ac, okAC := snap.Aircraft[f.AircraftType]
	if !okAC {
		b.log.Warnf("flight %s (%s): unknown aircraft type %q, skipping", f.Number, f.ID, f.AircraftType)
		return
	}

	// The flight edge needs both endpoints inside the horizon. Passengers
	// still board at departure, so the demand edge stays even when the
	// arrival lies beyond the plan and the transported kits never recover.
	carryKits := arrRel < b.horizon

	for _, kit := range model.AllKitTypes {
		cost := b.routeCost(src, dst, f.DistanceKM, kit)
		carryCap := ac.Capacity.Get(kit)

		if carryKits {
			fp := Flight{FlightID: f.ID, Origin: f.Origin, Dest: f.Destination, DepTime: depRel, ArrTime: arrRel, Kit: kit}
			if _, ok := g.AddFlightEdge(fp, carryCap, milli(cost)); ok {
				ready := arrRel + dst.ProcessingTime[kit]
				key := NodeKey{Location: f.Destination, Time: arrRel, Kind: KindProcessing, Kit: kit}
				if ready < b.horizon && !seenProcessing[key] {
					seenProcessing[key] = true
					g.AddProcessingEdge(f.Destination, arrRel, ready, kit)
				}
			}
		}

		required := f.Passengers.Get(kit)
		if required <= 0 {
			continue
		}
		dp := Demand{
			FlightID:       f.ID,
			Airport:        f.Origin,
			Time:           depRel,
			Kit:            kit,
			Required:       required,
			RouteCostMilli: milli(cost),
			PenaltyMilli:   milli(b.penalty(f.DistanceKM, kit)),
		}
		g.AddDemandEdge(dp, min64(required, carryCap))
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
