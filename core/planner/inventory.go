package planner

import (
	"sync"

	"github.com/kilianp07/kitflow/core/graph"
	"github.com/kilianp07/kitflow/core/model"
)

// pendingStock is a quantity of kits that becomes available somewhere in
// the future: a departed load waiting for arrival plus processing, or a
// purchase order waiting for delivery.
type pendingStock struct {
	Airport   string
	Kit       model.KitType
	Quantity  int64
	ReadyHour int // absolute hour
}

// Ledger tracks the physical state of the kit fleet across cycles: on-hand
// stock per airport plus everything in transit or on order. It is the
// source of truth the builder snapshots each hour.
type Ledger struct {
	mu      sync.Mutex
	stocks  map[string]model.KitQuantities
	pending []pendingStock
}

// NewLedger seeds a ledger from the airports' initial stock.
func NewLedger(airports map[string]model.Airport) *Ledger {
	stocks := make(map[string]model.KitQuantities, len(airports))
	for code, ap := range airports {
		stocks[code] = ap.InitialStock
	}
	return &Ledger{stocks: stocks}
}

// Stock returns the on-hand quantities at an airport.
func (l *Ledger) Stock(airport string) model.KitQuantities {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stocks[airport]
}

// Snapshot copies the on-hand stock for the builder. Pending stock is
// reported separately through Arrivals.
func (l *Ledger) Snapshot() map[string]model.KitQuantities {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]model.KitQuantities, len(l.stocks))
	for code, q := range l.stocks {
		out[code] = q
	}
	return out
}

// Arrivals copies the pending entries as builder input, so the next plan
// sees in-motion stock as supply at its ready hour instead of re-ordering
// the same shortfall.
func (l *Ledger) Arrivals() []graph.Arrival {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]graph.Arrival, 0, len(l.pending))
	for _, p := range l.pending {
		out = append(out, graph.Arrival{
			Airport:   p.Airport,
			Kit:       p.Kit,
			Quantity:  p.Quantity,
			ReadyHour: p.ReadyHour,
		})
	}
	return out
}

// Advance credits every pending quantity whose ready hour has been reached
// and drops it from the pending list.
func (l *Ledger) Advance(hour int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.pending[:0]
	for _, p := range l.pending {
		if p.ReadyHour <= hour {
			q := l.stocks[p.Airport]
			q.Add(p.Kit, p.Quantity)
			l.stocks[p.Airport] = q
			continue
		}
		kept = append(kept, p)
	}
	l.pending = kept
}

// Apply commits a decision: loaded kits leave the origin now and reappear
// at the destination once the flight lands and processing completes, and
// purchase orders are queued for delivery at the hub after their lead
// time. Loads referencing unknown flights are ignored.
func (l *Ledger) Apply(d model.Decision, flights map[string]model.Flight, airports map[string]model.Airport, kits map[model.KitType]model.KitSpec, hub string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, load := range d.FlightLoads {
		fl, ok := flights[id]
		if !ok {
			continue
		}
		dst, okDst := airports[fl.Destination]
		for _, kit := range model.AllKitTypes {
			qty := load.Get(kit)
			if qty <= 0 {
				continue
			}
			q := l.stocks[fl.Origin]
			if have := q.Get(kit); qty > have {
				qty = have
			}
			if qty <= 0 {
				continue
			}
			q.Add(kit, -qty)
			l.stocks[fl.Origin] = q
			ready := fl.ArrivalHour
			if okDst {
				ready += dst.ProcessingTime[kit]
			}
			l.pending = append(l.pending, pendingStock{
				Airport:   fl.Destination,
				Kit:       kit,
				Quantity:  qty,
				ReadyHour: ready,
			})
		}
	}

	for kit, qty := range d.Purchases {
		if qty <= 0 {
			continue
		}
		l.pending = append(l.pending, pendingStock{
			Airport:   hub,
			Kit:       kit,
			Quantity:  qty,
			ReadyHour: d.Hour + kits[kit].LeadTimeHours,
		})
	}
}

// PendingCount returns the number of outstanding pending entries, used for
// diagnostics.
func (l *Ledger) PendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}
