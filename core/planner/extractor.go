// Package planner runs the rolling-horizon planning loop: it snapshots the
// known world each hour, builds the flow network, solves it and extracts
// the immediate-hour decision. Everything beyond the current hour is
// re-decided next cycle.
package planner

import (
	"github.com/kilianp07/kitflow/core/graph"
	"github.com/kilianp07/kitflow/core/model"
	"github.com/kilianp07/kitflow/core/solver"
)

// Extract reduces a solved flow to the decision that is actually committed
// this cycle: loads for flights departing at the current hour and purchase
// orders placed now. Flow beyond relative hour zero is advisory only.
//
// A flight's load is the flow consumed by its passengers plus the flow it
// ferries onward, clamped to the aircraft capacity for the class.
func Extract(g *graph.Graph, sol *solver.Solution, snap graph.Snapshot) model.Decision {
	d := model.NewDecision(snap.CurrentHour)

	loads := make(map[string]model.KitQuantities)
	for i, e := range g.Edges {
		f := sol.Flows[i]
		if f <= 0 {
			continue
		}
		switch p := e.Payload.(type) {
		case graph.Demand:
			if p.Time == 0 {
				q := loads[p.FlightID]
				q.Add(p.Kit, f)
				loads[p.FlightID] = q
			}
		case graph.Flight:
			if p.DepTime == 0 {
				q := loads[p.FlightID]
				q.Add(p.Kit, f)
				loads[p.FlightID] = q
			}
		case graph.Purchase:
			if p.OrderTime == 0 {
				d.Purchases[p.Kit] += f
			}
		}
	}

	capByFlight := make(map[string]model.KitQuantities, len(loads))
	for _, fl := range snap.Flights {
		if _, ok := loads[fl.ID]; !ok {
			continue
		}
		if ac, ok := snap.Aircraft[fl.AircraftType]; ok {
			capByFlight[fl.ID] = ac.Capacity
		}
	}

	for id, q := range loads {
		if capQ, ok := capByFlight[id]; ok {
			for _, kit := range model.AllKitTypes {
				if v := q.Get(kit); v > capQ.Get(kit) {
					q.Set(kit, capQ.Get(kit))
				}
			}
		}
		if !q.IsZero() {
			d.FlightLoads[id] = q
		}
	}
	return d
}
