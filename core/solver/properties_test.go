package solver

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/kilianp07/kitflow/core/graph"
	"github.com/kilianp07/kitflow/core/model"
)

// propertyGraph builds a single-flight network from generated quantities.
func propertyGraph(stock, passengers, aircraftCap int64, depHour int) *graph.Graph {
	snap := graph.Snapshot{
		CurrentHour: 0,
		Airports: map[string]model.Airport{
			"HUB1": testAirport("HUB1", stock, 2000),
			"A1":   testAirport("A1", 0, 2000),
		},
		Aircraft: map[string]model.AircraftType{
			"A320": {Code: "A320", Capacity: model.KitQuantities{Economy: aircraftCap}},
		},
		Flights: []model.Flight{{
			ID: "F1", Origin: "HUB1", Destination: "A1", AircraftType: "A320",
			DepartureHour: depHour, ArrivalHour: depHour + 2, DistanceKM: 800,
			Passengers: model.KitQuantities{Economy: passengers},
			Status:     model.FlightScheduled,
		}},
		Inventory: map[string]model.KitQuantities{"HUB1": {Economy: stock}},
	}
	cfg := graph.CostConfig{FuelCostPerKm: 0.5, PenaltyFactor: 10, MaxOrderPerKit: 500}
	return graph.NewBuilder(testKits(), "HUB1", 24, cfg, nopLogger{}).Build(snap)
}

func interiorBalanced(g *graph.Graph, sol *Solution) bool {
	in := make(map[graph.NodeID]int64)
	out := make(map[graph.NodeID]int64)
	for i, e := range g.Edges {
		out[e.From] += sol.Flows[i]
		in[e.To] += sol.Flows[i]
	}
	for id := graph.NodeID(0); int(id) < g.NodeCount(); id++ {
		if id == g.Source || id == g.Sink {
			continue
		}
		if in[id] != out[id] {
			return false
		}
	}
	return true
}

func withinCapacity(g *graph.Graph, sol *Solution) bool {
	for i, e := range g.Edges {
		f := sol.Flows[i]
		if f < 0 {
			return false
		}
		if e.Bounded() && f > e.Capacity {
			return false
		}
	}
	return true
}

func TestExactSolverProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)
	solver := NewMinCostSolver(nopLogger{})

	properties.Property("flows respect capacities and conservation", prop.ForAll(
		func(stock, passengers, aircraftCap int64, depHour int) bool {
			g := propertyGraph(stock, passengers, aircraftCap, depHour)
			sol, err := solver.Solve(context.Background(), g)
			if err != nil {
				return false
			}
			return withinCapacity(g, sol) && interiorBalanced(g, sol)
		},
		gen.Int64Range(0, 300),
		gen.Int64Range(1, 200),
		gen.Int64Range(1, 250),
		gen.IntRange(1, 10),
	))

	properties.Property("served demand never exceeds requirement or capacity", prop.ForAll(
		func(stock, passengers, aircraftCap int64) bool {
			g := propertyGraph(stock, passengers, aircraftCap, 2)
			sol, err := solver.Solve(context.Background(), g)
			if err != nil {
				return false
			}
			served := demandFlow(g, sol)
			if served > passengers || served > aircraftCap {
				return false
			}
			unmet := sol.UnmetDemand[model.KitEconomy]
			return served+unmet == passengers
		},
		gen.Int64Range(0, 300),
		gen.Int64Range(1, 200),
		gen.Int64Range(1, 250),
	))

	properties.Property("raising demand never shrinks served flow", prop.ForAll(
		func(stock, passengers, extra, aircraftCap int64) bool {
			base := propertyGraph(stock, passengers, aircraftCap, 2)
			raised := propertyGraph(stock, passengers+extra, aircraftCap, 2)
			baseSol, err := solver.Solve(context.Background(), base)
			if err != nil {
				return false
			}
			raisedSol, err := solver.Solve(context.Background(), raised)
			if err != nil {
				return false
			}
			return demandFlow(raised, raisedSol) >= demandFlow(base, baseSol)
		},
		gen.Int64Range(0, 300),
		gen.Int64Range(1, 150),
		gen.Int64Range(0, 100),
		gen.Int64Range(1, 250),
	))

	properties.TestingRun(t)
}

func TestGreedySolverProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)
	exact := NewMinCostSolver(nopLogger{})
	greedy := NewGreedySolver(nopLogger{})

	properties.Property("greedy flows stay within capacity", prop.ForAll(
		func(stock, passengers, aircraftCap int64) bool {
			g := propertyGraph(stock, passengers, aircraftCap, 2)
			sol, err := greedy.Solve(context.Background(), g)
			if err != nil {
				return false
			}
			return withinCapacity(g, sol)
		},
		gen.Int64Range(0, 300),
		gen.Int64Range(1, 200),
		gen.Int64Range(1, 250),
	))

	properties.Property("greedy never beats the optimum", prop.ForAll(
		func(stock, passengers, aircraftCap int64) bool {
			g := propertyGraph(stock, passengers, aircraftCap, 2)
			opt, err := exact.Solve(context.Background(), g)
			if err != nil {
				return false
			}
			sub, err := greedy.Solve(context.Background(), g)
			if err != nil {
				return false
			}
			return sub.Objective.GreaterThanOrEqual(opt.Objective)
		},
		gen.Int64Range(0, 300),
		gen.Int64Range(1, 200),
		gen.Int64Range(1, 250),
	))

	properties.TestingRun(t)
}
