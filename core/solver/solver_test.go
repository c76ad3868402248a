package solver

import (
	"github.com/kilianp07/kitflow/core/graph"
	"github.com/kilianp07/kitflow/core/model"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func testKits() map[model.KitType]model.KitSpec {
	return map[model.KitType]model.KitSpec{
		model.KitFirst:          {UnitCost: 500, UnitWeightKg: 5, LeadTimeHours: 72},
		model.KitBusiness:       {UnitCost: 200, UnitWeightKg: 3, LeadTimeHours: 48},
		model.KitPremiumEconomy: {UnitCost: 100, UnitWeightKg: 2, LeadTimeHours: 24},
		model.KitEconomy:        {UnitCost: 50, UnitWeightKg: 1, LeadTimeHours: 4},
	}
}

func testAirport(code string, stock, storage int64) model.Airport {
	ap := model.Airport{
		Code:            code,
		StorageCapacity: model.KitQuantities{Economy: storage},
		InitialStock:    model.KitQuantities{Economy: stock},
		LoadingCost:     map[model.KitType]float64{},
		ProcessingCost:  map[model.KitType]float64{},
		ProcessingTime:  map[model.KitType]int{},
	}
	for _, k := range model.AllKitTypes {
		ap.LoadingCost[k] = 2
		ap.ProcessingCost[k] = 1
		ap.ProcessingTime[k] = 4
	}
	return ap
}

// scenarioGraph builds the hub-and-outstation example: HUB1 holds 250
// economy kits, flight F1 departs at relative hour 2 with 60 economy
// passengers, per-unit route cost 503 (loading 2 + fuel 500 + processing 1).
func scenarioGraph() *graph.Graph {
	snap := graph.Snapshot{
		CurrentHour: 0,
		Airports: map[string]model.Airport{
			"HUB1": testAirport("HUB1", 250, 500),
			"A1":   testAirport("A1", 50, 100),
		},
		Aircraft: map[string]model.AircraftType{
			"A320": {Code: "A320", Capacity: model.KitQuantities{Economy: 100}},
		},
		Flights: []model.Flight{{
			ID: "F1", Number: "KF1", Origin: "HUB1", Destination: "A1",
			AircraftType: "A320", DepartureHour: 2, ArrivalHour: 4,
			DistanceKM: 1000, Passengers: model.KitQuantities{Economy: 60},
			Status: model.FlightScheduled,
		}},
		Inventory: map[string]model.KitQuantities{
			"HUB1": {Economy: 250},
			"A1":   {Economy: 50},
		},
	}
	cfg := graph.CostConfig{FuelCostPerKm: 0.5, PenaltyFactor: 10, MaxOrderPerKit: 1000}
	return graph.NewBuilder(testKits(), "HUB1", 24, cfg, nopLogger{}).Build(snap)
}

func demandFlow(g *graph.Graph, sol *Solution) int64 {
	var total int64
	for i, e := range g.Edges {
		if _, ok := e.Payload.(graph.Demand); ok {
			total += sol.Flows[i]
		}
	}
	return total
}

func flightFlow(g *graph.Graph, sol *Solution) int64 {
	var total int64
	for i, e := range g.Edges {
		if _, ok := e.Payload.(graph.Flight); ok {
			total += sol.Flows[i]
		}
	}
	return total
}
