package planner

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

func testAirports() map[string]model.Airport {
	return map[string]model.Airport{
		"HUB1": testAirport("HUB1", 250, 500),
		"A1":   testAirport("A1", 50, 100),
	}
}

func testAircraft() map[string]model.AircraftType {
	return map[string]model.AircraftType{
		"A320": {Code: "A320", Capacity: model.KitQuantities{Economy: 100}},
	}
}

func testFlightEvent(id string, dep, arr int, passengers int64) model.FlightEvent {
	return model.FlightEvent{
		EventType:     model.FlightScheduled,
		FlightID:      id,
		FlightNumber:  "KF" + id,
		Origin:        "HUB1",
		Destination:   "A1",
		AircraftType:  "A320",
		DepartureHour: dep,
		ArrivalHour:   arr,
		DistanceKM:    1000,
		Passengers:    model.KitQuantities{Economy: passengers},
	}
}

func testBuilder(horizon int) *graph.Builder {
	cfg := graph.CostConfig{FuelCostPerKm: 0.5, PenaltyFactor: 10, MaxOrderPerKit: 1000}
	return graph.NewBuilder(testKits(), "HUB1", horizon, cfg, nopLogger{})
}
