package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/kitflow/core/graph"
	"github.com/kilianp07/kitflow/core/model"
)

func TestGreedyScenario(t *testing.T) {
	g := scenarioGraph()
	sol, err := NewGreedySolver(nopLogger{}).Solve(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, StatusGreedy, sol.Status)

	// The demand edge is by far the cheapest candidate; once the storage
	// lane has carried stock to the departure hour it gets filled.
	assert.Equal(t, int64(60), demandFlow(g, sol))
	assert.Equal(t, int64(0), sol.UnmetDemand[model.KitEconomy])

	// Cheap storage drains the departure node before the expensive flight
	// edge is considered, so nothing is ferried.
	assert.Equal(t, int64(0), flightFlow(g, sol))
	assert.Equal(t, "30180", sol.TotalCost.String())
}

func TestGreedyMatchesExactOnScenario(t *testing.T) {
	g := scenarioGraph()
	exact, err := NewMinCostSolver(nopLogger{}).Solve(context.Background(), g)
	require.NoError(t, err)
	greedy, err := NewGreedySolver(nopLogger{}).Solve(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, greedy.TotalCost.GreaterThanOrEqual(exact.TotalCost),
		"greedy cost %s must not beat the optimum %s", greedy.TotalCost, exact.TotalCost)
}

func TestGreedyNeverPurchasesWithoutDemand(t *testing.T) {
	snap := graph.Snapshot{
		CurrentHour: 0,
		Airports:    map[string]model.Airport{"HUB1": testAirport("HUB1", 100, 500)},
		Aircraft:    map[string]model.AircraftType{},
		Inventory:   map[string]model.KitQuantities{"HUB1": {Economy: 100}},
	}
	cfg := graph.CostConfig{FuelCostPerKm: 0.5, PenaltyFactor: 10, MaxOrderPerKit: 1000}
	g := graph.NewBuilder(testKits(), "HUB1", 24, cfg, nopLogger{}).Build(snap)

	sol, err := NewGreedySolver(nopLogger{}).Solve(context.Background(), g)
	require.NoError(t, err)
	for i, e := range g.Edges {
		if _, ok := e.Payload.(graph.Purchase); ok {
			assert.Equal(t, int64(0), sol.Flows[i], "balancing must absorb supply before purchases")
		}
	}
}

func TestGreedyRespectsCapacities(t *testing.T) {
	g := scenarioGraph()
	sol, err := NewGreedySolver(nopLogger{}).Solve(context.Background(), g)
	require.NoError(t, err)
	for i, e := range g.Edges {
		f := sol.Flows[i]
		assert.GreaterOrEqual(t, f, int64(0), "edge %d", i)
		if e.Bounded() {
			assert.LessOrEqual(t, f, e.Capacity, "edge %d", i)
		}
	}
}

func TestGreedyCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sol, err := NewGreedySolver(nopLogger{}).Solve(ctx, scenarioGraph())
	require.Error(t, err)
	assert.Equal(t, StatusError, sol.Status)
}
