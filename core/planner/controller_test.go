package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/kitflow/core/events"
	"github.com/kilianp07/kitflow/core/graph"
	"github.com/kilianp07/kitflow/core/metrics"
	"github.com/kilianp07/kitflow/core/model"
	"github.com/kilianp07/kitflow/core/solver"
	"github.com/kilianp07/kitflow/internal/eventbus"
)

// stubSolver returns a fixed status or error, sized to the given graph.
type stubSolver struct {
	status solver.Status
	err    error
	calls  int
}

func (s *stubSolver) Solve(_ context.Context, g *graph.Graph) (*solver.Solution, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &solver.Solution{
		Status:      s.status,
		Flows:       make([]int64, len(g.Edges)),
		UnmetDemand: map[model.KitType]int64{},
	}, nil
}

// captureSink keeps every recorded cycle.
type captureSink struct {
	cycles []metrics.PlanCycle
}

func (s *captureSink) RecordPlanCycle(c metrics.PlanCycle) error {
	s.cycles = append(s.cycles, c)
	return nil
}

func newTestController(exact, fallback solver.Solver, bus eventbus.EventBus, sink metrics.PlanSink) *Controller {
	return NewController(ControllerConfig{
		Builder:      testBuilder(24),
		Exact:        exact,
		Fallback:     fallback,
		Airports:     testAirports(),
		Aircraft:     testAircraft(),
		Kits:         testKits(),
		Hub:          "HUB1",
		SolveTimeout: time.Second,
		Logger:       nopLogger{},
		Bus:          bus,
		Sink:         sink,
	})
}

func TestControllerIngestUpserts(t *testing.T) {
	c := newTestController(&stubSolver{}, &stubSolver{}, nil, nil)

	c.Ingest([]model.FlightEvent{testFlightEvent("F1", 2, 4, 60)})
	require.Len(t, c.Flights(), 1)
	assert.Equal(t, int64(60), c.Flights()["F1"].Passengers.Get(model.KitEconomy))

	// A later event for the same flight replaces the earlier state.
	updated := testFlightEvent("F1", 2, 4, 80)
	updated.EventType = model.FlightCheckedIn
	c.Ingest([]model.FlightEvent{updated})
	require.Len(t, c.Flights(), 1)
	assert.Equal(t, int64(80), c.Flights()["F1"].Passengers.Get(model.KitEconomy))
	assert.Equal(t, model.FlightCheckedIn, c.Flights()["F1"].Status)
}

func TestControllerIngestDropsEmptyID(t *testing.T) {
	c := newTestController(&stubSolver{}, &stubSolver{}, nil, nil)
	c.Ingest([]model.FlightEvent{{EventType: model.FlightScheduled}})
	assert.Empty(t, c.Flights())
}

func TestControllerIngestPublishesEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	c := newTestController(&stubSolver{}, &stubSolver{}, bus, nil)
	c.Ingest([]model.FlightEvent{testFlightEvent("F1", 2, 4, 60)})

	select {
	case evt := <-sub:
		fe, ok := evt.(events.FlightEvent)
		require.True(t, ok)
		assert.Equal(t, "F1", fe.Event.FlightID)
	case <-time.After(time.Second):
		t.Fatal("expected a flight event on the bus")
	}
}

func TestPlanHourUsesExactWhenUsable(t *testing.T) {
	exact := &stubSolver{status: solver.StatusOptimal}
	fallback := &stubSolver{status: solver.StatusGreedy}
	sink := &captureSink{}
	c := newTestController(exact, fallback, nil, sink)

	_, sol := c.PlanHour(context.Background(), 0)
	assert.Equal(t, solver.StatusOptimal, sol.Status)
	assert.Equal(t, 1, exact.calls)
	assert.Zero(t, fallback.calls)

	require.Len(t, sink.cycles, 1)
	assert.False(t, sink.cycles[0].Fallback)
	assert.Equal(t, "OPTIMAL", sink.cycles[0].Status)
}

func TestPlanHourFallsBackOnExactError(t *testing.T) {
	exact := &stubSolver{err: errors.New("simplex exploded")}
	fallback := &stubSolver{status: solver.StatusGreedy}
	sink := &captureSink{}
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	c := newTestController(exact, fallback, bus, sink)
	_, sol := c.PlanHour(context.Background(), 0)

	assert.Equal(t, solver.StatusGreedy, sol.Status)
	assert.Equal(t, 1, fallback.calls)
	require.Len(t, sink.cycles, 1)
	assert.True(t, sink.cycles[0].Fallback)

	var actions []string
	timeout := time.After(time.Second)
	for len(actions) < 3 {
		select {
		case evt := <-sub:
			if se, ok := evt.(events.SolverEvent); ok {
				actions = append(actions, se.Action)
			}
		case <-timeout:
			t.Fatalf("expected three solver events, got %v", actions)
		}
	}
	assert.Equal(t, []string{"exact_attempt", "exact_failure", "greedy_fallback"}, actions)
}

func TestPlanHourFallsBackOnNonUsableStatus(t *testing.T) {
	exact := &stubSolver{status: solver.StatusInfeasible}
	fallback := &stubSolver{status: solver.StatusGreedy}
	c := newTestController(exact, fallback, nil, nil)

	_, sol := c.PlanHour(context.Background(), 0)
	assert.Equal(t, solver.StatusGreedy, sol.Status)
	assert.Equal(t, 1, fallback.calls)
}

func TestPlanHourNeverFails(t *testing.T) {
	exact := &stubSolver{err: errors.New("exact down")}
	fallback := &stubSolver{err: errors.New("greedy down")}
	c := newTestController(exact, fallback, nil, nil)
	c.Ingest([]model.FlightEvent{testFlightEvent("F1", 2, 4, 60)})

	d, sol := c.PlanHour(context.Background(), 0)
	assert.Equal(t, solver.StatusError, sol.Status)
	assert.True(t, d.IsEmpty())
	// Stock is untouched when nothing was committed.
	assert.Equal(t, int64(250), c.Ledger().Stock("HUB1").Get(model.KitEconomy))
}

func TestPlanHourDoesNotReorderPendingDelivery(t *testing.T) {
	// Ten units on hand for sixty passengers: the first cycle must order
	// the shortfall, and the next cycle must see that order as in-motion
	// supply instead of ordering it again.
	airports := map[string]model.Airport{
		"HUB1": testAirport("HUB1", 10, 500),
		"A1":   testAirport("A1", 0, 100),
	}
	c := NewController(ControllerConfig{
		Builder:      testBuilder(24),
		Exact:        solver.NewMinCostSolver(nopLogger{}),
		Fallback:     solver.NewGreedySolver(nopLogger{}),
		Airports:     airports,
		Aircraft:     testAircraft(),
		Kits:         testKits(),
		Hub:          "HUB1",
		SolveTimeout: time.Second,
		Logger:       nopLogger{},
	})
	c.Ingest([]model.FlightEvent{testFlightEvent("F1", 6, 8, 60)})

	d0, sol0 := c.PlanHour(context.Background(), 0)
	require.Equal(t, solver.StatusOptimal, sol0.Status)
	assert.Equal(t, int64(50), d0.Purchases[model.KitEconomy])
	require.Equal(t, 1, c.Ledger().PendingCount())

	d1, sol1 := c.PlanHour(context.Background(), 1)
	require.Equal(t, solver.StatusOptimal, sol1.Status)
	assert.Zero(t, d1.Purchases[model.KitEconomy], "pending delivery already covers the shortfall")
	assert.Zero(t, sol1.UnmetDemand[model.KitEconomy])
}

func TestPlanHourEndToEnd(t *testing.T) {
	exact := solver.NewMinCostSolver(nopLogger{})
	fallback := solver.NewGreedySolver(nopLogger{})
	sink := &captureSink{}
	c := newTestController(exact, fallback, nil, sink)
	c.Ingest([]model.FlightEvent{testFlightEvent("F1", 2, 4, 60)})

	// Hour 2 is the departure hour, so the load is committed now.
	d, sol := c.PlanHour(context.Background(), 2)
	assert.Equal(t, solver.StatusOptimal, sol.Status)
	require.Contains(t, d.FlightLoads, "F1")
	assert.Equal(t, int64(60), d.FlightLoads["F1"].Get(model.KitEconomy))
	assert.Equal(t, int64(190), c.Ledger().Stock("HUB1").Get(model.KitEconomy))
	assert.Equal(t, 1, c.Ledger().PendingCount())

	require.Len(t, sink.cycles, 1)
	assert.Equal(t, 1, sink.cycles[0].Loads)
	assert.Zero(t, sink.cycles[0].UnmetDemand[model.KitEconomy])
}
