package planner

import (
	"context"
	"time"

	"github.com/kilianp07/kitflow/core/events"
	"github.com/kilianp07/kitflow/core/graph"
	"github.com/kilianp07/kitflow/core/logger"
	"github.com/kilianp07/kitflow/core/metrics"
	"github.com/kilianp07/kitflow/core/model"
	"github.com/kilianp07/kitflow/core/solver"
	"github.com/kilianp07/kitflow/internal/eventbus"
)

// Controller drives the rolling-horizon loop. Each cycle it advances the
// inventory ledger, builds the network from the current snapshot, runs the
// exact solver with the greedy fallback behind it and commits the
// immediate-hour decision. A cycle never fails: the worst case is an empty
// decision.
type Controller struct {
	builder  *graph.Builder
	exact    solver.Solver
	fallback solver.Solver

	airports map[string]model.Airport
	aircraft map[string]model.AircraftType
	kits     map[model.KitType]model.KitSpec
	hub      string

	flights map[string]model.Flight
	ledger  *Ledger

	solveTimeout time.Duration
	log          logger.Logger
	bus          eventbus.EventBus
	sink         metrics.PlanSink
}

// ControllerConfig gathers the controller's collaborators.
type ControllerConfig struct {
	Builder      *graph.Builder
	Exact        solver.Solver
	Fallback     solver.Solver
	Airports     map[string]model.Airport
	Aircraft     map[string]model.AircraftType
	Kits         map[model.KitType]model.KitSpec
	Hub          string
	SolveTimeout time.Duration
	Logger       logger.Logger
	Bus          eventbus.EventBus
	Sink         metrics.PlanSink
}

// NewController wires a controller. Bus and sink may be nil.
func NewController(cfg ControllerConfig) *Controller {
	sink := cfg.Sink
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Controller{
		builder:      cfg.Builder,
		exact:        cfg.Exact,
		fallback:     cfg.Fallback,
		airports:     cfg.Airports,
		aircraft:     cfg.Aircraft,
		kits:         cfg.Kits,
		hub:          cfg.Hub,
		flights:      make(map[string]model.Flight),
		ledger:       NewLedger(cfg.Airports),
		solveTimeout: cfg.SolveTimeout,
		log:          cfg.Logger,
		bus:          cfg.Bus,
		sink:         sink,
	}
}

// Ledger exposes the controller's inventory ledger.
func (c *Controller) Ledger() *Ledger { return c.ledger }

// Ingest merges flight updates into the schedule. Events are upserts keyed
// by flight id; a later event for the same flight replaces the earlier
// state entirely.
func (c *Controller) Ingest(evts []model.FlightEvent) {
	for _, e := range evts {
		fl := e.Flight()
		if fl.ID == "" {
			c.log.Warnf("flight event without id, dropping: %+v", e)
			continue
		}
		c.flights[fl.ID] = fl
		if c.bus != nil {
			c.bus.Publish(events.FlightEvent{Event: e})
		}
	}
}

// Flights returns the current schedule keyed by flight id.
func (c *Controller) Flights() map[string]model.Flight { return c.flights }

// PlanHour runs one full planning cycle for the given absolute hour and
// returns the committed decision together with the underlying solution.
func (c *Controller) PlanHour(ctx context.Context, hour int) (model.Decision, *solver.Solution) {
	start := time.Now()
	c.ledger.Advance(hour)

	snap := c.snapshot(hour)
	g := c.builder.Build(snap)

	sol, fellBack := c.solve(ctx, g, hour)
	decision := Extract(g, sol, snap)
	c.ledger.Apply(decision, c.flights, c.airports, c.kits, c.hub)

	elapsed := time.Since(start)
	cost, _ := sol.TotalCost.Float64()
	c.log.Debugw("plan cycle complete", map[string]any{
		"hour":     hour,
		"status":   sol.Status.String(),
		"fallback": fellBack,
		"cost":     sol.TotalCost.String(),
		"loads":    len(decision.FlightLoads),
		"elapsed":  elapsed.String(),
	})

	if c.bus != nil {
		c.bus.Publish(events.PlanEvent{
			Hour:     hour,
			Status:   sol.Status,
			Fallback: fellBack,
			Cost:     sol.TotalCost,
			Decision: decision,
			Duration: elapsed,
		})
	}
	var ordered int64
	for _, q := range decision.Purchases {
		ordered += q
	}
	if err := c.sink.RecordPlanCycle(metrics.PlanCycle{
		Hour:        hour,
		Status:      sol.Status.String(),
		Fallback:    fellBack,
		Duration:    elapsed,
		TotalCost:   cost,
		UnmetDemand: sol.UnmetDemand,
		Loads:       len(decision.FlightLoads),
		Purchases:   ordered,
		Nodes:       g.NodeCount(),
		Edges:       len(g.Edges),
		Time:        time.Now(),
	}); err != nil {
		c.log.Warnf("metrics sink: %v", err)
	}
	return decision, sol
}

func (c *Controller) snapshot(hour int) graph.Snapshot {
	flights := make([]model.Flight, 0, len(c.flights))
	for _, fl := range c.flights {
		flights = append(flights, fl)
	}
	return graph.Snapshot{
		CurrentHour: hour,
		Airports:    c.airports,
		Aircraft:    c.aircraft,
		Flights:     flights,
		Inventory:   c.ledger.Snapshot(),
		Arrivals:    c.ledger.Arrivals(),
	}
}

// solve tries the exact solver first and falls back to the greedy one on
// error, timeout or a non-usable status.
func (c *Controller) solve(ctx context.Context, g *graph.Graph, hour int) (*solver.Solution, bool) {
	solveCtx := ctx
	if c.solveTimeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, c.solveTimeout)
		defer cancel()
	}

	if c.bus != nil {
		c.bus.Publish(events.SolverEvent{Hour: hour, Action: "exact_attempt"})
	}
	sol, err := c.exact.Solve(solveCtx, g)
	if err == nil && usable(sol.Status) {
		return sol, false
	}
	if err != nil {
		c.log.Warnf("exact solver hour %d: %v, falling back", hour, err)
	} else {
		c.log.Warnf("exact solver hour %d: status %s, falling back", hour, sol.Status)
	}
	if c.bus != nil {
		c.bus.Publish(events.SolverEvent{Hour: hour, Action: "exact_failure", Err: err})
		c.bus.Publish(events.SolverEvent{Hour: hour, Action: "greedy_fallback"})
	}

	sol, err = c.fallback.Solve(ctx, g)
	if err != nil {
		// The greedy solver only errors on malformed input; commit nothing.
		c.log.Errorf("fallback solver hour %d: %v", hour, err)
		empty := make([]int64, len(g.Edges))
		s := &solver.Solution{Status: solver.StatusError, Flows: empty, UnmetDemand: map[model.KitType]int64{}}
		return s, true
	}
	return sol, true
}

func usable(s solver.Status) bool {
	return s == solver.StatusOptimal || s == solver.StatusFeasible
}
