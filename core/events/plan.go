package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kilianp07/kitflow/core/model"
	"github.com/kilianp07/kitflow/core/solver"
)

// FlightEvent is published when a flight schedule update is ingested.
type FlightEvent struct {
	Event model.FlightEvent
}

// PlanEvent is published at the end of each planning cycle.
type PlanEvent struct {
	Hour     int
	Status   solver.Status
	Fallback bool
	Cost     decimal.Decimal
	Decision model.Decision
	Duration time.Duration
}

// SolverEvent is emitted when the planner chooses a solver.
// Action can be "exact_attempt", "exact_failure", or "greedy_fallback".
type SolverEvent struct {
	Hour   int
	Action string
	Err    error
}
