package metrics

import (
	"time"

	"github.com/kilianp07/kitflow/core/model"
)

// PlanCycle captures the observable outcome of one planning cycle.
type PlanCycle struct {
	Hour        int
	Status      string // solver status string
	Fallback    bool   // true when the greedy path was used
	Duration    time.Duration
	TotalCost   float64
	UnmetDemand map[model.KitType]int64
	Loads       int   // flights loaded this hour
	Purchases   int64 // units ordered this hour
	Nodes       int
	Edges       int
	Time        time.Time
}

// PlanSink records plan cycles for observability purposes.
type PlanSink interface {
	RecordPlanCycle(cycle PlanCycle) error
}

// NopSink discards every record.
type NopSink struct{}

// RecordPlanCycle implements PlanSink.
func (NopSink) RecordPlanCycle(PlanCycle) error { return nil }
