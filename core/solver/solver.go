// Package solver computes feasible minimum-cost flows on the time-expanded
// network. Two implementations exist behind one interface: an exact LP
// solver and a greedy single-pass fallback used when the exact solver is
// unavailable, errors or runs out of time.
package solver

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/kilianp07/kitflow/core/graph"
	"github.com/kilianp07/kitflow/core/model"
)

// Status classifies the outcome of one solve.
type Status int

const (
	// StatusOptimal means the solver converged to an optimum.
	StatusOptimal Status = iota
	// StatusFeasible means a conservation-respecting but possibly
	// non-optimal flow was produced. Treated like OPTIMAL downstream,
	// logged distinctly.
	StatusFeasible
	// StatusInfeasible means no flow satisfies conservation and capacity.
	// With the balancing arc applied this should not occur.
	StatusInfeasible
	// StatusUnbalanced means source outflow and sink inflow disagree,
	// which indicates a builder defect.
	StatusUnbalanced
	// StatusError means the solver raised an internal fault.
	StatusError
	// StatusGreedy marks a best-effort solution from the fallback solver.
	StatusGreedy
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnbalanced:
		return "UNBALANCED"
	case StatusError:
		return "ERROR"
	case StatusGreedy:
		return "GREEDY"
	default:
		return "unknown"
	}
}

var (
	// ErrInfeasible is returned when no conservation-respecting flow exists.
	ErrInfeasible = errors.New("solver: infeasible flow problem")
	// ErrUnbalanced is returned when the solved flow violates the
	// source/sink balance, pointing at a builder defect.
	ErrUnbalanced = errors.New("solver: source and sink totals disagree")
)

// Solution is the common result shape of every solver variant.
type Solution struct {
	Status Status
	// TotalCost is the operating cost of the flow: loading, transport,
	// processing and purchasing. Demand edges contribute their route cost
	// component only; the penalty reward is excluded.
	TotalCost decimal.Decimal
	// Objective is the raw cost the solver minimised, including the
	// negative demand rewards.
	Objective decimal.Decimal
	// Flows holds the per-edge flow, indexed like graph.Edges.
	Flows []int64
	// UnmetDemand is the per-class passenger requirement left unserved.
	UnmetDemand map[model.KitType]int64
}

// Solver is the pluggable flow-solving capability.
type Solver interface {
	Solve(ctx context.Context, g *graph.Graph) (*Solution, error)
}

// summarize derives costs and unmet demand from the per-edge flows.
func summarize(g *graph.Graph, flows []int64, status Status) *Solution {
	var operatingMilli, objectiveMilli int64
	unmet := make(map[model.KitType]int64, len(model.AllKitTypes))
	for _, kit := range model.AllKitTypes {
		unmet[kit] = 0
	}
	for i, e := range g.Edges {
		f := flows[i]
		if d, ok := e.Payload.(graph.Demand); ok {
			short := d.Required - f
			if short > 0 {
				unmet[d.Kit] += short
			}
		}
		if f == 0 {
			continue
		}
		operatingMilli += f * e.OperatingCostMilli()
		objectiveMilli += f * e.Cost
	}
	return &Solution{
		Status:      status,
		TotalCost:   decimal.New(operatingMilli, -3),
		Objective:   decimal.New(objectiveMilli, -3),
		Flows:       flows,
		UnmetDemand: unmet,
	}
}

// auditBalance verifies that everything leaving the source reaches the
// sink. Flow on the solver's internal balancing arcs enters and leaves the
// terminals symmetrically, so the stored edges alone must balance.
func auditBalance(g *graph.Graph, flows []int64) error {
	var sourceOut, sinkIn int64
	for i, e := range g.Edges {
		if e.From == g.Source {
			sourceOut += flows[i]
		}
		if e.To == g.Sink {
			sinkIn += flows[i]
		}
	}
	if sourceOut != sinkIn {
		return ErrUnbalanced
	}
	return nil
}
