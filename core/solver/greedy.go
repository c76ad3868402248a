package solver

import (
	"context"
	"sort"

	"github.com/kilianp07/kitflow/core/graph"
	"github.com/kilianp07/kitflow/core/logger"
)

// GreedySolver is the degraded-mode fallback. It never refines or reroutes
// flow: edges are sorted ascending by unit cost and each edge receives flow
// at most once, the cheapest edge with supply currently available at its
// tail being serviced next. Local bottlenecks can therefore leave feasible
// flow unused; callers accept suboptimal cost from this path.
type GreedySolver struct {
	log logger.Logger
}

// NewGreedySolver creates the fallback solver.
func NewGreedySolver(log logger.Logger) *GreedySolver {
	return &GreedySolver{log: log}
}

type greedyCandidate struct {
	idx  int   // index into g.Edges, -1 for the balancing arc
	cost int64 // milli-units
	done bool
}

// Solve produces a best-effort flow. The status is always GREEDY.
func (s *GreedySolver) Solve(ctx context.Context, g *graph.Graph) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return &Solution{Status: StatusError}, err
	}

	flows := make([]int64, len(g.Edges))
	balance := make(map[graph.NodeID]int64, g.NodeCount())

	// The source holds everything that could possibly enter the network:
	// inventory plus orderable units.
	var supply int64
	for _, e := range g.Edges {
		if e.From == g.Source && e.Bounded() {
			supply += e.Capacity
		}
	}
	balance[g.Source] = supply

	// Candidates: every real edge plus one zero-cost balancing arc that
	// lets unroutable supply bleed off before costly purchase edges are
	// considered.
	cands := make([]greedyCandidate, 0, len(g.Edges)+1)
	for i, e := range g.Edges {
		cands = append(cands, greedyCandidate{idx: i, cost: e.Cost})
	}
	cands = append(cands, greedyCandidate{idx: -1, cost: 0})
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].cost < cands[j].cost })

	// Service the cheapest edge whose tail currently has supply, once per
	// edge, until no edge qualifies.
	for {
		progressed := false
		for ci := range cands {
			c := &cands[ci]
			if c.done {
				continue
			}
			if c.idx < 0 {
				if balance[g.Source] > 0 {
					balance[g.Sink] += balance[g.Source]
					balance[g.Source] = 0
					c.done = true
					progressed = true
					break
				}
				continue
			}
			e := g.Edges[c.idx]
			avail := balance[e.From]
			if avail <= 0 {
				continue
			}
			amt := avail
			if e.Bounded() && e.Capacity < amt {
				amt = e.Capacity
			}
			flows[c.idx] = amt
			balance[e.From] -= amt
			balance[e.To] += amt
			c.done = true
			progressed = true
			break
		}
		if !progressed {
			break
		}
	}

	sol := summarize(g, flows, StatusGreedy)
	s.log.Debugf("greedy pass over %d edges, operating cost %s", len(g.Edges), sol.TotalCost)
	return sol, nil
}
