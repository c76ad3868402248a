package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/kilianp07/kitflow/core/graph"
	"github.com/kilianp07/kitflow/core/logger"
	"github.com/kilianp07/kitflow/core/model"
)

// roundTol is the largest distance from an integer a solved flow may show
// before the solution is downgraded from OPTIMAL to FEASIBLE. Network flow
// constraint matrices are totally unimodular, so simplex vertex solutions
// are integral up to the solver tolerance; larger deviations mean the
// optimum was left on a degenerate face.
const roundTol = 1e-4

// MinCostSolver solves the minimum-cost flow problem exactly by linear
// programming. The graph decomposes into independent subproblems per kit
// class (no edge couples two classes); the subproblems are solved in
// parallel, each balanced with an internal zero-cost source->sink arc so
// excess supply can bleed off.
type MinCostSolver struct {
	log logger.Logger
}

// NewMinCostSolver creates the exact solver.
func NewMinCostSolver(log logger.Logger) *MinCostSolver {
	return &MinCostSolver{log: log}
}

// simplexSolve runs the simplex algorithm on the general-form LP
// min c.x s.t. G.x <= h, A.x = b. It can be overridden in tests to
// simulate solver failures.
var simplexSolve = func(c []float64, g *mat.Dense, h []float64, a *mat.Dense, b []float64) ([]float64, error) {
	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	_, sol, err := lp.Simplex(cStd, aStd, bStd, 1e-7, nil)
	return sol, err
}

type kitResult struct {
	kit     model.KitType
	flows   map[int]int64
	rounded bool
	err     error
}

// Solve computes the optimal flow. The context deadline bounds the whole
// solve; on expiry an error is returned so the caller can fall back to the
// greedy solver.
func (s *MinCostSolver) Solve(ctx context.Context, g *graph.Graph) (*Solution, error) {
	groups := make(map[model.KitType][]int)
	for i, e := range g.Edges {
		kit, ok := e.Kit()
		if !ok {
			return &Solution{Status: StatusError}, fmt.Errorf("edge %d has no kit class", i)
		}
		groups[kit] = append(groups[kit], i)
	}

	results := make(chan kitResult, len(groups))
	for kit, idxs := range groups {
		go func(kit model.KitType, idxs []int) {
			flows, rounded, err := s.solveKit(ctx, g, kit, idxs)
			results <- kitResult{kit: kit, flows: flows, rounded: rounded, err: err}
		}(kit, idxs)
	}

	flows := make([]int64, len(g.Edges))
	status := StatusOptimal
	for range groups {
		res := <-results
		if res.err != nil {
			st := StatusError
			if errors.Is(res.err, ErrInfeasible) {
				st = StatusInfeasible
			}
			return &Solution{Status: st}, fmt.Errorf("kit %s: %w", res.kit, res.err)
		}
		if res.rounded {
			s.log.Warnf("kit %s: flows rounded beyond tolerance, reporting FEASIBLE instead of OPTIMAL", res.kit)
			status = StatusFeasible
		}
		for i, f := range res.flows {
			flows[i] = f
		}
	}

	if err := auditBalance(g, flows); err != nil {
		return &Solution{Status: StatusUnbalanced}, err
	}
	return summarize(g, flows, status), nil
}

// solveKit builds and solves the LP for one kit class.
//
// Variables are the class's edges plus one balancing arc. Constraints:
// conservation at every node except the terminals, total source outflow
// equal to the class supply (inventory plus orderable units), flows within
// [0, capacity].
func (s *MinCostSolver) solveKit(ctx context.Context, g *graph.Graph, kit model.KitType, idxs []int) (map[int]int64, bool, error) {
	flows := make(map[int]int64, len(idxs))
	for _, i := range idxs {
		flows[i] = 0
	}

	supply := g.SupplyTotal(kit)
	if supply == 0 {
		return flows, false, nil
	}

	n := len(idxs) + 1 // +1: balancing arc
	balVar := len(idxs)

	// Interior nodes touched by this class.
	nodeRow := make(map[graph.NodeID]int)
	for _, i := range idxs {
		for _, id := range []graph.NodeID{g.Edges[i].From, g.Edges[i].To} {
			if id == g.Source || id == g.Sink {
				continue
			}
			if _, ok := nodeRow[id]; !ok {
				nodeRow[id] = len(nodeRow)
			}
		}
	}

	// Equalities: one conservation row per interior node, one supply row.
	eqRows := len(nodeRow) + 1
	a := mat.NewDense(eqRows, n, nil)
	b := make([]float64, eqRows)
	for v, i := range idxs {
		e := g.Edges[i]
		if r, ok := nodeRow[e.To]; ok {
			a.Set(r, v, 1)
		}
		if r, ok := nodeRow[e.From]; ok {
			a.Set(r, v, a.At(r, v)-1)
		}
		if e.From == g.Source {
			a.Set(len(nodeRow), v, 1)
		}
	}
	a.Set(len(nodeRow), balVar, 1)
	b[len(nodeRow)] = float64(supply)

	// Inequalities: capacity bounds for bounded edges, non-negativity for
	// every variable.
	var capRows []int
	for v, i := range idxs {
		if g.Edges[i].Bounded() {
			capRows = append(capRows, v)
		}
	}
	ineqRows := len(capRows) + 1 + n
	gm := mat.NewDense(ineqRows, n, nil)
	h := make([]float64, ineqRows)
	row := 0
	for _, v := range capRows {
		gm.Set(row, v, 1)
		h[row] = float64(g.Edges[idxs[v]].Capacity)
		row++
	}
	gm.Set(row, balVar, 1)
	h[row] = float64(supply)
	row++
	for v := 0; v < n; v++ {
		gm.Set(row, v, -1)
		h[row] = 0
		row++
	}

	c := make([]float64, n)
	for v, i := range idxs {
		c[v] = float64(g.Edges[i].Cost)
	}
	c[balVar] = 0

	sol, err := s.runSimplex(ctx, c, gm, h, a, b)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, false, fmt.Errorf("%w: %v", ErrInfeasible, err)
		}
		return nil, false, err
	}

	// lp.Convert splits free variables into positive and negative parts;
	// recover the original values before rounding.
	rounded := false
	for v, i := range idxs {
		x := sol[v]
		if len(sol) >= 2*n {
			x -= sol[n+v]
		}
		r := math.Round(x)
		if math.Abs(x-r) > roundTol {
			rounded = true
		}
		f := int64(r)
		if f < 0 {
			f = 0
		}
		if e := g.Edges[i]; e.Bounded() && f > e.Capacity {
			f = e.Capacity
		}
		flows[i] = f
	}
	return flows, rounded, nil
}

// runSimplex executes the LP on a worker goroutine so the context deadline
// can interrupt the wait. Simplex itself is not cancelable; an abandoned
// run finishes in the background and its result is dropped, which is safe
// because per-cycle graphs are discarded.
func (s *MinCostSolver) runSimplex(ctx context.Context, c []float64, gm *mat.Dense, h []float64, a *mat.Dense, b []float64) ([]float64, error) {
	type lpResult struct {
		sol []float64
		err error
	}
	ch := make(chan lpResult, 1)
	go func() {
		sol, err := simplexSolve(c, gm, h, a, b)
		ch <- lpResult{sol: sol, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("exact solve interrupted: %w", ctx.Err())
	case res := <-ch:
		return res.sol, res.err
	}
}
