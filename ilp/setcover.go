/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ilp

import (
	"context"
	"math"
	"sort"

	"github.com/charmbracelet/log"
)

// Subgradient schedule. The root runs long to get a tight bound and good
// multipliers; each child starts from its parent's multipliers and only
// needs a short refresh.
const (
	rootIters  = 1500
	rootStall  = 30
	rootLambda = 2.0
	nodeIters  = 50
	nodeStall  = 8
	nodeLambda = 0.5
	minLambda  = 1e-3
	// how many subgradient steps run between deadline checks
	checkEvery = 16
)

// coverModel is a Problem in pure covering form: every constraint is a sum
// of distinct variables with unit coefficients that must be >= 1, and no
// objective coefficient is negative.
type coverModel struct {
	cost []float64
	// rows[i] lists the variables covering constraint i, ascending.
	rows [][]int
}

func asCover(p *Problem) (*coverModel, bool) {
	for _, c := range p.Objective {
		if c < 0 {
			return nil, false
		}
	}
	m := &coverModel{cost: p.Objective, rows: make([][]int, len(p.Constraints))}
	seen := make([]int, p.NumVars)
	for i, con := range p.Constraints {
		if con.Sense != GreaterEq || con.RHS != 1 {
			return nil, false
		}
		row := make([]int, 0, len(con.Terms))
		for _, t := range con.Terms {
			if t.Coef != 1 {
				return nil, false
			}
			if seen[t.Var] == i+1 {
				continue
			}
			seen[t.Var] = i + 1
			row = append(row, t.Var)
		}
		sort.Ints(row)
		m.rows[i] = row
	}

	return m, true
}

// coverEngine searches a covering problem depth first. Each node is bounded
// by the Lagrangian relaxation of its uncovered rows,
//
//	L(u) = fixed cost + sum(u_r) + sum over free j of min(0, c_j - sum_{r in j} u_r)
//
// with multipliers u >= 0 improved by subgradient steps. The reduced costs of
// the best multipliers drive variable fixing, a primal heuristic and the
// branching order. A node branches on the uncovered row with the fewest free
// columns: child k selects that row's k-th column and excludes the columns
// before it.
type coverEngine struct {
	search

	cost []float64
	// rows holds the constraints that survive presolve, restricted to the
	// columns that survive it; cols[j] lists the rows column j covers.
	rows [][]int
	cols [][]int

	// fixed[j] is -1 while x[j] is free, otherwise its 0/1 value.
	fixed     []int8
	covered   []int
	fixedCost float64
	trail     []int

	u      []float64
	active []bool
	hits   []int
}

func (b *BranchAndBound) solveCover(ctx context.Context, p *Problem, m *coverModel,
	eps float64, logger *log.Logger) (*Solution, error) {

	e := coverEngine{
		search: newSearch(ctx, p, b.TimeLimit, eps, logger),
		cost:   m.cost,
		fixed:  make([]int8, p.NumVars),
	}
	if !e.presolve(m) {
		logger.Debug("ilp: cover row has no columns", "problem", p.Name)
		return e.solution()
	}
	logger.Debug("ilp: cover presolve", "problem", p.Name,
		"rows", len(m.rows), "keptRows", len(e.rows), "cols", p.NumVars,
		"keptCols", e.freeCount())

	e.dfs(0)

	logger.Debug("ilp: cover search finished", "problem", p.Name, "nodes", e.nodes,
		"found", e.found, "objective", e.bestObj, "bound", e.bound, "timedOut", e.timedOut)
	return e.solution()
}

// presolve drops every row that contains all the columns of another row, and
// every column whose rows are a subset of a column's that costs no more.
// Dropped columns are fixed to zero. It reports false when some row has no
// columns at all.
func (e *coverEngine) presolve(m *coverModel) bool {
	n := len(m.cost)
	for _, r := range m.rows {
		if len(r) == 0 {
			return false
		}
	}

	order := make([]int, len(m.rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(m.rows[order[a]]) < len(m.rows[order[b]])
	})
	stamp := make([]int, n)
	var keep []int
	for step, r := range order {
		if step%64 == 0 && e.halted() {
			return true
		}
		for _, j := range m.rows[r] {
			stamp[j] = step + 1
		}
		implied := false
		for _, k := range keep {
			sub := true
			for _, j := range m.rows[k] {
				if stamp[j] != step+1 {
					sub = false
					break
				}
			}
			if sub {
				implied = true
				break
			}
		}
		if !implied {
			keep = append(keep, r)
		}
	}
	sort.Ints(keep)

	words := (len(keep) + 63) / 64
	colRows := make([][]int, n)
	colBits := make([][]uint64, n)
	for i, r := range keep {
		for _, j := range m.rows[r] {
			if colBits[j] == nil {
				colBits[j] = make([]uint64, words)
			}
			colRows[j] = append(colRows[j], i)
			colBits[j][i/64] |= 1 << (uint(i) % 64)
		}
	}

	e.fixed = make([]int8, n)
	for j := 0; j < n; j++ {
		if j%256 == 0 && e.halted() {
			return true
		}
		e.fixed[j] = -1
		if len(colRows[j]) == 0 {
			e.fixed[j] = 0
			continue
		}
		// any dominating column covers j's shortest row
		shortest := keep[colRows[j][0]]
		for _, i := range colRows[j] {
			if r := keep[i]; len(m.rows[r]) < len(m.rows[shortest]) {
				shortest = r
			}
		}
		for _, k := range m.rows[shortest] {
			if k == j || len(colRows[k]) < len(colRows[j]) || m.cost[k] > m.cost[j] {
				continue
			}
			if !subset(colBits[j], colBits[k]) {
				continue
			}
			if m.cost[k] < m.cost[j] || len(colRows[k]) > len(colRows[j]) || k < j {
				e.fixed[j] = 0
				break
			}
		}
	}

	e.rows = make([][]int, len(keep))
	e.cols = make([][]int, n)
	for i, r := range keep {
		for _, j := range m.rows[r] {
			if e.fixed[j] < 0 {
				e.rows[i] = append(e.rows[i], j)
				e.cols[j] = append(e.cols[j], i)
			}
		}
	}
	e.covered = make([]int, len(keep))
	e.active = make([]bool, len(keep))
	e.hits = make([]int, len(keep))
	e.u = make([]float64, len(keep))
	for i, row := range e.rows {
		e.u[i] = math.Inf(1)
		for _, j := range row {
			e.u[i] = math.Min(e.u[i], m.cost[j]/float64(len(e.cols[j])))
		}
	}

	return true
}

func subset(a, b []uint64) bool {
	for w := range a {
		if a[w]&^b[w] != 0 {
			return false
		}
	}
	return true
}

func (e *coverEngine) freeCount() int {
	n := 0
	for _, f := range e.fixed {
		if f < 0 {
			n++
		}
	}
	return n
}

func (e *coverEngine) fix(j int, v int8) {
	e.fixed[j] = v
	e.trail = append(e.trail, j)
	if v == 1 {
		e.fixedCost += e.cost[j]
		for _, r := range e.cols[j] {
			e.covered[r]++
		}
	}
}

// undo frees every column fixed since the trail had length mark.
func (e *coverEngine) undo(mark int) {
	for len(e.trail) > mark {
		j := e.trail[len(e.trail)-1]
		e.trail = e.trail[:len(e.trail)-1]
		if e.fixed[j] == 1 {
			e.fixedCost -= e.cost[j]
			for _, r := range e.cols[j] {
				e.covered[r]--
			}
		}
		e.fixed[j] = -1
	}
}

// propagate selects the only free column of any uncovered row until none
// is left, then returns the uncovered rows. It reports false when an
// uncovered row has no free column.
func (e *coverEngine) propagate() ([]int, bool) {
	for {
		var uncovered []int
		changed := false
		for r, row := range e.rows {
			if e.covered[r] > 0 {
				continue
			}
			free, last := 0, -1
			for _, j := range row {
				if e.fixed[j] < 0 {
					free++
					last = j
					if free > 1 {
						break
					}
				}
			}
			switch free {
			case 0:
				return nil, false
			case 1:
				e.fix(last, 1)
				changed = true
			default:
				uncovered = append(uncovered, r)
			}
		}
		if !changed {
			return uncovered, true
		}
	}
}

func (e *coverEngine) dfs(depth int) {
	if e.halted() {
		return
	}
	e.visit()
	defer e.undo(len(e.trail))

	uncovered, ok := e.propagate()
	if !ok {
		return
	}
	if len(uncovered) == 0 {
		e.recordFixed()
		return
	}

	iters, stall, lambda := nodeIters, nodeStall, nodeLambda
	if depth == 0 {
		iters, stall, lambda = rootIters, rootStall, rootLambda
		e.heuristic(nil)
	}
	lb, rc := e.lagrange(uncovered, iters, stall, lambda)
	if math.IsInf(lb, -1) {
		return
	}
	if depth == 0 {
		e.bound = math.Max(e.bound, e.roundBound(lb))
	}
	if e.halted() {
		return
	}
	e.heuristic(rc)
	if e.prunes(lb) {
		return
	}
	e.fixByReducedCost(lb, rc)
	if uncovered, ok = e.propagate(); !ok {
		return
	}
	if len(uncovered) == 0 {
		e.recordFixed()
		return
	}

	branch := e.branchColumns(uncovered, rc)
	saved := append([]float64(nil), e.u...)
	for _, j := range branch {
		if e.prunes(lb) {
			return
		}
		copy(e.u, saved)
		e.fix(j, 1)
		e.dfs(depth + 1)
		e.undo(len(e.trail) - 1)
		if e.halted() {
			return
		}
		e.fix(j, 0)
	}
}

// lagrange runs up to iters subgradient steps over the uncovered rows and
// returns the best bound seen with its reduced costs. e.u is left at the
// best multipliers. The step size is lambda*(UB-L)/|g|^2 and lambda halves
// after stall steps without improvement.
func (e *coverEngine) lagrange(uncovered []int, iters, stall int, lambda float64) (float64, []float64) {
	var free []int
	for j, f := range e.fixed {
		if f < 0 {
			free = append(free, j)
		}
	}
	for _, r := range uncovered {
		e.active[r] = true
	}
	defer func() {
		for _, r := range uncovered {
			e.active[r] = false
		}
	}()

	n := len(e.cost)
	rc := make([]float64, n)
	bestRC := make([]float64, n)
	bestU := append([]float64(nil), e.u...)
	bestL := math.Inf(-1)
	since := 0
	for it := 0; it < iters; it++ {
		if it%checkEvery == 0 && e.halted() {
			break
		}

		L := e.fixedCost
		for _, r := range uncovered {
			L += e.u[r]
			e.hits[r] = 0
		}
		for _, j := range free {
			v := e.cost[j]
			for _, r := range e.cols[j] {
				if e.active[r] {
					v -= e.u[r]
				}
			}
			rc[j] = v
			if v < 0 {
				L += v
				for _, r := range e.cols[j] {
					if e.active[r] {
						e.hits[r]++
					}
				}
			}
		}

		if L > bestL+1e-9 {
			bestL = L
			copy(bestU, e.u)
			copy(bestRC, rc)
			since = 0
		} else if since++; since >= stall {
			lambda /= 2
			since = 0
		}
		if e.prunes(bestL) || lambda < minLambda {
			break
		}

		norm := 0.0
		for _, r := range uncovered {
			g := float64(1 - e.hits[r])
			norm += g * g
		}
		if norm == 0 {
			// the relaxed solution covers each row exactly once
			break
		}
		target := e.bestObj
		if !e.found {
			target = math.Abs(L)*1.1 + 1
		}
		t := lambda * (target - L) / norm
		if t <= 0 {
			break
		}
		for _, r := range uncovered {
			e.u[r] = math.Max(0, e.u[r]+t*float64(1-e.hits[r]))
		}
	}

	copy(e.u, bestU)
	return bestL, bestRC
}

// fixByReducedCost fixes every free column whose other value cannot lead
// to a better solution than the incumbent.
func (e *coverEngine) fixByReducedCost(lb float64, rc []float64) {
	if !e.found {
		return
	}
	for j, f := range e.fixed {
		if f >= 0 {
			continue
		}
		switch {
		case rc[j] > 0 && e.prunes(lb+rc[j]):
			e.fix(j, 0)
		case rc[j] < 0 && e.prunes(lb-rc[j]):
			e.fix(j, 1)
		}
	}
}

// branchColumns returns the free columns of the uncovered row with the
// fewest of them, cheapest reduced cost first.
func (e *coverEngine) branchColumns(uncovered []int, rc []float64) []int {
	var best []int
	for _, r := range uncovered {
		var cand []int
		for _, j := range e.rows[r] {
			if e.fixed[j] < 0 {
				cand = append(cand, j)
			}
		}
		if best == nil || len(cand) < len(best) {
			best = cand
		}
	}
	sort.SliceStable(best, func(a, b int) bool { return rc[best[a]] < rc[best[b]] })
	return best
}

func (e *coverEngine) recordFixed() {
	x := make([]float64, len(e.fixed))
	for j, f := range e.fixed {
		if f == 1 {
			x[j] = 1
		}
	}
	if e.p.Feasible(x, e.eps) {
		e.record(x)
	}
}

// heuristic builds a cover from the columns fixed to one plus, when rc is
// set, the free columns with negative reduced cost. It completes the cover
// greedily by cost per newly covered row, then drops redundant columns
// starting with the most expensive.
func (e *coverEngine) heuristic(rc []float64) {
	n := len(e.cost)
	sel := make([]bool, n)
	for r := range e.hits {
		e.hits[r] = 0
	}
	need := len(e.rows)
	take := func(j int) {
		sel[j] = true
		for _, r := range e.cols[j] {
			if e.hits[r] == 0 {
				need--
			}
			e.hits[r]++
		}
	}
	for j, f := range e.fixed {
		if f == 1 || (f < 0 && rc != nil && rc[j] < 0) {
			take(j)
		}
	}
	for need > 0 {
		pick, pickScore := -1, 0.0
		for j, f := range e.fixed {
			if f >= 0 || sel[j] {
				continue
			}
			gain := 0
			for _, r := range e.cols[j] {
				if e.hits[r] == 0 {
					gain++
				}
			}
			if gain == 0 {
				continue
			}
			if score := e.cost[j] / float64(gain); pick < 0 || score < pickScore {
				pick, pickScore = j, score
			}
		}
		if pick < 0 {
			return
		}
		take(pick)
	}

	var chosen []int
	for j, s := range sel {
		if s {
			chosen = append(chosen, j)
		}
	}
	sort.SliceStable(chosen, func(a, b int) bool {
		return e.cost[chosen[a]] > e.cost[chosen[b]]
	})
	for _, j := range chosen {
		redundant := true
		for _, r := range e.cols[j] {
			if e.hits[r] < 2 {
				redundant = false
				break
			}
		}
		if redundant {
			sel[j] = false
			for _, r := range e.cols[j] {
				e.hits[r]--
			}
		}
	}

	x := make([]float64, n)
	for j, s := range sel {
		if s {
			x[j] = 1
		}
	}
	if e.p.Feasible(x, e.eps) {
		e.record(x)
	}
}
