/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ilp

import (
	"context"
	"errors"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	defaultIntTol = 1e-6
	simplexTol    = 1e-10
)

// BranchAndBound is a depth-first branch-and-bound Backend.
//
// Pure set-covering problems are searched with a Lagrangian bound (see
// setcover.go). Any other problem gets its node bound from the LP
// relaxation (0 <= x <= 1) with the node's fixed variables substituted out,
// solved with gonum's simplex. There branching picks the most fractional
// variable (lowest index on ties) and explores x=1 before x=0.
//
// When every objective coefficient is integral bounds are rounded up, which
// lets an incumbent prune any node within one unit of it.
type BranchAndBound struct {
	// TimeLimit bounds a single Solve. Zero means no limit beyond the
	// context's own deadline.
	TimeLimit time.Duration
	// IntTol is the integrality and feasibility tolerance.
	IntTol float64
	Logger *log.Logger
}

func NewBranchAndBound(timeLimit time.Duration, logger *log.Logger) *BranchAndBound {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &BranchAndBound{
		TimeLimit: timeLimit,
		IntTol:    defaultIntTol,
		Logger:    logger,
	}
}

type bbEngine struct {
	search

	// fixed[j] is -1 while x[j] is free, otherwise its 0/1 value.
	fixed     []int8
	fallbacks int
}

// relaxation is the LP outcome at one node. x is indexed by problem
// variable; fixed variables carry their fixed value.
type relaxation struct {
	feasible bool
	obj      float64
	x        []float64
	// exact is false when the LP could not be solved and obj is only the
	// trivial bound.
	exact bool
}

// Solve dispatches pure covering problems (unit coefficients, every row
// ">= 1", non-negative costs) to the Lagrangian set-cover search and
// everything else to the LP-based search.
func (b *BranchAndBound) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	if err := p.Validate(); err != nil {
		return &Solution{Status: StatusError}, err
	}
	logger := b.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	eps := b.IntTol
	if eps <= 0 {
		eps = defaultIntTol
	}

	if m, ok := asCover(p); ok {
		return b.solveCover(ctx, p, m, eps, logger)
	}
	return b.solveLP(ctx, p, eps, logger)
}

func (b *BranchAndBound) solveLP(ctx context.Context, p *Problem, eps float64,
	logger *log.Logger) (*Solution, error) {

	e := bbEngine{
		search: newSearch(ctx, p, b.TimeLimit, eps, logger),
		fixed:  make([]int8, p.NumVars),
	}
	for j := range e.fixed {
		e.fixed[j] = -1
	}

	e.dfs()

	logger.Debug("ilp: search finished", "problem", p.Name, "nodes", e.nodes,
		"lpFallbacks", e.fallbacks, "found", e.found, "timedOut", e.timedOut)
	return e.solution()
}

func (e *bbEngine) dfs() {
	if e.halted() {
		return
	}
	e.visit()
	root := e.nodes == 1

	rel := e.relax()
	if !rel.feasible {
		return
	}
	if root && rel.exact {
		e.bound = e.roundBound(rel.obj)
	}
	if e.prunes(rel.obj) {
		return
	}

	j := e.branchVar(rel)
	if j < 0 {
		x := roundAll(rel.x)
		if e.p.Feasible(x, e.eps) {
			e.record(x)
			return
		}
		// the rounded LP point drifted out of feasibility; keep branching
		if j = e.firstFree(); j < 0 {
			return
		}
	}

	for _, v := range [2]int8{1, 0} {
		e.fixed[j] = v
		e.dfs()
		e.fixed[j] = -1
		if e.halted() {
			return
		}
	}
}

// branchVar returns the most fractional free variable, or -1 when the
// relaxation is integral.
func (e *bbEngine) branchVar(rel relaxation) int {
	best, bestDist := -1, 0.0
	for j, f := range e.fixed {
		if f >= 0 {
			continue
		}
		if !rel.exact {
			// Without an LP solution every free variable is undecided.
			return j
		}
		v := rel.x[j]
		frac := math.Min(v, 1-v)
		if frac <= e.eps {
			continue
		}
		if dist := math.Abs(v - 0.5); best < 0 || dist < bestDist {
			best, bestDist = j, dist
		}
	}

	return best
}

func (e *bbEngine) firstFree() int {
	for j, f := range e.fixed {
		if f < 0 {
			return j
		}
	}
	return -1
}

// relax solves the LP relaxation of the current node in standard form:
//
//	min c.x  s.t.  A x (-/+) s = b,  x + u = 1,  x, s, u >= 0
//
// with one slack per remaining constraint row and one bound slack per free
// variable.
func (e *bbEngine) relax() relaxation {
	p := e.p
	free := make([]int, 0, len(e.fixed))
	pos := make([]int, len(e.fixed))
	fixedObj := 0.0
	for j, f := range e.fixed {
		if f < 0 {
			pos[j] = len(free)
			free = append(free, j)
		} else {
			pos[j] = -1
			fixedObj += p.Objective[j] * float64(f)
		}
	}

	type row struct {
		terms []Term
		sense Sense
		rhs   float64
	}
	var rows []row
	for _, con := range p.Constraints {
		r := row{sense: con.Sense, rhs: con.RHS}
		allPos, allNeg := true, true
		for _, t := range con.Terms {
			if f := e.fixed[t.Var]; f >= 0 {
				r.rhs -= t.Coef * float64(f)
				continue
			}
			if t.Coef == 0 {
				continue
			}
			r.terms = append(r.terms, Term{Var: pos[t.Var], Coef: t.Coef})
			allPos = allPos && t.Coef > 0
			allNeg = allNeg && t.Coef < 0
		}
		if len(r.terms) == 0 {
			if (r.sense == GreaterEq && r.rhs > e.eps) || (r.sense == LessEq && r.rhs < -e.eps) {
				return relaxation{}
			}
			continue
		}
		// rows no free assignment can violate
		if (r.sense == GreaterEq && allPos && r.rhs <= 0) ||
			(r.sense == LessEq && allNeg && r.rhs >= 0) {
			continue
		}
		rows = append(rows, r)
	}

	x := make([]float64, len(e.fixed))
	for j, f := range e.fixed {
		if f >= 0 {
			x[j] = float64(f)
		}
	}
	nf := len(free)
	if nf == 0 {
		return relaxation{feasible: true, obj: fixedObj, x: x, exact: true}
	}

	m := len(rows) + nf
	n := nf + len(rows) + nf
	A := mat.NewDense(m, n, nil)
	b := make([]float64, m)
	c := make([]float64, n)
	for k, j := range free {
		c[k] = p.Objective[j]
	}
	for i, r := range rows {
		sign := 1.0
		if r.rhs < 0 {
			sign = -1.0
		}
		for _, t := range r.terms {
			A.Set(i, t.Var, A.At(i, t.Var)+sign*t.Coef)
		}
		slack := -1.0
		if r.sense == LessEq {
			slack = 1.0
		}
		A.Set(i, nf+i, sign*slack)
		b[i] = sign * r.rhs
	}
	for k := 0; k < nf; k++ {
		i := len(rows) + k
		A.Set(i, k, 1)
		A.Set(i, nf+len(rows)+k, 1)
		b[i] = 1
	}

	optF, optX, err := e.simplex(c, A, b)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) || errors.Is(err, errHalted) {
			return relaxation{}
		}
		// Numerical trouble: fall back to the trivial bound so the node is
		// still explored by branching.
		e.fallbacks++
		e.logger.Debug("ilp: lp relaxation failed", "problem", p.Name, "err", err,
			"rows", m, "cols", n)
		lb := fixedObj
		for _, j := range free {
			lb += math.Min(0, p.Objective[j])
		}
		return relaxation{feasible: true, obj: lb, x: x}
	}

	for k, j := range free {
		x[j] = clamp01(optX[k])
	}
	return relaxation{feasible: true, obj: fixedObj + optF, x: x, exact: true}
}

var errHalted = errors.New("ilp: search halted")

// simplex runs lp.Simplex on its own goroutine so that the deadline and
// context cancellation interrupt a long pivot sequence. An abandoned solve
// finishes in the background and its result is dropped.
func (e *bbEngine) simplex(c []float64, A mat.Matrix, b []float64) (float64, []float64, error) {
	type result struct {
		opt float64
		x   []float64
		err error
	}
	done := make(chan result, 1)
	go func() {
		opt, x, err := lp.Simplex(c, A, b, simplexTol, nil)
		done <- result{opt: opt, x: x, err: err}
	}()

	expired, stop := e.expiry()
	defer stop()
	select {
	case r := <-done:
		return r.opt, r.x, r.err
	case <-e.ctx.Done():
		e.halted()
	case <-expired:
		e.timedOut = true
	}

	return 0, nil, errHalted
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
