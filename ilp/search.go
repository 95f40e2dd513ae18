/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ilp

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/charmbracelet/log"
)

// searchLimit tracks the deadline and cancellation state of one Solve.
type searchLimit struct {
	ctx         context.Context
	useDeadline bool
	deadline    time.Time

	timedOut  bool
	cancelErr error
}

func newSearchLimit(ctx context.Context, timeLimit time.Duration) searchLimit {
	l := searchLimit{ctx: ctx}
	if timeLimit > 0 {
		l.useDeadline = true
		l.deadline = time.Now().Add(timeLimit)
	}
	if d, ok := ctx.Deadline(); ok && (!l.useDeadline || d.Before(l.deadline)) {
		l.useDeadline = true
		l.deadline = d
	}
	return l
}

// halted reports whether the search must stop, recording why.
func (l *searchLimit) halted() bool {
	if l.timedOut || l.cancelErr != nil {
		return true
	}
	if err := l.ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.timedOut = true
		} else {
			l.cancelErr = err
		}
		return true
	}
	if l.useDeadline && time.Now().After(l.deadline) {
		l.timedOut = true
		return true
	}

	return false
}

// expiry returns a channel that fires at the deadline, or nil when there is
// none. The returned func releases the timer.
func (l *searchLimit) expiry() (<-chan time.Time, func()) {
	if !l.useDeadline {
		return nil, func() {}
	}
	timer := time.NewTimer(time.Until(l.deadline))
	return timer.C, func() { timer.Stop() }
}

// search is the state shared by the branch-and-bound engines: the
// incumbent, the proven lower bound and the node count.
type search struct {
	searchLimit
	p      *Problem
	eps    float64
	intObj bool
	logger *log.Logger

	best    []float64
	bestObj float64
	found   bool
	// bound is a proven lower bound on the optimum.
	bound float64

	nodes      int
	lastReport time.Time
}

func newSearch(ctx context.Context, p *Problem, timeLimit time.Duration, eps float64,
	logger *log.Logger) search {

	s := search{
		searchLimit: newSearchLimit(ctx, timeLimit),
		p:           p,
		eps:         eps,
		intObj:      true,
		logger:      logger,
		lastReport:  time.Now(),
	}
	for _, c := range p.Objective {
		if c != math.Trunc(c) {
			s.intObj = false
		}
		s.bound += math.Min(0, c)
	}
	if p.Hint != nil && p.Feasible(p.Hint, eps) {
		s.record(roundAll(p.Hint))
		logger.Debug("ilp: seeded incumbent from hint", "problem", p.Name, "objective", s.bestObj)
	}

	return s
}

// record keeps x when it improves on the incumbent. x must be feasible.
func (s *search) record(x []float64) bool {
	obj := s.p.Value(x)
	if s.found && obj >= s.bestObj-s.eps {
		return false
	}
	s.best = x
	s.bestObj = obj
	s.found = true
	s.logger.Debug("ilp: new incumbent", "problem", s.p.Name, "objective", obj, "nodes", s.nodes)
	return true
}

// roundBound tightens a lower bound using integrality of the objective.
func (s *search) roundBound(lb float64) float64 {
	if s.intObj {
		return math.Ceil(lb - s.eps)
	}
	return lb
}

// prunes reports whether no solution with objective >= lb can improve on
// the incumbent.
func (s *search) prunes(lb float64) bool {
	return s.found && s.roundBound(lb) >= s.bestObj-s.eps
}

func (s *search) visit() {
	s.nodes++
	if time.Since(s.lastReport) > 10*time.Second {
		s.lastReport = time.Now()
		s.logger.Info("ilp: searching", "problem", s.p.Name, "nodes", s.nodes,
			"incumbent", s.bestObj, "found", s.found, "bound", s.bound)
	}
}

// solution maps the search outcome onto a Solution. A time limit still
// reports the incumbent, if any, along with the proven bound.
func (s *search) solution() (*Solution, error) {
	sol := &Solution{Nodes: s.nodes, Bound: s.bound}
	switch {
	case s.cancelErr != nil:
		sol.Status = StatusError
		return sol, s.cancelErr
	case s.timedOut:
		sol.Status = StatusTimeLimit
		if s.found {
			sol.Values = s.best
			sol.Objective = s.bestObj
		}
	case !s.found:
		sol.Status = StatusInfeasible
	default:
		sol.Status = StatusOptimal
		sol.Values = s.best
		sol.Objective = s.bestObj
		sol.Bound = s.bestObj
	}

	return sol, nil
}

func roundAll(x []float64) []float64 {
	ret := make([]float64, len(x))
	for j, v := range x {
		ret[j] = math.Round(v)
	}
	return ret
}
