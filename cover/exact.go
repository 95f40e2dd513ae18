/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package cover

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mikeb26/franchise-cover/ilp"
	"github.com/mikeb26/franchise-cover/league"
	"github.com/prysmaticlabs/go-bitfield"
)

type ExactOptions struct {
	// Backend solves the model; nil selects ilp.BranchAndBound.
	Backend ilp.Backend
	// TimeLimit bounds the backend call. Zero means no limit.
	TimeLimit time.Duration
	Logger    *log.Logger
}

// Exact returns a minimum-cardinality set of players covering u, sorted by
// player id. It never returns a partial selection: infeasible input yields
// *InfeasibleError and any backend outcome other than optimal yields
// *SolverBackendError, except a time limit abort, which yields
// *SolverTimeoutError carrying the best cover found so far.
func Exact(ctx context.Context, players Players, u *league.Universe,
	opts ExactOptions) ([]PlayerID, error) {

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if u.Len() == 0 {
		return []PlayerID{}, nil
	}

	cands := project(players, u)
	if missing := uncoveredBy(cands, u); len(missing) > 0 {
		return nil, &InfeasibleError{Uncovered: missing}
	}

	kept := dropDominated(cands, u.Len())
	logger.Debug("cover.exact: presolve", "players", len(players),
		"candidates", len(cands), "kept", len(kept))

	prob := buildModel(kept, u)
	hint := greedyOn(kept, u)
	prob.Hint = make([]float64, len(kept))
	pos := make(map[PlayerID]int, len(kept))
	for j, c := range kept {
		pos[c.id] = j
	}
	for _, id := range hint.Selected {
		prob.Hint[pos[id]] = 1
	}
	logger.Debug("cover.exact: greedy incumbent", "size", len(hint.Selected))

	backend := opts.Backend
	if backend == nil {
		backend = ilp.NewBranchAndBound(0, logger)
	}
	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeLimit)
		defer cancel()
	}

	start := time.Now()
	sol, err := backend.Solve(ctx, prob)
	if sol == nil {
		return nil, &SolverBackendError{Status: ilp.StatusError, Err: err}
	}
	logger.Info("cover.exact: backend finished", "status", sol.Status,
		"nodes", sol.Nodes, "elapsed", time.Since(start).Round(time.Millisecond))

	switch sol.Status {
	case ilp.StatusOptimal:
	case ilp.StatusInfeasible:
		return nil, &InfeasibleError{Uncovered: uncoveredBy(kept, u)}
	case ilp.StatusTimeLimit:
		timeout := &SolverTimeoutError{Limit: opts.TimeLimit, Nodes: sol.Nodes,
			Bound: sol.Bound}
		if len(sol.Values) == len(kept) {
			best := selectedIDs(sol, kept)
			if len(Uncovered(players, best, u)) == 0 {
				timeout.Best = best
			}
		}
		return nil, timeout
	default:
		return nil, &SolverBackendError{Status: sol.Status, Err: err}
	}

	if len(sol.Values) != len(kept) {
		return nil, &SolverBackendError{Status: sol.Status,
			Err: fmt.Errorf("backend returned %d values for %d variables",
				len(sol.Values), len(kept))}
	}
	sel := selectedIDs(sol, kept)
	if missing := Uncovered(players, sel, u); len(missing) > 0 {
		return nil, &SolverBackendError{Status: sol.Status,
			Err: fmt.Errorf("selection leaves %d connections uncovered", len(missing))}
	}

	return sel, nil
}

func selectedIDs(sol *ilp.Solution, kept []*candidate) []PlayerID {
	sel := make([]PlayerID, 0, len(kept))
	for _, j := range sol.Selected() {
		sel = append(sel, kept[j].id)
	}
	sortIDs(sel)
	return sel
}

// buildModel is the 0/1 set-cover ILP: one variable per candidate, minimise
// their sum, and at least one selected candidate per connection.
func buildModel(cands []*candidate, u *league.Universe) *ilp.Problem {
	prob := &ilp.Problem{
		Name:        "OptimalConnections",
		NumVars:     len(cands),
		Objective:   make([]float64, len(cands)),
		Constraints: make([]ilp.Constraint, u.Len()),
	}
	for j := range cands {
		prob.Objective[j] = 1
	}
	for i := range prob.Constraints {
		prob.Constraints[i] = ilp.Constraint{
			Name:  "Cover_" + string(u.At(i)),
			Sense: ilp.GreaterEq,
			RHS:   1,
		}
	}
	for j, c := range cands {
		for _, i := range c.bits.BitIndices() {
			prob.Constraints[i].Terms = append(prob.Constraints[i].Terms,
				ilp.Term{Var: j, Coef: 1})
		}
	}

	return prob
}

// dropDominated removes candidates whose coverage is contained in another
// kept candidate's. For equal coverage the smallest id survives. The optimum
// size of the unweighted problem is unchanged. The result is ordered by id.
func dropDominated(cands []*candidate, n int) []*candidate {
	order := append([]*candidate(nil), cands...)
	// by count descending, then id ascending; cands arrive sorted by id
	sort.SliceStable(order, func(i, j int) bool { return order[i].count > order[j].count })

	scratch := bitfield.NewBitlist64(uint64(n))
	var kept []*candidate
	for _, c := range order {
		dominated := false
		for _, k := range kept {
			if err := c.bits.NoAllocAnd(k.bits, scratch); err != nil {
				panic(err)
			}
			if scratch.Count() == c.count {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].id < kept[j].id })
	return kept
}

func uncoveredBy(cands []*candidate, u *league.Universe) league.ConnectionSet {
	covered := bitfield.NewBitlist64(uint64(u.Len()))
	for _, c := range cands {
		for _, i := range c.bits.BitIndices() {
			covered.SetBitAt(uint64(i), true)
		}
	}
	ret := make(league.ConnectionSet)
	for i := 0; i < u.Len(); i++ {
		if !covered.BitAt(uint64(i)) {
			ret.Add(u.At(i))
		}
	}
	return ret
}
