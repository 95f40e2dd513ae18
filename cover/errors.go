/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package cover

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikeb26/franchise-cover/ilp"
	"github.com/mikeb26/franchise-cover/league"
)

// InfeasibleError reports that no subset of the players covers the
// universe. Uncovered lists the connections nobody covers.
type InfeasibleError struct {
	Uncovered league.ConnectionSet
}

func (e *InfeasibleError) Error() string {
	const maxListed = 10
	conns := e.Uncovered.Strings()
	listed := conns
	if len(listed) > maxListed {
		listed = listed[:maxListed]
	}
	msg := fmt.Sprintf("cover: infeasible: %d connections have no covering player",
		len(conns))
	if len(listed) > 0 {
		msg += ": " + strings.Join(listed, ",")
		if len(listed) < len(conns) {
			msg += ",..."
		}
	}
	return msg
}

// SolverBackendError reports that the ILP backend did not reach a
// definitive optimal or infeasible conclusion.
type SolverBackendError struct {
	Status ilp.Status
	Err    error
}

func (e *SolverBackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cover: ilp backend status %v: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("cover: ilp backend status %v", e.Status)
}

func (e *SolverBackendError) Unwrap() error { return e.Err }

// SolverTimeoutError reports that the solve was aborted by its time limit.
// Best is the smallest covering selection found before the limit, sorted by
// player id, or nil when there was none. Bound is the proven lower bound on
// the optimum size.
type SolverTimeoutError struct {
	Limit time.Duration
	Nodes int
	Best  []PlayerID
	Bound float64
}

func (e *SolverTimeoutError) Error() string {
	msg := fmt.Sprintf("cover: ilp solve exceeded its deadline after %d nodes", e.Nodes)
	if e.Limit > 0 {
		msg = fmt.Sprintf("cover: ilp solve exceeded time limit %v after %d nodes",
			e.Limit, e.Nodes)
	}
	if e.Best != nil {
		msg += fmt.Sprintf("; best selection has %d players, optimum is at least %v",
			len(e.Best), e.Bound)
	}
	return msg
}
