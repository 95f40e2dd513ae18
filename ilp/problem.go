/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package ilp is a narrow binary integer programming interface. Modeling
// code builds a Problem and hands it to a Backend; the backend is swappable
// without touching the model.
package ilp

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Backend solves a binary minimisation problem. A Backend reports the
// outcome through Solution.Status; the returned error is non-nil only when
// Status is StatusError.
type Backend interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

type Sense int

const (
	GreaterEq Sense = iota
	LessEq
)

func (s Sense) String() string {
	switch s {
	case GreaterEq:
		return ">="
	case LessEq:
		return "<="
	}
	return fmt.Sprintf("Sense(%d)", int(s))
}

// Term is Coef * x[Var].
type Term struct {
	Var  int
	Coef float64
}

// Constraint is sum(Terms) Sense RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Problem minimises Objective . x over x in {0,1}^NumVars subject to
// Constraints. Hint, when set, is a candidate assignment used as the
// initial incumbent if it is feasible.
type Problem struct {
	Name        string
	NumVars     int
	Objective   []float64
	Constraints []Constraint
	Hint        []float64
}

var ErrInvalidProblem = errors.New("ilp: invalid problem")

func (p *Problem) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil problem", ErrInvalidProblem)
	}
	if p.NumVars < 0 || len(p.Objective) != p.NumVars {
		return fmt.Errorf("%w: %d objective coefficients for %d variables",
			ErrInvalidProblem, len(p.Objective), p.NumVars)
	}
	for j, c := range p.Objective {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: objective coefficient %d is %v", ErrInvalidProblem, j, c)
		}
	}
	for i, con := range p.Constraints {
		if con.Sense != GreaterEq && con.Sense != LessEq {
			return fmt.Errorf("%w: constraint %d (%s) has sense %v",
				ErrInvalidProblem, i, con.Name, con.Sense)
		}
		if math.IsNaN(con.RHS) || math.IsInf(con.RHS, 0) {
			return fmt.Errorf("%w: constraint %d (%s) has rhs %v",
				ErrInvalidProblem, i, con.Name, con.RHS)
		}
		for _, t := range con.Terms {
			if t.Var < 0 || t.Var >= p.NumVars {
				return fmt.Errorf("%w: constraint %d (%s) references variable %d",
					ErrInvalidProblem, i, con.Name, t.Var)
			}
			if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
				return fmt.Errorf("%w: constraint %d (%s) has coefficient %v",
					ErrInvalidProblem, i, con.Name, t.Coef)
			}
		}
	}
	if p.Hint != nil && len(p.Hint) != p.NumVars {
		return fmt.Errorf("%w: hint has %d values for %d variables",
			ErrInvalidProblem, len(p.Hint), p.NumVars)
	}

	return nil
}

// Feasible reports whether x is a binary assignment satisfying every
// constraint within tol.
func (p *Problem) Feasible(x []float64, tol float64) bool {
	if len(x) != p.NumVars {
		return false
	}
	for _, v := range x {
		if math.Abs(v) > tol && math.Abs(v-1) > tol {
			return false
		}
	}
	for _, con := range p.Constraints {
		lhs := 0.0
		for _, t := range con.Terms {
			lhs += t.Coef * x[t.Var]
		}
		switch con.Sense {
		case GreaterEq:
			if lhs < con.RHS-tol {
				return false
			}
		case LessEq:
			if lhs > con.RHS+tol {
				return false
			}
		}
	}

	return true
}

// Value returns Objective . x.
func (p *Problem) Value(x []float64) float64 {
	v := 0.0
	for j, c := range p.Objective {
		v += c * x[j]
	}
	return v
}

type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusTimeLimit
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusTimeLimit:
		return "TimeLimit"
	case StatusError:
		return "Error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Solution is a backend outcome. Values and Objective hold the optimum when
// Status is StatusOptimal. On StatusTimeLimit they hold the best feasible
// assignment found before the limit, or Values is nil when there was none.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
	// Bound is a proven lower bound on the optimal objective.
	Bound float64
	// Nodes is the number of search nodes the backend explored.
	Nodes int
}

// Selected returns the indices of the variables set to one.
func (s *Solution) Selected() []int {
	var ret []int
	for j, v := range s.Values {
		if v > 0.5 {
			ret = append(ret, j)
		}
	}
	return ret
}
