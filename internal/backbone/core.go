// Package backbone computes formula backbones: the literals that hold in
// every satisfying assignment of a CNF formula, optionally under a set of
// assumption literals.
//
// The package talks to the SAT solver through the Solver interface using
// signed DIMACS-style literals, so the concrete CDCL engine stays replaceable
// and none of its identifiers leak into the analysis layers.
package backbone

import (
	"fmt"

	"github.com/strongraph/strongraph/internal/dimacs"
	"github.com/strongraph/strongraph/internal/sat"
)

// Solver is the minimal SAT-core surface required by the backbone engines.
// Literals are signed DIMACS-style integers: sign encodes polarity, magnitude
// the 1-indexed variable.
//
// A Solver is deterministic per instance: given the same clauses and the same
// call sequence it returns the same answers. Callers must not rely on which
// model is found, only on satisfiability and forced-literal behavior.
type Solver interface {
	// AddClause extends the formula. Only legal before the first Solve.
	AddClause(lits []int) error

	// Solve decides the formula conjoined with the given assumption
	// literals. Assumptions are valid for this call only.
	Solve(assumptions []int) (bool, error)

	// Value returns the polarity of variable v in the model found by the
	// last successful Solve.
	Value(v int) bool

	// BumpActivity raises the solver's internal branching priority for
	// variable v. A hint: it never changes satisfiability answers.
	BumpActivity(v int)

	// NumVariables returns the number of variables in the formula.
	NumVariables() int
}

// NewSolver returns a CDCL solver loaded with the instance's clauses. The
// returned solver is not safe for concurrent use and, like its construction,
// must be confined to a single goroutine at a time.
func NewSolver(inst *dimacs.Instance) (Solver, error) {
	c := &cdclSolver{solver: sat.NewDefaultSolver()}
	for i := 0; i < inst.Variables; i++ {
		c.solver.AddVariable()
	}
	for _, clause := range inst.Clauses {
		if err := c.AddClause(clause); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// cdclSolver adapts the internal CDCL solver to the Solver interface,
// translating between signed 1-indexed literals and the solver's internal
// representation.
type cdclSolver struct {
	solver *sat.Solver
	tmp    []sat.Literal
}

func (c *cdclSolver) AddClause(lits []int) error {
	c.tmp = c.tmp[:0]
	for _, l := range lits {
		c.tmp = append(c.tmp, sat.LiteralFromInt(l))
	}
	return c.solver.AddClause(c.tmp)
}

func (c *cdclSolver) Solve(assumptions []int) (bool, error) {
	c.tmp = c.tmp[:0]
	for _, l := range assumptions {
		c.tmp = append(c.tmp, sat.LiteralFromInt(l))
	}
	switch c.solver.SolveUnderAssumptions(c.tmp) {
	case sat.True:
		return true, nil
	case sat.False:
		return false, nil
	default:
		return false, fmt.Errorf("search interrupted before reaching a verdict")
	}
}

func (c *cdclSolver) Value(v int) bool {
	return c.solver.ModelValue(v - 1)
}

func (c *cdclSolver) BumpActivity(v int) {
	c.solver.BumpVarActivity(v - 1)
}

func (c *cdclSolver) NumVariables() int {
	return c.solver.NumVariables()
}
