package backbone

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrRefuted is returned when the formula is unsatisfiable under the given
// assumption set, in which case it has no backbone.
var ErrRefuted = errors.New("assumptions refuted")

// Detector names accepted by NewDetector.
const (
	// DetectorOne checks candidates one by one and bumps the activity of the
	// still-unsettled candidates after every witness model, biasing the next
	// solves toward them. This is the default.
	DetectorOne = "one"

	// DetectorPlain is DetectorOne without the activity bumping. It is kept
	// as a measurement baseline; it produces identical results.
	DetectorPlain = "plain"
)

// Detector computes backbones of the formula held by its solver.
type Detector interface {
	// Backbone returns the backbone of the formula conjoined with the given
	// assumption literals, as a vector indexed by variable: entry v holds +v
	// if v is forced true, -v if forced false, and 0 if v is not fixed.
	// Index 0 is unused. The returned slice is owned by the caller.
	//
	// Backbone returns ErrRefuted if the formula is unsatisfiable under the
	// assumptions.
	Backbone(assumptions []int) ([]int, error)
}

// NewDetector returns the named backbone detector bound to the given solver.
// The empty name selects DetectorOne.
func NewDetector(name string, solver Solver) (Detector, error) {
	switch name {
	case "", DetectorOne:
		return &oneByOne{solver: solver, bump: true}, nil
	case DetectorPlain:
		return &oneByOne{solver: solver, bump: false}, nil
	default:
		return nil, fmt.Errorf("unknown backbone detector %q", name)
	}
}

// oneByOne implements the candidate-filtering backbone algorithm: start from
// the literals of an initial model, then test each remaining candidate l by
// solving with the extra assumption ¬l. An UNSAT answer proves l is backbone;
// a SAT answer yields a witness model that removes every candidate it
// disagrees with.
type oneByOne struct {
	solver Solver
	bump   bool

	// Scratch vectors, reused across calls to keep per-variable queries
	// allocation-free.
	candidates []int
	scratch    []int
}

func (d *oneByOne) Backbone(assumptions []int) ([]int, error) {
	n := d.solver.NumVariables()

	ok, err := d.solver.Solve(assumptions)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRefuted
	}

	// Initialize the candidate set from the initial model: the backbone is a
	// subset of any model's literals.
	if d.candidates == nil {
		d.candidates = make([]int, n+1)
	}
	cand := d.candidates
	for v := 1; v <= n; v++ {
		if d.solver.Value(v) {
			cand[v] = v
		} else {
			cand[v] = -v
		}
	}

	result := make([]int, n+1)
	d.scratch = append(d.scratch[:0], assumptions...)

	for v := 1; v <= n; v++ {
		l := cand[v]
		if l == 0 {
			continue // settled by an earlier witness model
		}

		d.scratch = append(d.scratch, -l)
		ok, err := d.solver.Solve(d.scratch)
		d.scratch = d.scratch[:len(assumptions)]
		if err != nil {
			return nil, err
		}

		if !ok {
			// No model falsifies l: it is a backbone literal.
			result[v] = l
			cand[v] = 0
			continue
		}

		// The witness model falsifies every candidate it disagrees with,
		// including l itself. Candidates below v are already settled.
		for w := v; w <= n; w++ {
			if cand[w] == 0 {
				continue
			}
			if (cand[w] > 0) != d.solver.Value(w) {
				cand[w] = 0
			}
		}

		if d.bump {
			for w := v + 1; w <= n; w++ {
				if cand[w] != 0 {
					d.solver.BumpActivity(w)
				}
			}
		}
	}

	return result, nil
}
