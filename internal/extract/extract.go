// Package extract turns per-variable backbones into requires and excludes
// edges and fans the per-variable work out across parallel workers.
package extract

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/strongraph/strongraph/internal/backbone"
	"github.com/strongraph/strongraph/internal/dimacs"
)

// Edge is a directed requires edge (Src selected forces Dst selected) or an
// excludes pair (Src and Dst can never be selected together, Src < Dst).
type Edge struct {
	Src int
	Dst int
}

// Candidates returns the variables eligible as edge sources: non-auxiliary
// variables that are not part of the global backbone. Backbone variables
// have no conditional edges: assuming a core variable is redundant and
// assuming a dead one refutes the formula. Order is ascending.
func Candidates(inst *dimacs.Instance, globalBB []int) []int {
	return lo.Filter(lo.RangeFrom(1, inst.Variables), func(v int, _ int) bool {
		return !inst.IsAux(v) && globalBB[v] == 0
	})
}

// processVariable computes the backbone of the formula under the assumption
// that v is selected, and distills it into edges:
//
//   - v requires w if w is forced true and w is not globally core;
//   - v excludes w if w is forced false and neither endpoint is globally
//     dead. Only the w >= v representative of the unordered pair is emitted,
//     so each excludes pair appears exactly once across all sources.
//
// Edges to auxiliary variables are suppressed.
func processVariable(det backbone.Detector, inst *dimacs.Instance, globalBB []int, v int, requires, excludes []Edge) ([]Edge, []Edge, error) {
	line, err := det.Backbone([]int{v})
	if err != nil {
		// Candidates are not in the global backbone, so assuming them can
		// never refute a satisfiable formula.
		return nil, nil, errors.Wrapf(err, "backbone query for variable %d failed", v)
	}

	n := inst.Variables
	for w := 1; w <= n; w++ {
		if w == v || inst.IsAux(w) {
			continue
		}
		if line[w] == w && globalBB[w] == 0 {
			requires = append(requires, Edge{Src: v, Dst: w})
		}
	}
	for w := v + 1; w <= n; w++ {
		if inst.IsAux(w) {
			continue
		}
		if line[w] == -w && globalBB[w] != -w && globalBB[v] != -v {
			excludes = append(excludes, Edge{Src: v, Dst: w})
		}
	}

	return requires, excludes, nil
}
