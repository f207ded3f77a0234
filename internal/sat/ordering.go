package sat

import (
	"github.com/rhartert/yagh"
)

// VarOrder selects the next decision variable, preferring variables with the
// highest activity. The order is rebuilt from the solver's activities at the
// beginning of each solve call, so activity bumps performed between calls are
// taken into account.
type VarOrder struct {
	size        int
	solver      *Solver
	phase       []LBool
	phaseSaving bool
	heap        *yagh.IntMap[float64]
}

func NewVarOrder(s *Solver, nVar int) *VarOrder {
	vo := &VarOrder{
		size:        nVar,
		solver:      s,
		phase:       make([]LBool, nVar),
		phaseSaving: false,
		heap:        yagh.New[float64](nVar),
	}

	vo.UpdateAll()
	return vo
}

func (vo *VarOrder) Update(varID int) {
	if vo.heap.Contains(varID) {
		vo.Undo(varID)
	}
}

func (vo *VarOrder) UpdateAll() {
	for i := 0; i < vo.size; i++ {
		vo.Undo(i)
	}
}

func (vo *VarOrder) Undo(varID int) {
	if vo.phaseSaving {
		vo.phase[varID] = vo.solver.VarValue(varID)
	}

	act := vo.solver.activities[varID]
	vo.heap.Put(varID, -act)
}

func (vo *VarOrder) Select() Literal {
	for {
		next, ok := vo.heap.Pop()
		if !ok {
			panic("variable order heap is empty")
		}
		if vo.solver.VarValue(next.Elem) != Unknown {
			continue // already assigned
		}

		switch vo.phase[next.Elem] {
		case True:
			return PositiveLiteral(next.Elem)
		default:
			return NegativeLiteral(next.Elem)
		}
	}
}
