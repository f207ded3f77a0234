package sat

import "fmt"

// Literal represents a literal, which either represent a boolean variable or
// its negation. Variables are 0-indexed; the positive literal of variable v
// is 2*v and its negation 2*v+1.
type Literal int

// PositiveLiteral returns the positive literal of the given variable.
func PositiveLiteral(varID int) Literal {
	return Literal(varID * 2)
}

// NegativeLiteral returns the negative literal of the given variable.
func NegativeLiteral(varID int) Literal {
	return PositiveLiteral(varID).Opposite()
}

// LiteralFromInt converts a signed DIMACS-style literal (1-indexed, sign
// encodes the polarity) into a Literal. The value must be nonzero.
func LiteralFromInt(l int) Literal {
	if l < 0 {
		return NegativeLiteral(-l - 1)
	}
	return PositiveLiteral(l - 1)
}

// Int converts the literal back to its signed DIMACS-style representation.
func (l Literal) Int() int {
	if l.IsPositive() {
		return l.VarID() + 1
	}
	return -(l.VarID() + 1)
}

// VarID returns the ID of the literal's variable.
func (l Literal) VarID() int {
	return int(l) / 2
}

// IsPositive returns true if and only if the literal represent the value of
// its boolean variable (i.e. not its negation)
func (l Literal) IsPositive() bool {
	return l&1 == 0
}

// Opposite returns the opposite literal.
func (l Literal) Opposite() Literal {
	return l ^ 1
}

func (l Literal) String() string {
	if l.IsPositive() {
		return fmt.Sprintf("%d", l.VarID())
	} else {
		return fmt.Sprintf("!%d", l.VarID())
	}
}
