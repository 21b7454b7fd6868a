package expr

import (
	"hash/fnv"
)

// Equation pairs a defined reference with its defining expression. For a
// state the left-hand side is a derivative reference, dot(x); for every other
// variable it is the plain name.
type Equation struct {
	LHS Ref
	RHS *Expression
}

// NewEquation builds an equation for the named variable.
func NewEquation(name string, derivative bool, rhs *Expression) Equation {
	return Equation{LHS: Ref{Name: name, Derivative: derivative}, RHS: rhs}
}

// String renders the equation as "lhs = rhs".
func (eq Equation) String() string {
	return eq.LHS.String() + " = " + eq.RHS.String()
}

// Equal compares both sides structurally.
func (eq Equation) Equal(other Equation) bool {
	return eq.LHS.Same(other.LHS) && eq.RHS.Equal(other.RHS)
}

// Hash combines the hashes of both sides.
func (eq Equation) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(eq.LHS.String()))
	return h.Sum64()*31 + eq.RHS.Hash()
}
