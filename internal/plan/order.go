package plan

import (
	"github.com/specialistvlad/odegrid/internal/expr"
	"github.com/specialistvlad/odegrid/internal/model"
)

// Entry is one placed equation.
type Entry struct {
	Variable *model.Variable
	Equation expr.Equation
	// Depth is 0 for a top-level variable and grows by one per nesting level.
	Depth int
}

// ComponentEquations is the ordered output of one component.
type ComponentEquations struct {
	Component string
	Entries   []Entry
}

// Order is the result of Compute.
type Order struct {
	// Components lists every component, solvable ones first, each with the
	// equations that could be placed in its own section.
	Components []ComponentEquations
	// Fallback holds equations that depend on several mutually dependent
	// components, in a valid evaluation order.
	Fallback []Entry
	// Entangled names the components that depend on each other.
	Entangled []string
	// Unordered holds the equations of unused variables caught in a cycle,
	// sorted by qualified name. They are never evaluated and are not part of
	// All or Len.
	Unordered []Entry
}

// Component returns the entries placed in the named component's section.
func (o *Order) Component(name string) ([]Entry, bool) {
	for _, c := range o.Components {
		if c.Component == name {
			return c.Entries, true
		}
	}
	return nil, false
}

// All returns every entry in evaluation order: the component sections in
// order, then the fallback bucket.
func (o *Order) All() []Entry {
	var out []Entry
	for _, c := range o.Components {
		out = append(out, c.Entries...)
	}
	return append(out, o.Fallback...)
}

// Len returns the total number of placed equations.
func (o *Order) Len() int {
	n := len(o.Fallback)
	for _, c := range o.Components {
		n += len(c.Entries)
	}
	return n
}
