package plan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/odegrid/internal/ctxlog"
	"github.com/specialistvlad/odegrid/internal/dag"
	"github.com/specialistvlad/odegrid/internal/model"
)

var (
	// ErrNotValidated is returned for a model that has not passed validation
	// since its last edit.
	ErrNotValidated = errors.New("model has not been validated")
	// ErrUnorderable is returned when equations remain after every pass.
	ErrUnorderable = errors.New("equations cannot be ordered")
)

type planner struct {
	m     *model.Model
	vars  map[string]*model.Variable
	graph *dag.Graph

	// root maps every variable to the top-level variable it is nested in.
	root map[*model.Variable]*model.Variable

	// key orders ready variables: the root's left-hand side, the root's
	// qualified name, then the variable's own qualified name.
	key map[*model.Variable]string

	// selfRef holds variables whose equation reads their own value.
	selfRef map[*model.Variable]bool
}

// Compute orders the equations of a validated model.
func Compute(ctx context.Context, m *model.Model) (*Order, error) {
	logger := ctxlog.FromContext(ctx)
	if !m.IsValid() {
		return nil, fmt.Errorf("%w (state: %s)", ErrNotValidated, m.Validity())
	}
	logger.Debug("Compute: starting.", "model", m.Name())

	p := &planner{
		m:    m,
		vars: make(map[string]*model.Variable),
		root: make(map[*model.Variable]*model.Variable),
		key:  make(map[*model.Variable]string),

		selfRef: make(map[*model.Variable]bool),
	}
	p.index()
	if err := p.buildGraph(); err != nil {
		return nil, err
	}

	solvable, entangled := componentOrder(m)
	logger.Debug("Compute: component order.", "solvable", solvable, "entangled", entangled)

	order := &Order{Entangled: entangled}
	for _, name := range append(solvable, entangled...) {
		section := ComponentEquations{Component: name}
		for {
			placed, err := p.round(func(v *model.Variable) bool { return v.Component().Name() == name })
			if err != nil {
				return nil, err
			}
			if len(placed) == 0 {
				break
			}
			section.Entries = append(section.Entries, placed...)
		}
		order.Components = append(order.Components, section)
	}

	for p.graph.Len() > 0 {
		placed, err := p.round(func(*model.Variable) bool { return true })
		if err != nil {
			return nil, err
		}
		if len(placed) == 0 {
			break
		}
		order.Fallback = append(order.Fallback, placed...)
	}

	if p.graph.Len() > 0 {
		unordered, err := p.leftovers()
		if err != nil {
			return nil, err
		}
		order.Unordered = unordered
	}

	logger.Debug("Compute: finished.", "equations", order.Len(), "fallback", len(order.Fallback), "unordered", len(order.Unordered))
	return order, nil
}

// componentOrder peels off components without remaining dependencies, in name
// order, and returns the ones that could not be peeled off separately.
func componentOrder(m *model.Model) (solvable, entangled []string) {
	g := dag.New()
	deps := m.ComponentDependencies()
	for name := range deps {
		g.AddNode(name)
	}
	for name, ds := range deps {
		for _, d := range ds {
			// Both nodes were added above and d != name.
			_ = g.AddEdge(d, name)
		}
	}
	for {
		ready := g.Ready()
		if len(ready) == 0 {
			break
		}
		for _, name := range ready {
			solvable = append(solvable, name)
			g.Remove(name)
		}
	}
	return solvable, g.Nodes()
}

func (p *planner) index() {
	for _, root := range p.m.Variables(model.Filter{}) {
		lhs := root.Name()
		if eq, ok := root.Equation(); ok {
			lhs = eq.LHS.String()
		}
		prefix := lhs + "\x00" + root.QName() + "\x00"
		members := append([]*model.Variable{root}, root.Variables(model.Filter{Deep: true})...)
		for _, v := range members {
			p.vars[v.QName()] = v
			p.root[v] = root
			p.key[v] = prefix + v.QName()
		}
	}
}

// buildGraph links variables by their plain references.
func (p *planner) buildGraph() error {
	p.graph = dag.New()
	for id := range p.vars {
		p.graph.AddNode(id)
	}
	for id, v := range p.vars {
		for _, d := range v.Dependencies(false) {
			if _, ok := p.root[d]; !ok {
				return fmt.Errorf("%w: %s depends on unknown %s", ErrUnorderable, v.QName(), d.QName())
			}
			if d == v {
				p.selfRef[v] = true
				continue
			}
			if err := p.graph.AddEdge(d.QName(), id); err != nil {
				return err
			}
		}
	}
	return nil
}

// ready returns the variables without pending dependencies that satisfy
// keep, sorted by key.
func (p *planner) ready(keep func(*model.Variable) bool) []*model.Variable {
	var out []*model.Variable
	for _, id := range p.graph.Ready() {
		if v := p.vars[id]; !p.selfRef[v] && keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return p.key[out[i]] < p.key[out[j]] })
	return out
}

// round places every ready variable accepted by keep. After each one, the
// members of its nested subtree that became ready are placed right behind it,
// so a subtree stays together whenever its dependencies allow.
func (p *planner) round(keep func(*model.Variable) bool) ([]Entry, error) {
	var out []Entry
	for _, v := range p.ready(keep) {
		if !p.graph.Has(v.QName()) {
			continue
		}
		e, err := p.place(v)
		if err != nil {
			return nil, err
		}
		out = append(out, e)

		root := p.root[v]
		for {
			next := p.ready(func(x *model.Variable) bool { return p.root[x] == root })
			if len(next) == 0 {
				break
			}
			e, err := p.place(next[0])
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
	}
	return out, nil
}

func (p *planner) place(v *model.Variable) (Entry, error) {
	p.graph.Remove(v.QName())
	eq, ok := v.Equation()
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s has no equation", ErrUnorderable, v.QName())
	}
	return Entry{Variable: v, Equation: eq, Depth: depth(v)}, nil
}

// leftovers returns the equations no pass could place. The validator rejects
// cycles among used variables, so only variables it reported as unused may
// be left; they are returned by qualified name.
func (p *planner) leftovers() ([]Entry, error) {
	unused := make(map[string]bool)
	for _, w := range p.m.Warnings() {
		if w.Kind == model.WarnUnused {
			unused[w.Names[0]] = true
		}
	}
	var stuck []string
	for _, id := range p.graph.Nodes() {
		if !unused[id] {
			stuck = append(stuck, id)
		}
	}
	if len(stuck) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnorderable, strings.Join(stuck, ", "))
	}

	var out []Entry
	for _, id := range p.graph.Nodes() {
		e, err := p.place(p.vars[id])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func depth(v *model.Variable) int {
	d := 0
	for p, ok := v.Parent(); ok; p, ok = p.Parent() {
		d++
	}
	return d
}
