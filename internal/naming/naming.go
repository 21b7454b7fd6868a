package naming

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/odegrid/internal/ctxlog"
	"github.com/specialistvlad/odegrid/internal/model"
)

// DefaultSeparator joins the segments of a qualified name.
const DefaultSeparator = "_"

// ErrNotValidated is returned for a model that has not passed validation.
var ErrNotValidated = errors.New("model has not been validated")

// Options configures Assign.
type Options struct {
	// Reserved names may never be assigned, e.g. keywords of the target
	// language. They add to the model's own reservations.
	Reserved []string
	// Prefixes maps a reserved prefix to a string prepended to every name
	// that starts with it. With {"_": "u"} the name "_x" becomes "u_x".
	// Entries override the model's rule for the same prefix; an empty
	// replacement removes it.
	Prefixes map[string]string
	// Separator flattens qualified names. Defaults to DefaultSeparator.
	Separator string
}

// Table holds the assigned names.
type Table struct {
	components map[string]string
	variables  map[string]string
}

// Component returns the name assigned to a component.
func (t *Table) Component(name string) (string, bool) {
	s, ok := t.components[name]
	return s, ok
}

// Variable returns the name assigned to a variable.
func (t *Table) Variable(v *model.Variable) (string, bool) {
	s, ok := t.variables[v.QName()]
	return s, ok
}

// Variables returns a copy of the variable table keyed by qualified name.
func (t *Table) Variables() map[string]string {
	out := make(map[string]string, len(t.variables))
	for k, v := range t.variables {
		out[k] = v
	}
	return out
}

// Components returns a copy of the component table.
func (t *Table) Components() map[string]string {
	out := make(map[string]string, len(t.components))
	for k, v := range t.components {
		out[k] = v
	}
	return out
}

// Equal reports whether two tables assign identical names.
func (t *Table) Equal(other *Table) bool {
	return mapsEqual(t.components, other.components) && mapsEqual(t.variables, other.variables)
}

type resolver struct {
	opts     Options
	order    []string
	reserved map[string]bool
	// count is how many entities start out with each candidate.
	count    map[string]int
	assigned map[string]bool
}

// Assign computes unique names for everything in m. It reads the model only,
// and its result depends on nothing but the model's names and opts, so two
// calls without an edit in between return equal tables.
//
// Components and variables share one namespace. Every entity starts with its
// own name, with reserved prefixes handled. A candidate is disputed if it is
// reserved or shared by several entities. A disputed component gets the
// lowest free suffix _1, _2, ...; a disputed variable first tries its
// flattened qualified name and only then a suffix.
func Assign(ctx context.Context, m *model.Model, opts Options) (*Table, error) {
	logger := ctxlog.FromContext(ctx)
	if !m.IsValid() {
		return nil, fmt.Errorf("%w (state: %s)", ErrNotValidated, m.Validity())
	}
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	prefixes := m.ReservedPrefixes()
	for p, repl := range opts.Prefixes {
		if repl == "" {
			delete(prefixes, p)
			continue
		}
		prefixes[p] = repl
	}
	opts.Prefixes = prefixes
	r := &resolver{
		opts:     opts,
		reserved: make(map[string]bool),
		count:    make(map[string]int),
		assigned: make(map[string]bool),
	}
	for p := range prefixes {
		if p != "" {
			r.order = append(r.order, p)
		}
	}
	sort.Slice(r.order, func(i, j int) bool {
		if len(r.order[i]) != len(r.order[j]) {
			return len(r.order[i]) > len(r.order[j])
		}
		return r.order[i] < r.order[j]
	})
	for _, w := range m.ReservedNames() {
		r.reserved[w] = true
	}
	for _, w := range opts.Reserved {
		r.reserved[w] = true
	}

	comps := m.Components()
	vars := m.Variables(model.Filter{Deep: true})
	for _, c := range comps {
		r.count[r.candidate(c.Name())]++
	}
	for _, v := range vars {
		r.count[r.candidate(v.Name())]++
	}
	for cand, n := range r.count {
		if n == 1 && !r.reserved[cand] {
			r.assigned[cand] = true
		}
	}

	t := &Table{
		components: make(map[string]string, len(comps)),
		variables:  make(map[string]string, len(vars)),
	}
	disputed := 0
	for _, c := range comps {
		cand := r.candidate(c.Name())
		if !r.disputed(cand) {
			t.components[c.Name()] = cand
			continue
		}
		disputed++
		t.components[c.Name()] = r.suffixed(cand)
	}
	for _, v := range vars {
		cand := r.candidate(v.Name())
		if !r.disputed(cand) {
			t.variables[v.QName()] = cand
			continue
		}
		disputed++
		flat := r.candidate(strings.ReplaceAll(v.QName(), ".", opts.Separator))
		if r.free(flat) {
			r.assigned[flat] = true
			t.variables[v.QName()] = flat
			continue
		}
		t.variables[v.QName()] = r.suffixed(flat)
	}

	logger.Debug("Assign: names resolved.", "components", len(comps), "variables", len(vars), "disputed", disputed)
	return t, nil
}

// candidate applies the reserved prefixes to a name. Prefixes are tried
// longest first so the result does not depend on map order.
func (r *resolver) candidate(name string) string {
	for _, p := range r.order {
		if strings.HasPrefix(name, p) {
			return r.opts.Prefixes[p] + name
		}
	}
	return name
}

func (r *resolver) disputed(cand string) bool {
	return r.reserved[cand] || r.count[cand] > 1
}

// free reports whether name is neither reserved, nor anybody's starting
// candidate, nor already handed out.
func (r *resolver) free(name string) bool {
	return !r.reserved[name] && r.count[name] == 0 && !r.assigned[name]
}

// suffixed returns base_N for the lowest free N and claims it.
func (r *resolver) suffixed(base string) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%d", base, i)
		if r.free(name) {
			r.assigned[name] = true
			return name
		}
	}
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}
