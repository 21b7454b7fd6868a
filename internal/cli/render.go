package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/odegrid/internal/app"
	"github.com/specialistvlad/odegrid/internal/model"
	"github.com/specialistvlad/odegrid/internal/naming"
	"github.com/specialistvlad/odegrid/internal/plan"
)

func writeCheck(w io.Writer, m *model.Model) error {
	for _, warn := range m.Warnings() {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warn.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s: ok (%d components, %d variables, %d states, %d warnings)\n",
		m.Name(), len(m.Components()), m.Count(model.Filter{Deep: true}), len(m.States()), len(m.Warnings()))
	return err
}

func writeOrder(w io.Writer, res *app.Result) error {
	var sb strings.Builder
	section := func(title string, entries []plan.Entry) {
		if len(entries) == 0 {
			return
		}
		fmt.Fprintf(&sb, "# %s\n", title)
		for _, e := range entries {
			lhs, rhs := e.Equation.LHS.String(), e.Equation.RHS.String()
			if res.Names != nil {
				lhs, rhs = renamed(e, res.Names)
			}
			fmt.Fprintf(&sb, "%s%s = %s\n", strings.Repeat("  ", e.Depth), lhs, rhs)
		}
	}
	for _, c := range res.Order.Components {
		section(c.Component, c.Entries)
	}
	if len(res.Order.Fallback) > 0 {
		section("interdependent: "+strings.Join(res.Order.Entangled, ", "), res.Order.Fallback)
	}
	// Unused and cyclical; kept so no equation goes missing from the output.
	section("unordered (unused)", res.Order.Unordered)
	_, err := io.WriteString(w, sb.String())
	return err
}

// renamed writes both sides of an equation with unique output names.
// References are resolved from the variable's own scope, exactly as the
// equation was.
func renamed(e plan.Entry, names *naming.Table) (string, string) {
	lhs := e.Equation.LHS
	if name, ok := names.Variable(e.Variable); ok {
		lhs.Name = name
	}
	subst := make(map[string]string)
	for _, ref := range e.Equation.RHS.References() {
		target, err := e.Variable.Resolve(ref.Name)
		if err != nil {
			continue
		}
		if name, ok := names.Variable(target); ok {
			subst[ref.Name] = name
		}
	}
	rhs, err := e.Equation.RHS.Substitute(subst)
	if err != nil {
		return lhs.String(), e.Equation.RHS.String()
	}
	return lhs.String(), rhs.String()
}

func writeNames(w io.Writer, res *app.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range res.Model.Components() {
		name, _ := res.Names.Component(c.Name())
		fmt.Fprintf(tw, "%s\t%s\n", c.Name(), name)
	}
	for _, v := range res.Model.Variables(model.Filter{Deep: true}) {
		name, _ := res.Names.Variable(v)
		fmt.Fprintf(tw, "%s\t%s\n", v.QName(), name)
	}
	return tw.Flush()
}

func writeDeps(w io.Writer, deps map[*model.Variable][]*model.Variable) error {
	for _, v := range sortedByQName(deps) {
		if err := writeDepLine(w, v.QName(), qnames(deps[v])); err != nil {
			return err
		}
	}
	return nil
}

func writeComponentDeps(w io.Writer, m *model.Model) error {
	deps := m.ComponentDependencies()
	for _, c := range m.Components() {
		if err := writeDepLine(w, c.Name(), deps[c.Name()]); err != nil {
			return err
		}
	}
	for _, group := range m.ComponentCycles() {
		if _, err := fmt.Fprintf(w, "cycle: %s\n", strings.Join(group, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func writeDepLine(w io.Writer, name string, deps []string) error {
	if len(deps) == 0 {
		_, err := fmt.Fprintf(w, "%s:\n", name)
		return err
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", name, strings.Join(deps, ", "))
	return err
}
