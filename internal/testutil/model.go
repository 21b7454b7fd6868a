package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/odegrid/internal/expr"
	"github.com/specialistvlad/odegrid/internal/model"
)

// BuildModel creates and validates a model from "component.variable" to
// equation pairs. Nested variables use longer names and must follow their
// parent. Variables are created before any equation is set, so equations may
// reference each other in any order. Each name in labels is given an output
// label equal to its local name, which keeps it in use.
func BuildModel(t *testing.T, equations [][2]string, labels ...string) *model.Model {
	t.Helper()
	m := BuildUnvalidated(t, equations, labels...)
	require.NoError(t, m.Validate(context.Background(), model.ValidateOptions{}))
	return m
}

// BuildUnvalidated is BuildModel without the final validation.
func BuildUnvalidated(t *testing.T, equations [][2]string, labels ...string) *model.Model {
	t.Helper()
	m := model.New("test")
	for _, eq := range equations {
		parts := strings.Split(eq[0], ".")
		require.GreaterOrEqual(t, len(parts), 2, "%s needs a component", eq[0])
		c, ok := m.Component(parts[0])
		if !ok {
			var err error
			c, err = m.AddComponent(parts[0])
			require.NoError(t, err)
		}
		var owner model.Owner = c
		for _, name := range parts[1 : len(parts)-1] {
			v, ok := owner.Variable(name)
			require.True(t, ok, "parent of %s must be listed first", eq[0])
			owner = v
		}
		_, err := owner.AddVariable(parts[len(parts)-1])
		require.NoError(t, err)
	}
	for _, eq := range equations {
		v, err := m.Get(eq[0])
		require.NoError(t, err)
		require.NoError(t, v.SetRHS(expr.MustParse(eq[1])), eq[0])
	}
	for _, name := range labels {
		v, err := m.Get(name)
		require.NoError(t, err)
		require.NoError(t, v.SetLabel(v.Name()))
	}
	return m
}

// QNames returns the qualified names of vs in order.
func QNames(vs []*model.Variable) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.QName()
	}
	return out
}
