package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/odegrid/internal/expr"
	"github.com/specialistvlad/odegrid/internal/model"
	"github.com/specialistvlad/odegrid/internal/testutil"
)

func build(t *testing.T, equations [][2]string, labels ...string) *model.Model {
	t.Helper()
	return testutil.BuildModel(t, equations, labels...)
}

func entryNames(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Variable.QName()
	}
	return out
}

func TestComputeRequiresValidation(t *testing.T) {
	m := model.New("m")
	_, err := m.AddComponent("c")
	require.NoError(t, err)

	_, err = Compute(context.Background(), m)
	assert.ErrorIs(t, err, ErrNotValidated)
}

func TestComputeDiamond(t *testing.T) {
	m := build(t, [][2]string{
		{"k.d", "b + c"},
		{"k.c", "a + 1"},
		{"k.b", "a * 2"},
		{"k.a", "1"},
	}, "k.d")

	first, err := Compute(context.Background(), m)
	require.NoError(t, err)
	entries, ok := first.Component("k")
	require.True(t, ok)
	assert.Equal(t, []string{"k.a", "k.b", "k.c", "k.d"}, entryNames(entries))
	assert.Empty(t, first.Fallback)

	for i := 0; i < 5; i++ {
		again, err := Compute(context.Background(), m)
		require.NoError(t, err)
		assert.Equal(t, entryNames(first.All()), entryNames(again.All()))
	}
}

func TestComputeComponentOrder(t *testing.T) {
	m := build(t, [][2]string{
		{"z.source", "1"},
		{"a.sink", "m.mid * 2"},
		{"m.mid", "z.source + 1"},
	}, "a.sink")

	order, err := Compute(context.Background(), m)
	require.NoError(t, err)
	var sections []string
	for _, c := range order.Components {
		sections = append(sections, c.Component)
	}
	assert.Equal(t, []string{"z", "m", "a"}, sections)
	assert.Equal(t, []string{"z.source", "m.mid", "a.sink"}, entryNames(order.All()))
	assert.Empty(t, order.Entangled)
}

func TestComputeEntangledComponents(t *testing.T) {
	m := build(t, [][2]string{
		{"A.a1", "B.b1 + 1"},
		{"B.b1", "A.a2"},
		{"A.a2", "B.b2"},
		{"B.b2", "1"},
	}, "A.a1")
	require.True(t, m.HasInterdependentComponents())

	order, err := Compute(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, order.Entangled)

	a, ok := order.Component("A")
	require.True(t, ok)
	assert.Empty(t, a)
	b, ok := order.Component("B")
	require.True(t, ok)
	assert.Equal(t, []string{"B.b2"}, entryNames(b))
	assert.Equal(t, []string{"A.a2", "B.b1", "A.a1"}, entryNames(order.Fallback))
	assert.Equal(t, 4, order.Len())
}

func TestComputeNestedUnits(t *testing.T) {
	m := build(t, [][2]string{
		{"c.x", "a * b"},
		{"c.x.a", "2"},
		{"c.x.b", "a + 1"},
		{"c.y", "3"},
		{"c.y.w", "y * 2"},
		{"c.z", "c.y.w + x"},
	}, "c.z")

	order, err := Compute(context.Background(), m)
	require.NoError(t, err)
	entries, ok := order.Component("c")
	require.True(t, ok)
	assert.Equal(t, []string{"c.x.a", "c.x.b", "c.x", "c.y", "c.y.w", "c.z"}, entryNames(entries))

	var depths []int
	for _, e := range entries {
		depths = append(depths, e.Depth)
	}
	assert.Equal(t, []int{1, 1, 0, 0, 1, 0}, depths)
}

func TestComputeStates(t *testing.T) {
	m := model.New("m")
	env, err := m.AddComponent("env")
	require.NoError(t, err)
	tv, err := env.AddVariable("t")
	require.NoError(t, err)
	require.NoError(t, tv.SetRHS(expr.Number(0)))
	require.NoError(t, tv.SetBinding(model.TimeBinding))

	c, err := m.AddComponent("c")
	require.NoError(t, err)
	v, err := c.AddVariable("v")
	require.NoError(t, err)
	k, err := c.AddVariable("k")
	require.NoError(t, err)
	r, err := c.AddVariable("r")
	require.NoError(t, err)
	require.NoError(t, k.SetRHS(expr.MustParse("2 + r")))
	require.NoError(t, r.SetRHS(expr.MustParse("v * 3")))
	require.NoError(t, v.SetRHS(expr.MustParse("-k * v")))
	require.NoError(t, v.Promote(1))
	require.NoError(t, m.Validate(context.Background(), model.ValidateOptions{}))

	order, err := Compute(context.Background(), m)
	require.NoError(t, err)
	entries, ok := order.Component("c")
	require.True(t, ok)
	// r reads v's value, so it needs nothing; dot(v) needs k.
	assert.Equal(t, []string{"c.r", "c.k", "c.v"}, entryNames(entries))
	assert.Equal(t, "dot(v) = -k * v", entries[2].Equation.String())
}

func TestComputeReferenceIntoNestedVariable(t *testing.T) {
	m := build(t, [][2]string{
		{"c.x", "y"},
		{"c.x.n", "1"},
		{"c.y", "c.x.n"},
	}, "c.x")
	require.True(t, m.IsValid())

	order, err := Compute(context.Background(), m)
	require.NoError(t, err)
	entries, ok := order.Component("c")
	require.True(t, ok)
	assert.Equal(t, []string{"c.x.n", "c.y", "c.x"}, entryNames(entries))
	assert.Equal(t, 1, entries[0].Depth)
	assert.Empty(t, order.Fallback)
}

func TestComputeUnusedCycle(t *testing.T) {
	m := build(t, [][2]string{
		{"c.out", "1"},
		{"c.p", "q"},
		{"c.q", "p"},
		{"c.r", "p + 1"},
		{"c.s", "s"},
	}, "c.out")
	require.True(t, m.IsValid())

	order, err := Compute(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, []string{"c.out"}, entryNames(order.All()))
	assert.Equal(t, []string{"c.p", "c.q", "c.r", "c.s"}, entryNames(order.Unordered))
	assert.Equal(t, 1, order.Len())
}
