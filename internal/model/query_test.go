// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(vs []*Variable) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.QName()
	}
	return out
}

func TestInterdependentComponents(t *testing.T) {
	m := New("m")
	a := component(t, m, "A")
	b := component(t, m, "B")
	solo := component(t, m, "C")
	x := add(t, a, "x")
	z := add(t, a, "z")
	y := add(t, b, "y")
	w := add(t, solo, "w")
	set(t, z, "1")
	set(t, y, "A.z * 2")
	set(t, x, "B.y + 1")
	set(t, w, "A.x")

	want := map[string][]string{
		"A": {"B"},
		"B": {"A"},
		"C": {"A"},
	}
	if diff := cmp.Diff(want, m.ComponentDependencies()); diff != "" {
		t.Errorf("ComponentDependencies() mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, m.HasInterdependentComponents())
	assert.Equal(t, [][]string{{"A", "B"}}, m.ComponentCycles())

	set(t, y, "2")
	assert.False(t, m.HasInterdependentComponents())
	assert.Empty(t, m.ComponentDependencies()["B"])
}

func TestStateReadsDoNotCreateComponentDependencies(t *testing.T) {
	m := New("m")
	a := component(t, m, "A")
	b := component(t, m, "B")
	x := add(t, a, "x")
	y := add(t, b, "y")
	set(t, x, "B.y")
	require.NoError(t, y.Promote(0))
	set(t, y, "A.x")

	assert.Empty(t, m.ComponentDependencies()["A"])
	assert.Equal(t, []string{"A"}, m.ComponentDependencies()["B"])
	assert.False(t, m.HasInterdependentComponents())
}

func TestDependencyMaps(t *testing.T) {
	m := New("m")
	c := component(t, m, "c")
	k := add(t, c, "k")
	s := add(t, c, "s")
	a := add(t, c, "a")
	b := add(t, c, "b")
	set(t, k, "2")
	set(t, s, "-s")
	require.NoError(t, s.Promote(1))
	set(t, a, "k * s")
	set(t, b, "a + 1")

	shallow := m.MapShallowDependencies(DepOptions{})
	assert.Equal(t, []string{"c.k", "c.s"}, names(shallow[a]))
	assert.Equal(t, []string{"c.a"}, names(shallow[b]))
	assert.Equal(t, []string{"c.s"}, names(shallow[s]))

	noStates := m.MapShallowDependencies(DepOptions{OmitStates: true})
	assert.Equal(t, []string{"c.k"}, names(noStates[a]))

	noConsts := m.MapShallowDependencies(DepOptions{OmitConstants: true})
	_, hasK := noConsts[k]
	assert.False(t, hasK)
	assert.Equal(t, []string{"c.s"}, names(noConsts[a]))

	deep := m.MapDeepDependencies(DepOptions{})
	assert.Equal(t, []string{"c.a", "c.k", "c.s"}, names(deep[b]))
	assert.Equal(t, []string{"c.s"}, names(deep[s]))
}

func TestFilters(t *testing.T) {
	m, _ := timeModel(t)
	c := component(t, m, "c")
	k := add(t, c, "k")
	x := add(t, c, "x")
	i := add(t, c, "i")
	n := add(t, i, "n")
	set(t, k, "1")
	set(t, n, "2")
	set(t, i, "n * x")
	set(t, x, "-i")
	require.NoError(t, x.Promote(0))

	testCases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all shallow", filter: Filter{}, want: []string{"c.i", "c.k", "c.x", "env.t"}},
		{name: "all deep", filter: Filter{Deep: true}, want: []string{"c.i", "c.i.n", "c.k", "c.x", "env.t"}},
		{name: "constants", filter: Filter{Constant: Yes, Deep: true}, want: []string{"c.i.n", "c.k"}},
		{name: "states", filter: Filter{State: Yes}, want: []string{"c.x"}},
		{name: "bound", filter: Filter{Bound: Yes}, want: []string{"env.t"}},
		{name: "intermediary", filter: Filter{Intermediary: Yes, Deep: true}, want: []string{"c.i"}},
		{name: "non-constant non-state", filter: Filter{Constant: No, State: No, Bound: No}, want: []string{"c.i"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, names(m.Variables(tc.filter)))
		})
	}

	assert.Equal(t, 2, m.Count(Filter{Constant: Yes, Deep: true}))
	assert.Len(t, i.Variables(Filter{}), 1)
	eqs := c.Equations(Filter{State: Yes})
	require.Len(t, eqs, 1)
	assert.Equal(t, "dot(x) = -i", eqs[0].String())
}
