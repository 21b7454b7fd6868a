// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/odegrid/internal/expr"
)

// add creates a variable and fails the test on error.
func add(t *testing.T, o Owner, name string) *Variable {
	t.Helper()
	v, err := o.AddVariable(name)
	require.NoError(t, err)
	return v
}

// set parses src and installs it as v's equation.
func set(t *testing.T, v *Variable, src string) {
	t.Helper()
	require.NoError(t, v.SetRHS(expr.MustParse(src)))
}

func component(t *testing.T, m *Model, name string) *Component {
	t.Helper()
	c, err := m.AddComponent(name)
	require.NoError(t, err)
	return c
}

// requireConsistent checks the structural invariants and that every edge set
// matches what the equations currently resolve to.
func requireConsistent(t *testing.T, m *Model) {
	t.Helper()
	require.NoError(t, m.checkInvariants())
	for _, v := range m.live() {
		targets, err := m.resolveEquation(v, v.rhs)
		require.NoError(t, err, v.QName())
		want := make(edgeSet)
		for _, tg := range targets {
			want[Edge{Peer: tg.v.id, Kind: tg.kind}] = struct{}{}
		}
		require.Equal(t, want, v.out, "forward edges of %s", v.QName())
	}
}

// edgeNames renders v's forward edges as sorted "target/kind" strings.
func edgeNames(v *Variable) []string {
	var out []string
	for e := range v.out {
		out = append(out, v.model.lookup(e.Peer).QName()+"/"+e.Kind.String())
	}
	sort.Strings(out)
	return out
}

// normalize collapses runs of blanks so assertions do not depend on
// attribute alignment.
func normalize(code string) string {
	lines := strings.Split(code, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Join(lines, "\n")
}

// timeModel returns a model with a component "env" holding a variable bound
// to time.
func timeModel(t *testing.T) (*Model, *Variable) {
	t.Helper()
	m := New("test")
	env := component(t, m, "env")
	tv := add(t, env, "t")
	set(t, tv, "0")
	require.NoError(t, tv.SetBinding(TimeBinding))
	return m, tv
}
