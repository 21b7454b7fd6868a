// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRename(t *testing.T) {
	m := New("m")
	c := component(t, m, "c")
	other := component(t, m, "other")
	a := add(t, c, "a")
	b := add(t, c, "b")
	o := add(t, other, "o")
	set(t, a, "1")
	set(t, b, "a + 1")
	set(t, o, "c.a * 2")

	require.NoError(t, a.Rename("alpha"))
	assert.Equal(t, "c.alpha", a.QName())
	assert.Equal(t, "alpha + 1", b.RHS().String())
	assert.Equal(t, "c.alpha * 2", o.RHS().String())
	requireConsistent(t, m)

	assert.ErrorIs(t, a.Rename("b"), ErrDuplicateName)
	assert.ErrorIs(t, a.Rename("for"), ErrInvalidName)
	require.NoError(t, a.Rename("alpha"), "renaming to the current name is a no-op")
}

func TestMoveBetweenComponents(t *testing.T) {
	m := New("m")
	c1 := component(t, m, "c1")
	c2 := component(t, m, "c2")
	a := add(t, c1, "a")
	k := add(t, c1, "k")
	b := add(t, c1, "b")
	set(t, k, "3")
	set(t, a, "k + 1")
	set(t, b, "a * 2")

	require.NoError(t, a.Move(c2, "a"))
	assert.Equal(t, "c2.a", a.QName())
	assert.Same(t, c2, a.Component())
	assert.Equal(t, "c2.a * 2", b.RHS().String(), "referrers follow the variable")
	assert.Equal(t, "c1.k + 1", a.RHS().String(), "the moved equation still reads the same variables")
	assert.Equal(t, []string{"c1.k/plain"}, edgeNames(a))
	requireConsistent(t, m)
}

func TestMoveIntoNestedScope(t *testing.T) {
	m := New("m")
	c := component(t, m, "c")
	p := add(t, c, "p")
	a := add(t, c, "a")
	b := add(t, c, "b")
	set(t, a, "1")
	set(t, b, "a")
	set(t, p, "a + b")

	require.NoError(t, a.Move(p, "a"))
	assert.Equal(t, "c.p.a", a.QName())
	assert.True(t, a.IsNested())
	assert.Equal(t, "a + b", p.RHS().String(), "a is now a nested variable of p")
	assert.Equal(t, "c.p.a", b.RHS().String())
	requireConsistent(t, m)
}

func TestMoveErrors(t *testing.T) {
	m, tv := timeModel(t)
	c := component(t, m, "c")
	p := add(t, c, "p")
	q := add(t, p, "q")
	s := add(t, c, "s")
	require.NoError(t, s.Promote(0))
	other := component(t, m, "other")
	aliased := add(t, other, "v")
	require.NoError(t, c.AddAlias("ov", aliased))
	before := m.Code()

	assert.ErrorIs(t, s.Move(p, "s"), ErrNestedState)
	assert.ErrorIs(t, p.Move(q, "p2"), ErrIntegrity)
	assert.ErrorIs(t, tv.Move(p, "t"), ErrIntegrity)
	assert.ErrorIs(t, aliased.Move(p, "v"), ErrStillReferenced)
	assert.ErrorIs(t, aliased.Move(c, "v"), ErrStillReferenced, "c would alias its own variable")
	assert.ErrorIs(t, s.Move(other, "v"), ErrDuplicateName)
	assert.Equal(t, before, m.Code())
	requireConsistent(t, m)

	require.NoError(t, s.Move(other, "s"))
	assert.Equal(t, "other.s", m.States()[0].QName())
}

func TestMoveIntoAliasingComponent(t *testing.T) {
	m := New("m")
	c := component(t, m, "c")
	other := component(t, m, "other")
	v := add(t, other, "V")
	i := add(t, c, "i")
	set(t, v, "1")
	set(t, i, "Vm * 2")
	require.NoError(t, c.AddAlias("Vm", v))
	before := m.Code()

	err := v.Move(c, "V")
	require.ErrorIs(t, err, ErrStillReferenced)
	assert.Contains(t, err.Error(), "c.Vm")
	assert.Equal(t, "other.V", v.QName())
	assert.Equal(t, before, m.Code())
	requireConsistent(t, m)

	set(t, i, "other.V * 2")
	require.NoError(t, c.RemoveAlias("Vm"))
	require.NoError(t, v.Move(c, "V"))
	assert.Equal(t, "V * 2", i.RHS().String())
	requireConsistent(t, m)
}
