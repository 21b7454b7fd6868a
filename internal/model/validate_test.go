// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/odegrid/internal/ctxlog"
)

func TestValidateSelfCycle(t *testing.T) {
	m, _ := timeModel(t)
	c := component(t, m, "c")
	x := add(t, c, "x")
	require.NoError(t, x.Promote(0))
	set(t, x, "dot(x)")

	err := m.Validate(context.Background(), ValidateOptions{})
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"c.x", "c.x"}, cycle.Trail)
	assert.ErrorIs(t, err, ErrCycle)
	assert.Contains(t, err.Error(), "c.x -> c.x")
}

func TestValidateLongCycleTrail(t *testing.T) {
	m, _ := timeModel(t)
	c := component(t, m, "c")
	out := add(t, c, "out")
	a := add(t, c, "a")
	b := add(t, c, "b")
	d := add(t, c, "d")
	set(t, out, "a")
	set(t, a, "b + 1")
	set(t, b, "d")
	set(t, d, "a + env.t")
	require.NoError(t, out.SetLabel("out"))

	err := m.Validate(context.Background(), ValidateOptions{})
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"c.a", "c.b", "c.d", "c.a"}, cycle.Trail)
}

func TestValidateErrors(t *testing.T) {
	t.Run("missing equation", func(t *testing.T) {
		m, _ := timeModel(t)
		c := component(t, m, "c")
		add(t, c, "x")
		err := m.Validate(context.Background(), ValidateOptions{})
		assert.ErrorIs(t, err, ErrMissingRHS)
		assert.Contains(t, err.Error(), "c.x")
		assert.Equal(t, Invalid, m.Validity())
	})

	t.Run("states need time", func(t *testing.T) {
		m := New("m")
		c := component(t, m, "c")
		x := add(t, c, "x")
		set(t, x, "-x")
		require.NoError(t, x.Promote(1))
		assert.ErrorIs(t, m.Validate(context.Background(), ValidateOptions{}), ErrMissingTime)
	})

	t.Run("no states no time", func(t *testing.T) {
		m := New("m")
		c := component(t, m, "c")
		x := add(t, c, "x")
		set(t, x, "1")
		require.NoError(t, x.SetLabel("x"))
		require.NoError(t, m.Validate(context.Background(), ValidateOptions{}))
		assert.Empty(t, m.Warnings())
	})
}

func unusedModel(t *testing.T) *Model {
	t.Helper()
	m, _ := timeModel(t)
	c := component(t, m, "c")
	x := add(t, c, "x")
	k := add(t, c, "k")
	set(t, k, "0.5")
	set(t, x, "-k * x")
	require.NoError(t, x.Promote(1))

	junk := add(t, c, "junk")
	set(t, junk, "k * 2")
	p := add(t, c, "p")
	q := add(t, c, "q")
	set(t, p, "q + 1")
	set(t, q, "p - 1")
	return m
}

func TestValidateUnused(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	m := unusedModel(t)
	require.NoError(t, m.Validate(ctx, ValidateOptions{}))
	assert.True(t, m.IsValid())

	var unused []string
	var cycles [][]string
	for _, w := range m.Warnings() {
		switch w.Kind {
		case WarnUnused:
			unused = append(unused, w.Names...)
		case WarnUnusedCycle:
			cycles = append(cycles, w.Names)
		}
	}
	assert.Equal(t, []string{"c.junk", "c.p", "c.q"}, unused)
	assert.Equal(t, [][]string{{"c.p", "c.q", "c.p"}}, cycles)
	assert.Contains(t, buf.String(), "unused variable c.junk")

	k, err := m.Get("c.k")
	require.NoError(t, err)
	assert.True(t, k.Alive(), "warnings do not remove anything")
}

func TestValidateRemoveUnused(t *testing.T) {
	m := unusedModel(t)
	require.NoError(t, m.Validate(context.Background(), ValidateOptions{RemoveUnused: true}))
	assert.True(t, m.IsValid())

	warnings := m.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnRemovedUnused, warnings[0].Kind)
	assert.Equal(t, []string{"c.junk", "c.p", "c.q"}, warnings[0].Names)

	assert.False(t, m.HasVariable("c.junk"))
	assert.False(t, m.HasVariable("c.p"))
	k, err := m.Get("c.k")
	require.NoError(t, err)
	assert.Len(t, k.Referrers(), 1)
	requireConsistent(t, m)

	require.NoError(t, m.Validate(context.Background(), ValidateOptions{RemoveUnused: true}))
	assert.Empty(t, m.Warnings())
}

func TestValidityResetsOnEdit(t *testing.T) {
	m, tv := timeModel(t)
	require.NoError(t, m.Validate(context.Background(), ValidateOptions{}))
	assert.Equal(t, Valid, m.Validity())

	set(t, tv, "1")
	assert.Equal(t, Unknown, m.Validity())
}

func TestValidateNestedVariables(t *testing.T) {
	m, _ := timeModel(t)
	c := component(t, m, "c")
	x := add(t, c, "x")
	a := add(t, x, "a")
	b := add(t, x, "b")
	set(t, a, "2")
	set(t, b, "3")
	set(t, x, "-a * x")
	require.NoError(t, x.Promote(0))

	require.NoError(t, m.Validate(context.Background(), ValidateOptions{}))
	var unused []string
	for _, w := range m.Warnings() {
		unused = append(unused, w.Names...)
	}
	assert.Equal(t, []string{"c.x.b"}, unused)
}
