// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	m := richModel(t)
	code := normalize(m.Code())

	for _, want := range []string{
		`model "test" {`,
		`state_order = ["ina.m", "membrane.V"]`,
		`author = "lab"`,
		`component "ina" {`,
		`alias "Vm" {`,
		`target = membrane.V`,
		`variable "alpha" {`,
		`rhs = 0.1 * (Vm + 40)`,
		`state = 0.05`,
		`state = -84`,
		`label = "membrane_potential"`,
		`unit = "uF/cm^2"`,
		`bind = "time"`,
		`rhs = -i_ion / C`,
		`desc = "membrane potential"`,
	} {
		assert.Contains(t, code, want)
	}

	assert.Less(t, strings.Index(code, `component "env"`), strings.Index(code, `component "ina"`))
	assert.Less(t, strings.Index(code, `component "ina"`), strings.Index(code, `component "membrane"`))
	assert.Equal(t, m.Code(), m.Clone().Code(), "serialization is deterministic")
}

func TestCodeReservations(t *testing.T) {
	m := New("r")
	m.ReserveName("exp")
	m.ReserveName("abs")
	m.ReservePrefix("tmp", "u_")
	code := normalize(m.Code())

	assert.Contains(t, code, `reserved = ["abs", "exp"]`)
	assert.Contains(t, code, `tmp = "u_"`)
	assert.Equal(t, m.Code(), m.Clone().Code())
}
