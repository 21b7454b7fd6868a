// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/odegrid/internal/ctxlog"
)

// ValidateOptions tunes Validate.
type ValidateOptions struct {
	// RemoveUnused deletes unused variables instead of warning about them.
	RemoveUnused bool
}

// Validate checks the whole model and, on success, marks it valid. Checks run
// in this order and the first failure is returned:
//
//  1. structural invariants (*InternalError),
//  2. every variable has an equation (ErrMissingRHS),
//  3. a model with states has a variable bound to time (ErrMissingTime),
//  4. no cycles reachable from states, bound or labeled variables (*CycleError).
//
// Variables none of those roots depend on are reported as warnings, or
// removed when opts.RemoveUnused is set.
func (m *Model) Validate(ctx context.Context, opts ValidateOptions) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Validate: starting.", "model", m.name, "variables", len(m.slots)-len(m.free))

	err := m.validate(opts)
	if err != nil {
		m.validity = Invalid
		logger.Debug("Validate: model is invalid.", "error", err)
		return err
	}
	m.validity = Valid
	for _, w := range m.warnings {
		logger.Warn("Validate: "+w.Message, "kind", w.Kind.String())
	}
	logger.Debug("Validate: model is valid.", "warnings", len(m.warnings))
	return nil
}

func (m *Model) validate(opts ValidateOptions) error {
	m.warnings = nil
	if err := m.checkInvariants(); err != nil {
		return err
	}

	all := m.Variables(Filter{Deep: true})
	for _, v := range all {
		if v.rhs == nil {
			return fmt.Errorf("%w: %s", ErrMissingRHS, v.QName())
		}
	}
	if len(m.states) > 0 {
		if _, ok := m.Time(); !ok {
			return ErrMissingTime
		}
	}

	used := make(map[VarID]bool)
	for _, root := range m.validationRoots() {
		if cycle := m.walkPlain(root, used); cycle != nil {
			return cycle
		}
	}

	var unused []*Variable
	for _, v := range all {
		if !used[v.id] {
			unused = append(unused, v)
		}
	}
	if len(unused) == 0 {
		return nil
	}

	names := make([]string, len(unused))
	for i, v := range unused {
		names[i] = v.QName()
	}
	if opts.RemoveUnused {
		m.deleteVariables(unused)
		m.warnings = append(m.warnings, Warning{
			Kind:    WarnRemovedUnused,
			Names:   names,
			Message: fmt.Sprintf("removed %d unused variable(s): %s", len(names), strings.Join(names, ", ")),
		})
		return m.checkInvariants()
	}

	for _, v := range unused {
		m.warnings = append(m.warnings, Warning{
			Kind:    WarnUnused,
			Names:   []string{v.QName()},
			Message: "unused variable " + v.QName(),
		})
	}
	m.warnings = append(m.warnings, m.unusedCycles(unused, used)...)
	return nil
}

// validationRoots returns states in state order, then bound variables, then
// labeled variables, each without repeats.
func (m *Model) validationRoots() []*Variable {
	seen := make(map[VarID]bool)
	var out []*Variable
	add := func(id VarID) {
		if v := m.lookup(id); v != nil && !seen[id] {
			seen[id] = true
			out = append(out, v)
		}
	}
	for _, id := range m.states {
		add(id)
	}
	for _, label := range m.Bindings() {
		add(m.bindings[label])
	}
	for _, label := range m.Labels() {
		add(m.labels[label])
	}
	return out
}

type frame struct {
	v    *Variable
	deps []*Variable
	next int
}

// walkPlain runs an iterative depth-first search from root along plain
// edges, marking every finished variable in done. The current path is kept
// as an explicit stack, so a cycle is reported with the full trail from its
// first repeated variable back to itself.
func (m *Model) walkPlain(root *Variable, done map[VarID]bool) *CycleError {
	if done[root.id] {
		return nil
	}
	onTrail := map[VarID]int{root.id: 0}
	stack := []frame{{v: root, deps: m.dependencies(root, RefPlain)}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.deps) {
			done[top.v.id] = true
			delete(onTrail, top.v.id)
			stack = stack[:len(stack)-1]
			continue
		}
		d := top.deps[top.next]
		top.next++
		if i, ok := onTrail[d.id]; ok {
			trail := make([]string, 0, len(stack)-i+1)
			for _, f := range stack[i:] {
				trail = append(trail, f.v.QName())
			}
			return &CycleError{Trail: append(trail, d.QName())}
		}
		if done[d.id] {
			continue
		}
		onTrail[d.id] = len(stack)
		stack = append(stack, frame{v: d, deps: m.dependencies(d, RefPlain)})
	}
	return nil
}

// unusedCycles looks for cycles among variables nothing uses. They are only
// worth a warning: the variables are never evaluated.
func (m *Model) unusedCycles(unused []*Variable, used map[VarID]bool) []Warning {
	done := make(map[VarID]bool, len(used))
	for id := range used {
		done[id] = true
	}
	reported := make(map[string]bool)
	var out []Warning
	for _, v := range unused {
		for !done[v.id] {
			cycle := m.walkPlain(v, done)
			if cycle == nil {
				break
			}
			members := append([]string(nil), cycle.Trail[:len(cycle.Trail)-1]...)
			for _, name := range members {
				if x, err := m.Get(name); err == nil {
					done[x.id] = true
				}
			}
			sort.Strings(members)
			key := strings.Join(members, ",")
			if reported[key] {
				continue
			}
			reported[key] = true
			out = append(out, Warning{
				Kind:    WarnUnusedCycle,
				Names:   cycle.Trail,
				Message: "cyclical reference among unused variables: " + strings.Join(cycle.Trail, " -> "),
			})
		}
	}
	return out
}
