// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/odegrid/internal/qname"
)

// Validity is the result of the last validation.
type Validity int8

const (
	// Unknown means the model was edited since it was last validated.
	Unknown Validity = iota
	Valid
	Invalid
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Model is the root of the hierarchy. It is not safe for concurrent mutation;
// read-only passes over an unmodified model may run concurrently.
type Model struct {
	name string
	meta map[string]string

	slots []slot
	free  []uint32

	components map[string]*Component

	states      []VarID
	stateValues []float64

	bindings map[string]VarID
	labels   map[string]VarID

	reserved map[string]bool
	prefixes map[string]string

	validity Validity
	warnings []Warning
}

// New creates an empty model.
func New(name string) *Model {
	return &Model{
		name:       name,
		meta:       make(map[string]string),
		components: make(map[string]*Component),
		bindings:   make(map[string]VarID),
		labels:     make(map[string]VarID),
		reserved:   make(map[string]bool),
		prefixes:   make(map[string]string),
	}
}

// Name returns the model's display name. It is free text.
func (m *Model) Name() string { return m.name }

// SetName changes the display name.
func (m *Model) SetName(name string) { m.name = name }

// Meta returns a meta value.
func (m *Model) Meta(key string) (string, bool) {
	v, ok := m.meta[key]
	return v, ok
}

// SetMeta stores a meta value; an empty value deletes the key.
func (m *Model) SetMeta(key, value string) {
	if value == "" {
		delete(m.meta, key)
		return
	}
	m.meta[key] = value
}

// MetaKeys returns the sorted meta keys.
func (m *Model) MetaKeys() []string {
	return sortedKeys(m.meta)
}

// Validity reports the outcome of the last validation.
func (m *Model) Validity() Validity { return m.validity }

// IsValid reports whether the model passed validation since its last edit.
func (m *Model) IsValid() bool { return m.validity == Valid }

// Warnings returns the warnings produced by the last validation.
func (m *Model) Warnings() []Warning {
	out := make([]Warning, len(m.warnings))
	copy(out, m.warnings)
	return out
}

// invalidate is called by every structural edit.
func (m *Model) invalidate() {
	m.validity = Unknown
	m.warnings = nil
}

// AddComponent adds an empty component.
func (m *Model) AddComponent(name string) (*Component, error) {
	if err := m.checkComponentName(name); err != nil {
		return nil, err
	}
	c := &Component{
		model:   m,
		name:    name,
		vars:    make(map[string]VarID),
		aliases: make(map[string]VarID),
		meta:    make(map[string]string),
	}
	m.components[name] = c
	m.invalidate()
	return c, nil
}

// AddComponentAllowRenaming adds a component, appending _1, _2, ... to the
// name until it no longer collides.
func (m *Model) AddComponentAllowRenaming(name string) (*Component, error) {
	final, err := allowRenaming(name, m.checkComponentName)
	if err != nil {
		return nil, err
	}
	return m.AddComponent(final)
}

func (m *Model) checkComponentName(name string) error {
	if err := qname.CheckName(name); err != nil {
		return err
	}
	if _, ok := m.components[name]; ok {
		return fmt.Errorf("%w: component %q already exists", ErrDuplicateName, name)
	}
	return nil
}

// allowRenaming returns the first of name, name_1, name_2, ... that check
// accepts. Errors other than ErrDuplicateName are returned as-is.
func allowRenaming(name string, check func(string) error) (string, error) {
	candidate := name
	for i := 1; ; i++ {
		err := check(candidate)
		if err == nil {
			return candidate, nil
		}
		if !isDuplicate(err) {
			return "", err
		}
		candidate = fmt.Sprintf("%s_%d", name, i)
	}
}

// Component returns the named component.
func (m *Model) Component(name string) (*Component, bool) {
	c, ok := m.components[name]
	return c, ok
}

// HasComponent reports whether a component exists.
func (m *Model) HasComponent(name string) bool {
	_, ok := m.components[name]
	return ok
}

// Components returns all components sorted by name.
func (m *Model) Components() []*Component {
	out := make([]*Component, 0, len(m.components))
	for _, c := range m.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// RemoveComponent removes a component and everything it owns. It fails if any
// variable of the component is referenced from outside it, directly or
// through an alias.
func (m *Model) RemoveComponent(name string) error {
	c, ok := m.components[name]
	if !ok {
		return m.unresolvedComponent(name)
	}
	subtree := c.subtree()
	inside := make(map[VarID]bool, len(subtree))
	for _, v := range subtree {
		inside[v.id] = true
	}
	var users []string
	for _, v := range subtree {
		for _, r := range m.referrers(v) {
			if !inside[r.id] {
				users = append(users, r.QName())
			}
		}
	}
	for _, other := range m.Components() {
		if other == c {
			continue
		}
		for alias, id := range other.aliases {
			if inside[id] {
				users = append(users, other.name+"."+alias)
			}
		}
	}
	if len(users) > 0 {
		sort.Strings(users)
		return fmt.Errorf("%w: component %q is used by %s", ErrStillReferenced, name, strings.Join(uniqueStrings(users), ", "))
	}
	m.deleteVariables(subtree)
	delete(m.components, name)
	m.invalidate()
	return nil
}

// Get looks up a variable by its fully qualified name, e.g. "membrane.V" or
// "ina.m.alpha".
func (m *Model) Get(name string) (*Variable, error) {
	n, err := qname.Parse(name)
	if err != nil {
		return nil, err
	}
	if v := m.getQualified(n); v != nil {
		return v, nil
	}
	return nil, m.unresolved(name, "")
}

// HasVariable reports whether a fully qualified name exists.
func (m *Model) HasVariable(name string) bool {
	_, err := m.Get(name)
	return err == nil
}

// getQualified walks component, then variable, then nested variables.
func (m *Model) getQualified(n qname.Name) *Variable {
	if n.Len() < 2 {
		return nil
	}
	c, ok := m.components[n.First()]
	if !ok {
		return nil
	}
	v := m.lookup(c.vars[n.Segments[1]])
	for _, seg := range n.Segments[2:] {
		if v == nil {
			return nil
		}
		v = m.lookup(v.children[seg])
	}
	return v
}

func (m *Model) unresolvedComponent(name string) error {
	names := make([]string, 0, len(m.components))
	for _, c := range m.Components() {
		names = append(names, c.name)
	}
	return &UnresolvedReferenceError{Name: name, Scope: "model", Suggestion: closest(name, names)}
}

func sortedKeys[V any](in map[string]V) []string {
	out := make([]string, 0, len(in))
	for k := range in {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func uniqueStrings(in []string) []string {
	if len(in) < 2 {
		return in
	}
	out := in[:1]
	for _, s := range in[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
