// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the error taxonomy of the package. Naming, integrity and
// lookup errors come back synchronously from the edit that caused them;
// validation errors only come from Validate.
package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/odegrid/internal/qname"
)

var (
	// ErrInvalidName reports a malformed identifier or reserved keyword.
	ErrInvalidName = qname.ErrInvalidName
	// ErrDuplicateName reports a name that is already visible in the target scope.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrIntegrity is wrapped by every edit refused because it would break a
	// structural rule. The graph is left unchanged.
	ErrIntegrity = errors.New("integrity violation")
	// ErrStillReferenced reports removal or demotion of something still in use.
	ErrStillReferenced = fmt.Errorf("%w: still referenced", ErrIntegrity)
	// ErrNestedState reports an attempt to make a nested variable a state.
	ErrNestedState = fmt.Errorf("%w: nested variables cannot be states", ErrIntegrity)
	// ErrAlreadyState reports promotion of a state.
	ErrAlreadyState = fmt.Errorf("%w: variable is already a state", ErrIntegrity)
	// ErrNotState reports demotion of a non-state, or dot() of a non-state.
	ErrNotState = fmt.Errorf("%w: variable is not a state", ErrIntegrity)
	// ErrBoundState reports combining a binding with a state.
	ErrBoundState = fmt.Errorf("%w: states cannot be bound", ErrIntegrity)
	// ErrRemoved reports use of a handle whose variable has been removed.
	ErrRemoved = fmt.Errorf("%w: variable has been removed", ErrIntegrity)

	// ErrMissingRHS is returned by Validate when a variable has no equation.
	ErrMissingRHS = errors.New("missing equation")
	// ErrMissingTime is returned by Validate when a model with states has no
	// variable bound to "time".
	ErrMissingTime = errors.New("no variable bound to time")
	// ErrCycle is wrapped by *CycleError.
	ErrCycle = errors.New("cyclical reference")

	// ErrUnresolved is wrapped by *UnresolvedReferenceError.
	ErrUnresolved = errors.New("unresolved reference")
)

// UnresolvedReferenceError is returned when a name cannot be found.
type UnresolvedReferenceError struct {
	Name       string
	Scope      string
	Suggestion string
}

func (e *UnresolvedReferenceError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "unknown variable %q", e.Name)
	if e.Scope != "" {
		fmt.Fprintf(&sb, " in %s", e.Scope)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, " (did you mean %q?)", e.Suggestion)
	}
	return sb.String()
}

// Unwrap lets errors.Is match ErrUnresolved.
func (e *UnresolvedReferenceError) Unwrap() error { return ErrUnresolved }

// CycleError reports a cyclical dependency. Trail starts and ends with the
// same variable.
type CycleError struct {
	Trail []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclical reference: %s", strings.Join(e.Trail, " -> "))
}

// Unwrap lets errors.Is match ErrCycle.
func (e *CycleError) Unwrap() error { return ErrCycle }

// InternalError reports a broken structural invariant. It always indicates a
// bug in this package, never a problem with the user's model.
type InternalError struct {
	Detail string
}

func (e *InternalError) Error() string {
	return "internal consistency error: " + e.Detail
}

// WarningKind classifies non-fatal validation findings.
type WarningKind int

const (
	// WarnUnused marks a variable no state, binding or label depends on.
	WarnUnused WarningKind = iota
	// WarnUnusedCycle marks a cycle found among unused variables.
	WarnUnusedCycle
	// WarnRemovedUnused summarizes variables removed by Validate.
	WarnRemovedUnused
)

func (k WarningKind) String() string {
	switch k {
	case WarnUnused:
		return "unused"
	case WarnUnusedCycle:
		return "unused-cycle"
	case WarnRemovedUnused:
		return "removed-unused"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal validation finding.
type Warning struct {
	Kind WarningKind
	// Names lists the variables involved, as qualified names.
	Names   []string
	Message string
}

func (w Warning) String() string {
	return w.Kind.String() + ": " + w.Message
}
