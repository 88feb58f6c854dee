// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gnerr defines the structured error taxonomy shared by every
// gnomics package: ShapeError, TopologyError, OrderError, ParamError,
// StateError and RangeError, each carrying enough context (offending
// handle, parameter name, expected/actual values) for a collaborator to
// render a human-readable message without re-deriving it.
package gnerr

import "fmt"

// Kind identifies which of the taxonomy's error categories an Error belongs to.
type Kind int

const (
	// ShapeError: mismatched BitField sizes, uncaptured input size, non-word-aligned source.
	ShapeError Kind = iota
	// TopologyError: a non-self cycle, or a dangling/unsized input at build time.
	TopologyError
	// OrderError: an operation called out of lifecycle order (e.g. store before step, use before init).
	OrderError
	// ParamError: an out-of-domain construction parameter.
	ParamError
	// StateError: a loaded persistent state whose shape disagrees with the live memory.
	StateError
	// RangeError: a numeric input fell outside its declared range (always recoverable by clamping).
	RangeError
)

func (k Kind) String() string {
	switch k {
	case ShapeError:
		return "ShapeError"
	case TopologyError:
		return "TopologyError"
	case OrderError:
		return "OrderError"
	case ParamError:
		return "ParamError"
	case StateError:
		return "StateError"
	case RangeError:
		return "RangeError"
	default:
		return "UnknownError"
	}
}

// Error is the single structured error value produced anywhere in gnomics.
// Handle is left as an int (-1 when not applicable) rather than a typed
// block handle, so that gnerr has no dependency on the block/network
// packages and can be imported from the bottom of the stack.
type Error struct {
	Kind     Kind
	Handle   int
	Param    string
	Expected any
	Actual   any
	Msg      string
}

func (e *Error) Error() string {
	s := fmt.Sprintf("gnomics: %s", e.Kind)
	if e.Handle >= 0 {
		s += fmt.Sprintf(" [handle %d]", e.Handle)
	}
	if e.Param != "" {
		s += fmt.Sprintf(" param=%s", e.Param)
	}
	if e.Expected != nil || e.Actual != nil {
		s += fmt.Sprintf(" expected=%v actual=%v", e.Expected, e.Actual)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

// Shape builds a ShapeError.
func Shape(msg string, expected, actual any) *Error {
	return &Error{Kind: ShapeError, Handle: -1, Expected: expected, Actual: actual, Msg: msg}
}

// Topology builds a TopologyError.
func Topology(msg string) *Error {
	return &Error{Kind: TopologyError, Handle: -1, Msg: msg}
}

// Order builds an OrderError.
func Order(msg string) *Error {
	return &Error{Kind: OrderError, Handle: -1, Msg: msg}
}

// Param builds a ParamError for the named parameter.
func Param(name, msg string, expected, actual any) *Error {
	return &Error{Kind: ParamError, Handle: -1, Param: name, Expected: expected, Actual: actual, Msg: msg}
}

// State builds a StateError.
func State(msg string, expected, actual any) *Error {
	return &Error{Kind: StateError, Handle: -1, Expected: expected, Actual: actual, Msg: msg}
}

// Range builds a RangeError (always informational; callers clamp and continue).
func Range(name string, expected, actual any) *Error {
	return &Error{Kind: RangeError, Handle: -1, Param: name, Expected: expected, Actual: actual}
}

// WithHandle returns a copy of e tagged with the offending block handle.
func (e *Error) WithHandle(h int) *Error {
	c := *e
	c.Handle = h
	return &c
}
