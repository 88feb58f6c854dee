// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

// Block is the contract the network drives every step: it owns an Output,
// optionally an input port and a context port, and runs its own
// step/pull/compute/store/learn sequence inside Execute.
type Block interface {
	// Label returns the block's construction-time name, for error messages.
	Label() string

	// Init allocates the block's Output and any DendriteMemory, seeing the
	// final wiring of its input/context ports. Called once by the network
	// during Build, after all connections have been made.
	Init() error

	// Execute runs one full step: step, pull, compute (possibly skipped),
	// store, and, if learn is true, learn.
	Execute(learn bool) error

	// Output returns the block's own output port.
	Output() *Output

	// InputPort returns the block's primary input port, or nil if the
	// block accepts no wired input (e.g. an encoder driven by SetValue).
	InputPort() *Input

	// ContextPort returns the block's context input port, or nil if the
	// block has none (only the temporal learners do).
	ContextPort() *Input

	// Clear resets the block's output and any learned state to empty.
	Clear()

	// MemoryUsage returns the approximate number of bytes the block holds.
	MemoryUsage() uint64
}
