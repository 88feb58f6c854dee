// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package block implements the lifecycle primitives shared by every block
// in the network: Output (a current SDR plus a ring of history), Input
// (a lazy concatenation of other blocks' outputs), and the Block interface
// the network drives through step/pull/compute/store/learn each tick.
package block

import (
	"github.com/emer/gnomics/bitfield"
	"github.com/emer/gnomics/gnerr"
)

// Output owns a block's current SDR plus a circular history of previous
// SDRs, and the per-step changed flag derived from comparing consecutive
// states. num_t (the ring depth) must be >= 2.
type Output struct {
	numT        int
	state       *bitfield.BitField
	history     []*bitfield.BitField
	changes     []bool
	currIdx     int
	changedFlag bool
	firstStore  bool
}

// NewOutput returns an empty, unsized Output. Setup must be called during
// the owner block's Init before any other method is used.
func NewOutput() *Output {
	return &Output{}
}

// Setup allocates state, history and changes for num_t history slots of
// num_bits each. The first step after Setup is always treated as changed.
func (o *Output) Setup(numT, numBits int) error {
	if numT < 2 {
		return gnerr.Param("num_t", "block.Output.Setup: num_t must be >= 2", 2, numT)
	}
	o.numT = numT
	o.state = bitfield.New(numBits)
	o.history = make([]*bitfield.BitField, numT)
	for i := range o.history {
		o.history[i] = bitfield.New(numBits)
	}
	o.changes = make([]bool, numT)
	o.currIdx = 0
	o.changedFlag = true
	o.firstStore = true
	return nil
}

// NumBits returns the bit width of the output SDR.
func (o *Output) NumBits() int {
	if o.state == nil {
		return 0
	}
	return o.state.N()
}

// State returns the mutable current-step BitField. The owner block writes
// its computed pattern here between Step and Store.
func (o *Output) State() *bitfield.BitField { return o.state }

// Step advances the ring to a fresh current slot and clears it; the new
// current is logically empty until the owner's compute writes into State().
func (o *Output) Step() error {
	if o.state == nil {
		return gnerr.Order("block.Output.Step: called before Setup")
	}
	o.currIdx = (o.currIdx + 1) % o.numT
	o.state.ClearAll()
	return nil
}

func (o *Output) prevIdx() int {
	return ((o.currIdx-1)%o.numT + o.numT) % o.numT
}

// Store commits the current State into history, computing the changed
// flag by comparing against the previous stored state. The first Store
// after Setup always reports changed.
func (o *Output) Store() error {
	if o.state == nil {
		return gnerr.Order("block.Output.Store: called before Setup")
	}
	eq, err := o.state.Equal(o.history[o.prevIdx()])
	if err != nil {
		return err
	}
	changed := !eq || o.firstStore
	o.firstStore = false
	o.changedFlag = changed
	if err := o.history[o.currIdx].CopyFrom(o.state); err != nil {
		return err
	}
	o.changes[o.currIdx] = changed
	return nil
}

// Get returns the BitField t steps back; 0 is current (valid after Store),
// 1 is previous, and so on, wrapping within the ring. t must be < num_t.
func (o *Output) Get(t int) (*bitfield.BitField, error) {
	if t < 0 || t >= o.numT {
		return nil, gnerr.Shape("block.Output.Get: offset out of range", o.numT, t)
	}
	idx := ((o.currIdx-t)%o.numT + o.numT) % o.numT
	return o.history[idx], nil
}

// HasChanged reports the current step's changed flag.
func (o *Output) HasChanged() bool { return o.changedFlag }

// HasChangedAt reports the changed flag t steps back.
func (o *Output) HasChangedAt(t int) (bool, error) {
	if t < 0 || t >= o.numT {
		return false, gnerr.Shape("block.Output.HasChangedAt: offset out of range", o.numT, t)
	}
	idx := ((o.currIdx-t)%o.numT + o.numT) % o.numT
	return o.changes[idx], nil
}

// Clear zeroes all history and changed flags.
func (o *Output) Clear() {
	if o.state == nil {
		return
	}
	o.state.ClearAll()
	for _, h := range o.history {
		h.ClearAll()
	}
	for i := range o.changes {
		o.changes[i] = false
	}
	o.changedFlag = false
}

// MemoryUsage returns the approximate number of bytes held by the ring.
func (o *Output) MemoryUsage() uint64 {
	if o.state == nil {
		return 0
	}
	perField := uint64(o.state.NumWords()) * 4
	return perField * uint64(len(o.history)+1)
}
