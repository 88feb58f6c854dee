// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import (
	"github.com/emer/gnomics/bitfield"
	"github.com/emer/gnomics/gnerr"
)

// child records one source wired into an Input, and its fixed position in
// the concatenated word space.
type child struct {
	source     *Output
	timeOffset int
	wordOffset int
	bitSize    int
}

// Input concatenates one or more Outputs into a single logical SDR,
// lazily copying only the children whose state changed at the recorded
// time offset since the previous Pull.
type Input struct {
	children []child
	state    *bitfield.BitField
	dirty    bool
}

// NewInput returns an empty Input with zero size; AddChild grows it.
func NewInput() *Input {
	return &Input{state: bitfield.New(0), dirty: true}
}

// AddChild appends a new source at the given time offset. The source's
// bit-size must already be a nonzero multiple of 32 so the copy stays
// word-aligned. Children may only be added before the owner's Init.
func (in *Input) AddChild(source *Output, timeOffset int) error {
	bitSize := source.NumBits()
	if bitSize == 0 || bitSize%32 != 0 {
		return gnerr.Shape("block.Input.AddChild: source bit-size must be a nonzero multiple of 32", "multiple of 32", bitSize)
	}
	wordOffset := in.state.NumWords()
	in.children = append(in.children, child{source: source, timeOffset: timeOffset, wordOffset: wordOffset, bitSize: bitSize})
	in.state.Resize(in.state.N() + bitSize)
	in.dirty = true
	return nil
}

// Size returns the concatenated bit width, or 0 if no children are wired.
func (in *Input) Size() int { return in.state.N() }

// NumChildren returns the number of wired sources.
func (in *Input) NumChildren() int { return len(in.children) }

// State returns the concatenated SDR, valid after Pull.
func (in *Input) State() *bitfield.BitField { return in.state }

// Pull copies each changed child's slice into state, in word-aligned
// position; unchanged children are skipped, relying on the invariant that
// their slice of state already holds the value written by the previous
// Pull. The very first Pull after Init always copies every child, since
// state starts uninitialized.
func (in *Input) Pull() error {
	for _, c := range in.children {
		changed, err := c.source.HasChangedAt(c.timeOffset)
		if err != nil {
			return err
		}
		if !changed && !in.dirty {
			continue
		}
		src, err := c.source.Get(c.timeOffset)
		if err != nil {
			return err
		}
		nWords := c.bitSize / 32
		if err := bitfield.CopyWords(in.state, src, c.wordOffset, 0, nWords); err != nil {
			return err
		}
	}
	in.dirty = false
	return nil
}

// ChildrenChanged reports whether any wired child changed at its recorded
// time offset since the previous step.
func (in *Input) ChildrenChanged() (bool, error) {
	for _, c := range in.children {
		changed, err := c.source.HasChangedAt(c.timeOffset)
		if err != nil {
			return false, err
		}
		if changed {
			return true, nil
		}
	}
	return false, nil
}

// MemoryUsage returns the approximate number of bytes held by state
// (children are owned, and accounted, elsewhere).
func (in *Input) MemoryUsage() uint64 {
	return uint64(in.state.NumWords()) * 4
}
