// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encoders

import (
	"github.com/emer/gnomics/block"
	"github.com/emer/gnomics/gnerr"
)

// Discrete converts a bounded category index into a disjoint window of
// num_s/num_v contiguous bits: distinct categories share no active bits.
type Discrete struct {
	label      string
	seed       int64
	NumV, NumS int
	width      int
	numT       int

	value   int
	clamped bool

	out *block.Output
}

// NewDiscrete constructs a discrete encoder; num_s must be a multiple of num_v.
func NewDiscrete(label string, numV, numS, numT int, seed int64) (*Discrete, error) {
	if numV <= 0 {
		return nil, gnerr.Param("num_v", "encoders.Discrete: num_v must be positive", ">0", numV)
	}
	if numS <= 0 || numS%numV != 0 {
		return nil, gnerr.Param("num_s", "encoders.Discrete: num_s must be a positive multiple of num_v", numV, numS)
	}
	if numT < 2 {
		numT = 2
	}
	return &Discrete{
		label: label, seed: seed,
		NumV: numV, NumS: numS, width: numS / numV, numT: numT,
		out: block.NewOutput(),
	}, nil
}

func (d *Discrete) Label() string { return d.label }

func (d *Discrete) Init() error {
	return d.out.Setup(d.numT, d.NumS)
}

func (d *Discrete) Output() *block.Output     { return d.out }
func (d *Discrete) InputPort() *block.Input   { return nil }
func (d *Discrete) ContextPort() *block.Input { return nil }

// SetValue stores the next category index; out-of-range indices are
// clamped to [0, NumV-1] at compute time.
func (d *Discrete) SetValue(v int) { d.value = v }

// GetValue returns the last value passed to SetValue (unclamped).
func (d *Discrete) GetValue() int { return d.value }

// WasClamped reports whether the most recently computed category fell
// outside [0, NumV-1].
func (d *Discrete) WasClamped() bool { return d.clamped }

func (d *Discrete) Execute(learn bool) error {
	if err := d.out.Step(); err != nil {
		return err
	}
	c := d.value
	d.clamped = false
	if c < 0 {
		c = 0
		d.clamped = true
	} else if c >= d.NumV {
		c = d.NumV - 1
		d.clamped = true
	}
	if err := d.out.State().SetRange(c*d.width, (c+1)*d.width); err != nil {
		return err
	}
	return d.out.Store()
}

func (d *Discrete) Clear() { d.out.Clear() }

func (d *Discrete) MemoryUsage() uint64 { return d.out.MemoryUsage() }
