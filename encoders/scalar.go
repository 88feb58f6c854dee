// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package encoders implements the three input encoders of the pipeline:
// Scalar, Discrete and Persistence. Each owns only a BlockOutput (no
// BlockInput): values arrive through SetValue rather than wired children.
package encoders

import (
	"github.com/emer/gnomics/block"
	"github.com/emer/gnomics/gnerr"
)

// Scalar converts a bounded floating-point input into a contiguous
// "thermometer" window of num_as active bits out of num_s.
type Scalar struct {
	label       string
	seed        int64
	Min, Max    float64
	NumS, NumAs int
	numT        int

	value   float64
	clamped bool

	out *block.Output
}

// NewScalar constructs a scalar encoder. numT is the output history depth
// (>= 2); pass 2 unless a downstream block needs deeper time offsets.
func NewScalar(label string, min, max float64, numS, numAs, numT int, seed int64) (*Scalar, error) {
	if numS <= 0 {
		return nil, gnerr.Param("num_s", "encoders.Scalar: num_s must be positive", ">0", numS)
	}
	if numAs <= 0 || numAs > numS {
		return nil, gnerr.Param("num_as", "encoders.Scalar: num_as out of range", numS, numAs)
	}
	if max <= min {
		return nil, gnerr.Param("min,max", "encoders.Scalar: max must be > min", nil, [2]float64{min, max})
	}
	if numT < 2 {
		numT = 2
	}
	return &Scalar{
		label: label, seed: seed,
		Min: min, Max: max, NumS: numS, NumAs: numAs, numT: numT,
		out: block.NewOutput(),
	}, nil
}

func (s *Scalar) Label() string { return s.label }

func (s *Scalar) Init() error {
	return s.out.Setup(s.numT, s.NumS)
}

func (s *Scalar) Output() *block.Output   { return s.out }
func (s *Scalar) InputPort() *block.Input { return nil }
func (s *Scalar) ContextPort() *block.Input { return nil }

// SetValue stores the next value to encode; out-of-range values are
// clamped at compute time and reported via WasClamped, never rejected.
func (s *Scalar) SetValue(v float64) { s.value = v }

// GetValue returns the last value passed to SetValue (unclamped).
func (s *Scalar) GetValue() float64 { return s.value }

// WasClamped reports whether the most recently computed value fell
// outside [Min, Max].
func (s *Scalar) WasClamped() bool { return s.clamped }

// bucket clamps v to [Min, Max], records in WasClamped whether it had to,
// and returns the window start index for the clamped value.
func (s *Scalar) bucket(v float64) int {
	clamped := v
	s.clamped = false
	if clamped < s.Min {
		clamped = s.Min
		s.clamped = true
	} else if clamped > s.Max {
		clamped = s.Max
		s.clamped = true
	}
	span := s.Max - s.Min
	windowRange := s.NumS - s.NumAs
	b := int((clamped - s.Min) / span * float64(windowRange))
	if b < 0 {
		b = 0
	}
	if b > windowRange {
		b = windowRange
	}
	return b
}

func activateWindow(out *block.Output, bucket, numAs int) error {
	return out.State().SetRange(bucket, bucket+numAs)
}

// Execute runs step/compute/store. Scalar encoders never learn.
func (s *Scalar) Execute(learn bool) error {
	if err := s.out.Step(); err != nil {
		return err
	}
	b := s.bucket(s.value)
	if err := activateWindow(s.out, b, s.NumAs); err != nil {
		return err
	}
	return s.out.Store()
}

func (s *Scalar) Clear() { s.out.Clear() }

func (s *Scalar) MemoryUsage() uint64 { return s.out.MemoryUsage() }
