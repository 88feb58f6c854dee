// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encoders

import (
	"math"

	"github.com/emer/gnomics/block"
	"github.com/emer/gnomics/gnerr"
)

// Persistence encodes how long a scalar input has stayed within Theta of
// its previous fractional position, as a scalar-style window over a
// saturating counter. The open question carried from the source (spec
// §4.5, §9) is what pct_prev should start at; here it starts at 0, the
// same (documented-buggy) behaviour as the source, so the first step's
// counter resets to 0 unless the first value's fraction also happens to
// be within Theta of 0.
type Persistence struct {
	label       string
	seed        int64
	Min, Max    float64
	NumS, NumAs int
	Theta       float64
	numT        int

	value   float64
	pctPrev float64
	counter int

	out *block.Output
}

// NewPersistence constructs a persistence encoder.
func NewPersistence(label string, min, max float64, numS, numAs int, theta float64, numT int, seed int64) (*Persistence, error) {
	if numS <= 0 {
		return nil, gnerr.Param("num_s", "encoders.Persistence: num_s must be positive", ">0", numS)
	}
	if numAs <= 0 || numAs > numS {
		return nil, gnerr.Param("num_as", "encoders.Persistence: num_as out of range", numS, numAs)
	}
	if max <= min {
		return nil, gnerr.Param("min,max", "encoders.Persistence: max must be > min", nil, [2]float64{min, max})
	}
	if theta < 0 || theta > 1 {
		return nil, gnerr.Param("theta", "encoders.Persistence: theta out of [0,1]", "[0,1]", theta)
	}
	if numT < 2 {
		numT = 2
	}
	return &Persistence{
		label: label, seed: seed,
		Min: min, Max: max, NumS: numS, NumAs: numAs, Theta: theta, numT: numT,
		pctPrev: 0,
		out:     block.NewOutput(),
	}, nil
}

func (p *Persistence) Label() string { return p.label }

func (p *Persistence) Init() error {
	return p.out.Setup(p.numT, p.NumS)
}

func (p *Persistence) Output() *block.Output     { return p.out }
func (p *Persistence) InputPort() *block.Input   { return nil }
func (p *Persistence) ContextPort() *block.Input { return nil }

// SetValue stores the next value to encode.
func (p *Persistence) SetValue(v float64) { p.value = v }

// GetValue returns the last value passed to SetValue.
func (p *Persistence) GetValue() float64 { return p.value }

// Counter returns the current saturating stability counter.
func (p *Persistence) Counter() int { return p.counter }

func (p *Persistence) Execute(learn bool) error {
	if err := p.out.Step(); err != nil {
		return err
	}
	clamped := p.value
	if clamped < p.Min {
		clamped = p.Min
	} else if clamped > p.Max {
		clamped = p.Max
	}
	pct := (clamped - p.Min) / (p.Max - p.Min)
	maxCounter := p.NumS - p.NumAs
	if math.Abs(pct-p.pctPrev) <= p.Theta {
		p.counter++
		if p.counter > maxCounter {
			p.counter = maxCounter
		}
	} else {
		p.counter = 0
	}
	p.pctPrev = pct
	if err := activateWindow(p.out, p.counter, p.NumAs); err != nil {
		return err
	}
	return p.out.Store()
}

func (p *Persistence) Clear() {
	p.out.Clear()
	p.counter = 0
	p.pctPrev = 0
}

func (p *Persistence) MemoryUsage() uint64 { return p.out.MemoryUsage() }
