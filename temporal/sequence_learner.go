// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package temporal

import (
	"github.com/emer/gnomics/block"
	"github.com/emer/gnomics/gnerr"
)

// SequenceLearner predicts which statelets will be active next given only
// a column of active input bits: its own context is its own previous
// output, wired back to itself at time offset 1. This is the one
// permitted cycle in the whole block graph (spec §3, §9).
type SequenceLearner struct {
	label string
	*engine

	in  *block.Input
	ctx *block.Input
}

// NewSequenceLearner constructs a sequence learner.
func NewSequenceLearner(label string, numC, numSpc, numDps, numRpd int, dThresh uint32,
	permThresh, permIncr, permDecr uint8, learnFrac, pctConn float64, numT int, seed int64) (*SequenceLearner, error) {
	e, err := newEngine(numC, numSpc, numDps, numRpd, dThresh, permThresh, permIncr, permDecr, learnFrac, pctConn, numT, seed)
	if err != nil {
		return nil, err
	}
	return &SequenceLearner{
		label: label, engine: e,
		in:  block.NewInput(),
		ctx: block.NewInput(),
	}, nil
}

func (s *SequenceLearner) Label() string          { return s.label }
func (s *SequenceLearner) Output() *block.Output   { return s.engine.out }
func (s *SequenceLearner) InputPort() *block.Input { return s.in }

// ContextPort returns nil: the context port's sole child is wired
// automatically to the learner's own output during Init, and the network
// must not be allowed to add further children to it.
func (s *SequenceLearner) ContextPort() *block.Input { return nil }

func (s *SequenceLearner) Init() error {
	if s.in.Size() == 0 {
		return gnerr.Topology("temporal.SequenceLearner: input has zero size at init")
	}
	if s.in.Size() != s.NumC {
		return gnerr.Shape("temporal.SequenceLearner: input size must equal num_c", s.NumC, s.in.Size())
	}
	// Output must be sized before it can be wired as its own context's
	// child; num_s is known from construction parameters alone, so this
	// does not depend on external wiring order.
	if err := s.engine.out.Setup(s.engine.numT, s.engine.numS); err != nil {
		return err
	}
	if err := s.ctx.AddChild(s.engine.out, 1); err != nil {
		return err
	}
	mem, err := s.engine.initMemory(s.ctx.Size())
	if err != nil {
		return err
	}
	s.engine.mem = mem
	s.engine.nextSD = make([]int, s.engine.numS)
	s.engine.learnDendrite = make([]int, s.engine.numS)
	return nil
}

func (s *SequenceLearner) Execute(learn bool) error {
	if err := s.engine.out.Step(); err != nil {
		return err
	}
	if err := s.in.Pull(); err != nil {
		return err
	}
	if err := s.ctx.Pull(); err != nil {
		return err
	}
	if err := s.engine.compute(s.in.State(), s.ctx.State()); err != nil {
		return err
	}
	if err := s.engine.out.Store(); err != nil {
		return err
	}
	if learn {
		return s.engine.learn(s.ctx.State())
	}
	return nil
}

func (s *SequenceLearner) Clear() { s.engine.clear() }

func (s *SequenceLearner) MemoryUsage() uint64 {
	return s.engine.memoryUsage() + s.in.MemoryUsage() + s.ctx.MemoryUsage()
}

// GetAnomalyScore returns the last step's anomaly score.
func (s *SequenceLearner) GetAnomalyScore() float64 { return s.engine.GetAnomalyScore() }

// GetHistoricalCount returns the number of in-use dendrites.
func (s *SequenceLearner) GetHistoricalCount() int { return s.engine.GetHistoricalCount() }

// Perms returns a copy of the dendrite memory's permanence array.
func (s *SequenceLearner) Perms() []uint8 { return s.engine.perms() }

// SetPerms restores a previously saved permanence array.
func (s *SequenceLearner) SetPerms(perms []uint8) error { return s.engine.setPerms(perms) }
