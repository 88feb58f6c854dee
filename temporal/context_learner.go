// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package temporal

import (
	"github.com/emer/gnomics/block"
	"github.com/emer/gnomics/gnerr"
)

// ContextLearner predicts which statelets will be active given a column
// of active input bits and a separately-wired contextual input.
type ContextLearner struct {
	label string
	*engine

	in  *block.Input
	ctx *block.Input
}

// NewContextLearner constructs a context learner. LearnFrac and PctConn
// extend the dense DendriteMemory init beyond the literal parameter list
// in spec §4.7, since every DendriteMemory (spec §3) needs a learn
// fraction and an initial connectivity fraction regardless of block kind.
func NewContextLearner(label string, numC, numSpc, numDps, numRpd int, dThresh uint32,
	permThresh, permIncr, permDecr uint8, learnFrac, pctConn float64, numT int, seed int64) (*ContextLearner, error) {
	e, err := newEngine(numC, numSpc, numDps, numRpd, dThresh, permThresh, permIncr, permDecr, learnFrac, pctConn, numT, seed)
	if err != nil {
		return nil, err
	}
	return &ContextLearner{
		label: label, engine: e,
		in:  block.NewInput(),
		ctx: block.NewInput(),
	}, nil
}

func (c *ContextLearner) Label() string            { return c.label }
func (c *ContextLearner) Output() *block.Output     { return c.engine.out }
func (c *ContextLearner) InputPort() *block.Input   { return c.in }
func (c *ContextLearner) ContextPort() *block.Input { return c.ctx }

func (c *ContextLearner) Init() error {
	if c.in.Size() == 0 {
		return gnerr.Topology("temporal.ContextLearner: input has zero size at init")
	}
	if c.in.Size() != c.NumC {
		return gnerr.Shape("temporal.ContextLearner: input size must equal num_c", c.NumC, c.in.Size())
	}
	if c.ctx.Size() == 0 {
		return gnerr.Topology("temporal.ContextLearner: context has zero size at init")
	}
	return c.engine.init(c.ctx.Size())
}

func (c *ContextLearner) Execute(learn bool) error {
	if err := c.engine.out.Step(); err != nil {
		return err
	}
	if err := c.in.Pull(); err != nil {
		return err
	}
	if err := c.ctx.Pull(); err != nil {
		return err
	}
	if err := c.engine.compute(c.in.State(), c.ctx.State()); err != nil {
		return err
	}
	if err := c.engine.out.Store(); err != nil {
		return err
	}
	if learn {
		return c.engine.learn(c.ctx.State())
	}
	return nil
}

func (c *ContextLearner) Clear() { c.engine.clear() }

func (c *ContextLearner) MemoryUsage() uint64 {
	return c.engine.memoryUsage() + c.in.MemoryUsage() + c.ctx.MemoryUsage()
}

// GetAnomalyScore returns the last step's anomaly score.
func (c *ContextLearner) GetAnomalyScore() float64 { return c.engine.GetAnomalyScore() }

// GetHistoricalCount returns the number of in-use dendrites.
func (c *ContextLearner) GetHistoricalCount() int { return c.engine.GetHistoricalCount() }

// Perms returns a copy of the dendrite memory's permanence array.
func (c *ContextLearner) Perms() []uint8 { return c.engine.perms() }

// SetPerms restores a previously saved permanence array.
func (c *ContextLearner) SetPerms(perms []uint8) error { return c.engine.setPerms(perms) }
