// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package poolers implements the two winner-take-all blocks built on a
// DendriteMemory: PatternPooler (unsupervised) and PatternClassifier
// (label-partitioned).
package poolers

import (
	"sort"

	"github.com/emer/gnomics/block"
	"github.com/emer/gnomics/dendrite"
	"github.com/emer/gnomics/gnerr"
	"github.com/emer/gnomics/grand"
)

// PatternPooler selects the num_as dendrites with the highest overlap
// against its (lazily pulled) input every step, unsupervised.
type PatternPooler struct {
	label        string
	seed         int64
	NumS, NumAs  int
	PermThresh   uint8
	PermIncr     uint8
	PermDecr     uint8
	PctPool      float64
	PctConn      float64
	PctLearn     float64
	AlwaysUpdate bool
	numT         int

	in  *block.Input
	out *block.Output
	mem *dendrite.Memory
}

// NewPatternPooler constructs a pooler. The dendrite memory is allocated
// during Init, once the wired input's concatenated size is known.
func NewPatternPooler(label string, numS, numAs int, permThresh, permIncr, permDecr uint8,
	pctPool, pctConn, pctLearn float64, alwaysUpdate bool, numT int, seed int64) (*PatternPooler, error) {
	if numS <= 0 {
		return nil, gnerr.Param("num_s", "poolers.PatternPooler: num_s must be positive", ">0", numS)
	}
	if numAs <= 0 || numAs > numS {
		return nil, gnerr.Param("num_as", "poolers.PatternPooler: num_as out of range", numS, numAs)
	}
	if numT < 2 {
		numT = 2
	}
	return &PatternPooler{
		label: label, seed: seed,
		NumS: numS, NumAs: numAs,
		PermThresh: permThresh, PermIncr: permIncr, PermDecr: permDecr,
		PctPool: pctPool, PctConn: pctConn, PctLearn: pctLearn,
		AlwaysUpdate: alwaysUpdate, numT: numT,
		in:  block.NewInput(),
		out: block.NewOutput(),
	}, nil
}

func (p *PatternPooler) Label() string        { return p.label }
func (p *PatternPooler) Output() *block.Output { return p.out }
func (p *PatternPooler) InputPort() *block.Input { return p.in }
func (p *PatternPooler) ContextPort() *block.Input { return nil }

func (p *PatternPooler) Init() error {
	if p.in.Size() == 0 {
		return gnerr.Topology("poolers.PatternPooler: input has zero size at init")
	}
	if err := p.out.Setup(p.numT, p.NumS); err != nil {
		return err
	}
	mem, err := dendrite.NewPooled(p.NumS, p.in.Size(), p.PermThresh, p.PermIncr, p.PermDecr,
		p.PctLearn, p.PctConn, p.PctPool, grand.New(p.seed))
	if err != nil {
		return err
	}
	p.mem = mem
	return nil
}

// winners picks the num_as dendrites with highest overlap, breaking ties
// by lowest dendrite index.
func winners(overlaps []uint32, numAs int) []int {
	idx := make([]int, len(overlaps))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if overlaps[idx[a]] != overlaps[idx[b]] {
			return overlaps[idx[a]] > overlaps[idx[b]]
		}
		return idx[a] < idx[b]
	})
	if numAs > len(idx) {
		numAs = len(idx)
	}
	return idx[:numAs]
}

func (p *PatternPooler) Execute(learn bool) error {
	if err := p.out.Step(); err != nil {
		return err
	}
	if err := p.in.Pull(); err != nil {
		return err
	}
	changed, err := p.in.ChildrenChanged()
	if err != nil {
		return err
	}
	if !p.AlwaysUpdate && !changed {
		// carry over the previous output unchanged.
		prev, err := p.out.Get(1)
		if err != nil {
			return err
		}
		if err := p.out.State().CopyFrom(prev); err != nil {
			return err
		}
		return p.out.Store()
	}
	overlaps, err := p.mem.Overlaps(p.in.State())
	if err != nil {
		return err
	}
	win := winners(overlaps, p.NumAs)
	for _, d := range win {
		p.out.State().SetBit(d)
	}
	if learn {
		for _, d := range win {
			if err := p.mem.Learn(d, p.in.State()); err != nil {
				return err
			}
		}
	}
	return p.out.Store()
}

func (p *PatternPooler) Clear() { p.out.Clear() }

// Perms returns a copy of the dendrite memory's permanence array, for the
// configuration document's learned-state records.
func (p *PatternPooler) Perms() []uint8 {
	if p.mem == nil {
		return nil
	}
	return p.mem.Perms()
}

// SetPerms restores a previously saved permanence array; must be called
// after Init (i.e. after the owning network's Build).
func (p *PatternPooler) SetPerms(perms []uint8) error {
	if p.mem == nil {
		return gnerr.Order("poolers.PatternPooler.SetPerms: called before Init")
	}
	return p.mem.SetPerms(perms)
}

func (p *PatternPooler) MemoryUsage() uint64 {
	u := p.out.MemoryUsage() + p.in.MemoryUsage()
	if p.mem != nil {
		u += p.mem.MemoryUsage()
	}
	return u
}
