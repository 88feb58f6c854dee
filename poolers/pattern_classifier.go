// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poolers

import (
	"math/rand"

	"github.com/emer/gnomics/block"
	"github.com/emer/gnomics/dendrite"
	"github.com/emer/gnomics/gnerr"
	"github.com/emer/gnomics/grand"
)

// PatternClassifier partitions its dendrites into NumL contiguous label
// groups and runs an independent winner-take-all within each group every
// step, so that get_probabilities can read off a per-label activation
// strength.
type PatternClassifier struct {
	label          string
	seed           int64
	rng            *rand.Rand
	NumS, NumAs    int
	NumL           int
	PermThresh     uint8
	PermIncr       uint8
	PermDecr       uint8
	PctPool        float64
	PctConn        float64
	PctLearn       float64
	numT           int
	groupSize      int
	winnersPerGrp  int
	currentLabel   int

	in  *block.Input
	out *block.Output
	mem *dendrite.Memory
}

// NewPatternClassifier constructs a classifier; num_s must be divisible by
// num_l, and num_as must be divisible by num_l (equal winners per group).
func NewPatternClassifier(label string, numS, numAs, numL int, permThresh, permIncr, permDecr uint8,
	pctPool, pctConn, pctLearn float64, numT int, seed int64) (*PatternClassifier, error) {
	if numL <= 0 {
		return nil, gnerr.Param("num_l", "poolers.PatternClassifier: num_l must be positive", ">0", numL)
	}
	if numS <= 0 || numS%numL != 0 {
		return nil, gnerr.Param("num_s", "poolers.PatternClassifier: num_s must be a positive multiple of num_l", numL, numS)
	}
	if numAs <= 0 || numAs%numL != 0 || numAs > numS {
		return nil, gnerr.Param("num_as", "poolers.PatternClassifier: num_as must be a positive multiple of num_l and <= num_s", numL, numAs)
	}
	if numT < 2 {
		numT = 2
	}
	return &PatternClassifier{
		label: label, seed: seed, rng: grand.New(seed),
		NumS: numS, NumAs: numAs, NumL: numL,
		PermThresh: permThresh, PermIncr: permIncr, PermDecr: permDecr,
		PctPool: pctPool, PctConn: pctConn, PctLearn: pctLearn,
		numT:          numT,
		groupSize:     numS / numL,
		winnersPerGrp: numAs / numL,
		in:            block.NewInput(),
		out:           block.NewOutput(),
	}, nil
}

func (c *PatternClassifier) Label() string          { return c.label }
func (c *PatternClassifier) Output() *block.Output   { return c.out }
func (c *PatternClassifier) InputPort() *block.Input { return c.in }
func (c *PatternClassifier) ContextPort() *block.Input { return nil }

func (c *PatternClassifier) Init() error {
	if c.in.Size() == 0 {
		return gnerr.Topology("poolers.PatternClassifier: input has zero size at init")
	}
	if err := c.out.Setup(c.numT, c.NumS); err != nil {
		return err
	}
	mem, err := dendrite.NewPooled(c.NumS, c.in.Size(), c.PermThresh, c.PermIncr, c.PermDecr,
		c.PctLearn, c.PctConn, c.PctPool, grand.New(c.seed))
	if err != nil {
		return err
	}
	c.mem = mem
	return nil
}

// SetLabel selects which group learns positively on the next Execute(true).
func (c *PatternClassifier) SetLabel(l int) error {
	if l < 0 || l >= c.NumL {
		return gnerr.Param("label", "poolers.PatternClassifier.SetLabel: label out of range", c.NumL, l)
	}
	c.currentLabel = l
	return nil
}

func (c *PatternClassifier) Execute(learn bool) error {
	if err := c.out.Step(); err != nil {
		return err
	}
	if err := c.in.Pull(); err != nil {
		return err
	}
	overlaps, err := c.mem.Overlaps(c.in.State())
	if err != nil {
		return err
	}
	groupWinners := make([][]int, c.NumL)
	for g := 0; g < c.NumL; g++ {
		lo := g * c.groupSize
		slice := overlaps[lo : lo+c.groupSize]
		win := winners(slice, c.winnersPerGrp)
		abs := make([]int, len(win))
		for i, w := range win {
			abs[i] = lo + w
			c.out.State().SetBit(lo + w)
		}
		groupWinners[g] = abs
	}
	if learn {
		for _, d := range groupWinners[c.currentLabel] {
			if err := c.mem.Learn(d, c.in.State()); err != nil {
				return err
			}
		}
		for g := 0; g < c.NumL; g++ {
			if g == c.currentLabel {
				continue
			}
			subset := punishSubset(groupWinners[g], c.PctLearn, c.rng)
			for _, d := range subset {
				if err := c.mem.Punish(d, c.in.State()); err != nil {
					return err
				}
			}
		}
	}
	return c.out.Store()
}

func punishSubset(winners []int, frac float64, rng *rand.Rand) []int {
	if len(winners) == 0 {
		return nil
	}
	k := int(frac*float64(len(winners)) + 0.999999)
	if k > len(winners) {
		k = len(winners)
	}
	if k < 0 {
		k = 0
	}
	idx := make([]int, len(winners))
	copy(idx, winners)
	grand.PermuteInts(idx, rng)
	return idx[:k]
}

// GetProbabilities sums overlap within each label group and normalizes by
// the total; returns a uniform distribution if the total is zero.
func (c *PatternClassifier) GetProbabilities() ([]float64, error) {
	if c.mem == nil {
		return nil, gnerr.Order("poolers.PatternClassifier.GetProbabilities: called before Init")
	}
	overlaps, err := c.mem.Overlaps(c.in.State())
	if err != nil {
		return nil, err
	}
	sums := make([]float64, c.NumL)
	total := 0.0
	for g := 0; g < c.NumL; g++ {
		lo := g * c.groupSize
		for _, ov := range overlaps[lo : lo+c.groupSize] {
			sums[g] += float64(ov)
		}
		total += sums[g]
	}
	if total == 0 {
		for g := range sums {
			sums[g] = 1.0 / float64(c.NumL)
		}
		return sums, nil
	}
	for g := range sums {
		sums[g] /= total
	}
	return sums, nil
}

func (c *PatternClassifier) Clear() { c.out.Clear() }

// Perms returns a copy of the dendrite memory's permanence array.
func (c *PatternClassifier) Perms() []uint8 {
	if c.mem == nil {
		return nil
	}
	return c.mem.Perms()
}

// SetPerms restores a previously saved permanence array.
func (c *PatternClassifier) SetPerms(perms []uint8) error {
	if c.mem == nil {
		return gnerr.Order("poolers.PatternClassifier.SetPerms: called before Init")
	}
	return c.mem.SetPerms(perms)
}

func (c *PatternClassifier) MemoryUsage() uint64 {
	u := c.out.MemoryUsage() + c.in.MemoryUsage()
	if c.mem != nil {
		u += c.mem.MemoryUsage()
	}
	return u
}
