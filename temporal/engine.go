// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package temporal implements the two column x statelet x dendrite
// predictors: ContextLearner and SequenceLearner. Both share the same
// per-step recognition/surprise/anomaly algorithm, factored here as
// engine and embedded by each concrete block.
package temporal

import (
	"math/rand"

	"github.com/emer/gnomics/bitfield"
	"github.com/emer/gnomics/block"
	"github.com/emer/gnomics/dendrite"
	"github.com/emer/gnomics/gnerr"
	"github.com/emer/gnomics/grand"
)

// engine is the shared column x statelet x dendrite machinery used by both
// ContextLearner and SequenceLearner: NumC columns (one per input bit) of
// NumSpc statelets each, NumDps dendrites per statelet, NumRpd
// receptors per dendrite.
type engine struct {
	seed int64
	rng  *rand.Rand

	NumC, NumSpc, NumDps, NumRpd int
	DThresh                      uint32
	PermThresh, PermIncr, PermDecr uint8
	LearnFrac, PctConn           float64
	numT                         int
	numS                         int

	mem           *dendrite.Memory
	nextSD        []int
	learnDendrite []int
	anomaly       float64

	out *block.Output
}

func newEngine(numC, numSpc, numDps, numRpd int, dThresh uint32, permThresh, permIncr, permDecr uint8,
	learnFrac, pctConn float64, numT int, seed int64) (*engine, error) {
	if numC <= 0 || numSpc <= 0 || numDps <= 0 || numRpd <= 0 {
		return nil, gnerr.Param("num_c,num_spc,num_dps,num_rpd", "temporal: dimensions must be positive", nil,
			[4]int{numC, numSpc, numDps, numRpd})
	}
	if numT < 2 {
		numT = 2
	}
	return &engine{
		seed: seed, rng: grand.New(seed),
		NumC: numC, NumSpc: numSpc, NumDps: numDps, NumRpd: numRpd,
		DThresh:    dThresh,
		PermThresh: permThresh, PermIncr: permIncr, PermDecr: permDecr,
		LearnFrac: learnFrac, PctConn: pctConn,
		numT: numT, numS: numC * numSpc,
		out: block.NewOutput(),
	}, nil
}

// initMemory allocates the dense DendriteMemory once the context space
// size is known, shared by both init (external context) and
// SequenceLearner's self-wired context.
func (e *engine) initMemory(contextSize int) (*dendrite.Memory, error) {
	return dendrite.NewDense(e.numS*e.NumDps, e.NumRpd, contextSize,
		e.PermThresh, e.PermIncr, e.PermDecr, e.LearnFrac, e.PctConn, e.rng)
}

// init allocates the output and dendrite memory once the context space
// size is known.
func (e *engine) init(contextSize int) error {
	if err := e.out.Setup(e.numT, e.numS); err != nil {
		return err
	}
	mem, err := e.initMemory(contextSize)
	if err != nil {
		return err
	}
	e.mem = mem
	e.nextSD = make([]int, e.numS)
	e.learnDendrite = make([]int, e.numS)
	return nil
}

func (e *engine) statelets(c int) (lo, hi int) {
	return c * e.NumSpc, (c + 1) * e.NumSpc
}

func (e *engine) anyDendriteInUse(s int) (bool, error) {
	base := s * e.NumDps
	for j := 0; j < e.NumDps; j++ {
		in, err := e.mem.IsInUse(base + j)
		if err != nil {
			return false, err
		}
		if in {
			return true, nil
		}
	}
	return false, nil
}

// compute runs one step of the recognition/surprise algorithm against the
// given active-columns input and contextual input, writing into e.out's
// current State (already cleared by the caller's preceding Step).
func (e *engine) compute(input, context *bitfield.BitField) error {
	if input.N() != e.NumC {
		return gnerr.Shape("temporal: input size must equal num_c", e.NumC, input.N())
	}
	for i := range e.learnDendrite {
		e.learnDendrite[i] = -1
	}
	out := e.out.State()
	surprised := 0
	numActive := input.NumSet()
	for c := 0; c < e.NumC; c++ {
		if !input.GetBit(c) {
			continue
		}
		lo, hi := e.statelets(c)
		recognized := false
		recognizedStatelet, recognizedDendrite := -1, -1
		for s := lo; s < hi && !recognized; s++ {
			base := s * e.NumDps
			for j := 0; j < e.NumDps; j++ {
				g := base + j
				inUse, err := e.mem.IsInUse(g)
				if err != nil {
					return err
				}
				if !inUse {
					continue
				}
				ov, err := e.mem.Overlap(g, context)
				if err != nil {
					return err
				}
				if ov >= e.DThresh {
					out.SetBit(s)
					recognized = true
					recognizedStatelet = s
					recognizedDendrite = g
					break
				}
			}
		}
		if recognized {
			e.learnDendrite[recognizedStatelet] = recognizedDendrite
			continue
		}
		surprised++
		firstActive := -1
		for s := lo; s < hi; s++ {
			anyInUse, err := e.anyDendriteInUse(s)
			if err != nil {
				return err
			}
			if anyInUse {
				out.SetBit(s)
				if firstActive == -1 {
					firstActive = s
				}
			}
		}
		if firstActive == -1 {
			s := lo + e.rng.Intn(e.NumSpc)
			out.SetBit(s)
			firstActive = s
		}
		sStar := firstActive
		dStar := sStar*e.NumDps + e.nextSD[sStar]
		if err := e.mem.MarkInUse(dStar); err != nil {
			return err
		}
		e.learnDendrite[sStar] = dStar
		if e.nextSD[sStar] < e.NumDps-1 {
			e.nextSD[sStar]++
		}
	}
	denom := numActive
	if denom < 1 {
		denom = 1
	}
	e.anomaly = float64(surprised) / float64(denom)
	return nil
}

// learn runs learn_move on every statelet that was assigned a learning
// dendrite this step: the recognizing statelet of each recognized column
// and the one chosen statelet of each surprised column. Other statelets
// activated in a surprised column do not learn.
func (e *engine) learn(context *bitfield.BitField) error {
	for _, d := range e.learnDendrite {
		if d < 0 {
			continue
		}
		if err := e.mem.LearnMove(d, context); err != nil {
			return err
		}
	}
	return nil
}

// GetAnomalyScore returns the fraction of active input columns that were
// not recognized on the last step, in [0, 1].
func (e *engine) GetAnomalyScore() float64 { return e.anomaly }

// GetHistoricalCount returns the number of in-use dendrites.
func (e *engine) GetHistoricalCount() int {
	if e.mem == nil {
		return 0
	}
	return e.mem.HistoricalCount()
}

func (e *engine) memoryUsage() uint64 {
	u := e.out.MemoryUsage()
	if e.mem != nil {
		u += e.mem.MemoryUsage()
	}
	u += uint64(len(e.nextSD)) * 8
	return u
}

func (e *engine) perms() []uint8 {
	if e.mem == nil {
		return nil
	}
	return e.mem.Perms()
}

func (e *engine) setPerms(perms []uint8) error {
	if e.mem == nil {
		return gnerr.Order("temporal: SetPerms called before Init")
	}
	return e.mem.SetPerms(perms)
}

func (e *engine) clear() {
	e.out.Clear()
	for i := range e.nextSD {
		e.nextSD[i] = 0
	}
	e.anomaly = 0
}
