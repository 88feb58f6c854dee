// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dendrite implements DendriteMemory: a sparse synaptic store that
// addresses a concatenated input space by linear bit-indices, with
// permanence-based Hebbian learning. It is the shared substrate under the
// poolers, the classifier, and the two temporal learners.
package dendrite

import (
	"math/rand"

	"github.com/emer/gnomics/bitfield"
	"github.com/emer/gnomics/gnerr"
	"github.com/emer/gnomics/grand"
)

const maxPerm = 99

// Memory is a flat (d * r) array of (address, permanence) receptors,
// d dendrites of r receptors each, addressing an input space of inputSize
// bits. A receptor is connected iff its permanence >= Thresh.
type Memory struct {
	D, R      int
	InputSize int
	Thresh    uint8
	Incr      uint8
	Decr      uint8
	LearnFrac float64

	addrs []uint32
	perms []uint8

	masks     []*bitfield.BitField // per-dendrite connected-receptor mask, lazily rebuilt
	maskDirty []bool

	conns *bitfield.BitField // which dendrites are "in use" (temporal learners only)

	rng *rand.Rand
}

func newMemory(d, r, inputSize int, thresh, incr, decr uint8, learnFrac float64, rng *rand.Rand) (*Memory, error) {
	if d <= 0 || r <= 0 || inputSize <= 0 {
		return nil, gnerr.Param("d,r,inputSize", "dendrite.Memory: dimensions must be positive", nil, [3]int{d, r, inputSize})
	}
	if thresh > maxPerm {
		return nil, gnerr.Param("thresh", "dendrite.Memory: threshold out of [0,99]", maxPerm, thresh)
	}
	if learnFrac < 0 || learnFrac > 1 {
		return nil, gnerr.Param("learnFrac", "dendrite.Memory: learn fraction out of [0,1]", "[0,1]", learnFrac)
	}
	m := &Memory{
		D: d, R: r, InputSize: inputSize,
		Thresh: thresh, Incr: incr, Decr: decr, LearnFrac: learnFrac,
		addrs:     make([]uint32, d*r),
		perms:     make([]uint8, d*r),
		masks:     make([]*bitfield.BitField, d),
		maskDirty: make([]bool, d),
		conns:     bitfield.New(d),
		rng:       rng,
	}
	for i := range m.masks {
		m.masks[i] = bitfield.New(inputSize)
		m.maskDirty[i] = true
	}
	return m, nil
}

// NewDense builds a dense-initialized Memory: every dendrite's receptors
// are addressed uniformly at random across the full input space, with
// initial permanences drawn so that approximately pctConn of receptors
// start out connected.
func NewDense(d, r, inputSize int, thresh, incr, decr uint8, learnFrac, pctConn float64, rng *rand.Rand) (*Memory, error) {
	m, err := newMemory(d, r, inputSize, thresh, incr, decr, learnFrac, rng)
	if err != nil {
		return nil, err
	}
	for dd := 0; dd < d; dd++ {
		candidates := fullRange(inputSize)
		grand.PermuteU32s(candidates, rng)
		m.assignReceptors(dd, candidates[:r], pctConn)
	}
	return m, nil
}

// NewPooled builds a pooled-initialized Memory: each dendrite's receptor
// count r is itself ceil(pctPool * inputSize), sampled as an independent
// random subset of the input space per dendrite (as opposed to NewDense's
// fixed r drawn from the full space). This is the mode the poolers use,
// where no separate per-dendrite receptor count is a spec parameter.
func NewPooled(d, inputSize int, thresh, incr, decr uint8, learnFrac, pctConn, pctPool float64, rng *rand.Rand) (*Memory, error) {
	r := int(pctPool*float64(inputSize) + 0.999999)
	if r < 1 {
		r = 1
	}
	if r > inputSize {
		r = inputSize
	}
	m, err := newMemory(d, r, inputSize, thresh, incr, decr, learnFrac, rng)
	if err != nil {
		return nil, err
	}
	for dd := 0; dd < d; dd++ {
		full := fullRange(inputSize)
		grand.PermuteU32s(full, rng)
		m.assignReceptors(dd, full[:r], pctConn)
	}
	return m, nil
}

func fullRange(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

func (m *Memory) assignReceptors(d int, addrs []uint32, pctConn float64) {
	base := d * m.R
	for i, a := range addrs {
		m.addrs[base+i] = a
		if grand.BoolP(pctConn, m.rng) {
			m.perms[base+i] = m.Thresh + uint8(m.rng.Intn(maxPerm-int(m.Thresh)+1))
			if m.perms[base+i] > maxPerm {
				m.perms[base+i] = maxPerm
			}
		} else {
			if m.Thresh > 0 {
				m.perms[base+i] = uint8(m.rng.Intn(int(m.Thresh)))
			} else {
				m.perms[base+i] = 0
			}
		}
	}
	m.maskDirty[d] = true
}

func (m *Memory) checkDendrite(d int) error {
	if d < 0 || d >= m.D {
		return gnerr.Shape("dendrite.Memory: dendrite index out of range", m.D, d)
	}
	return nil
}

func (m *Memory) checkInput(input *bitfield.BitField) error {
	if input.N() != m.InputSize {
		return gnerr.Shape("dendrite.Memory: input size mismatch", m.InputSize, input.N())
	}
	return nil
}

// ensureMask rebuilds the connected-receptor mask for dendrite d if stale.
func (m *Memory) ensureMask(d int) {
	if !m.maskDirty[d] {
		return
	}
	mask := m.masks[d]
	mask.ClearAll()
	base := d * m.R
	for i := 0; i < m.R; i++ {
		if m.perms[base+i] >= m.Thresh {
			mask.SetBit(int(m.addrs[base+i]))
		}
	}
	m.maskDirty[d] = false
}

// Overlap counts connected receptors of dendrite d whose addressed input
// bit is active. The connected mask gives a fast zero check; receptors
// sharing an address (LearnMove can create these) are each counted.
func (m *Memory) Overlap(d int, input *bitfield.BitField) (uint32, error) {
	if err := m.checkDendrite(d); err != nil {
		return 0, err
	}
	if err := m.checkInput(input); err != nil {
		return 0, err
	}
	m.ensureMask(d)
	n, err := m.masks[d].NumSimilar(input)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	var count uint32
	base := d * m.R
	for i := 0; i < m.R; i++ {
		ri := base + i
		if m.perms[ri] >= m.Thresh && input.GetBit(int(m.addrs[ri])) {
			count++
		}
	}
	return count, nil
}

// Overlaps returns Overlap(d, input) for every dendrite in one call.
func (m *Memory) Overlaps(input *bitfield.BitField) ([]uint32, error) {
	if err := m.checkInput(input); err != nil {
		return nil, err
	}
	out := make([]uint32, m.D)
	for d := 0; d < m.D; d++ {
		ov, err := m.Overlap(d, input)
		if err != nil {
			return nil, err
		}
		out[d] = ov
	}
	return out, nil
}

func clampUp(p uint8, incr uint8) uint8 {
	v := int(p) + int(incr)
	if v > maxPerm {
		return maxPerm
	}
	return uint8(v)
}

func clampDown(p uint8, decr uint8) uint8 {
	v := int(p) - int(decr)
	if v < 0 {
		return 0
	}
	return uint8(v)
}

// Learn draws a random subset of ceil(LearnFrac*R) receptors of dendrite d
// and, for each, increments its permanence if the addressed input bit is
// active, else decrements it. Both moves saturate at [0, 99].
func (m *Memory) Learn(d int, input *bitfield.BitField) error {
	if err := m.checkDendrite(d); err != nil {
		return err
	}
	if err := m.checkInput(input); err != nil {
		return err
	}
	base := d * m.R
	k := learnCount(m.R, m.LearnFrac)
	idx := make([]int, m.R)
	for i := range idx {
		idx[i] = i
	}
	grand.PermuteInts(idx, m.rng)
	for i := 0; i < k; i++ {
		ri := base + idx[i]
		if input.GetBit(int(m.addrs[ri])) {
			m.perms[ri] = clampUp(m.perms[ri], m.Incr)
		} else {
			m.perms[ri] = clampDown(m.perms[ri], m.Decr)
		}
	}
	m.maskDirty[d] = true
	return nil
}

func learnCount(r int, frac float64) int {
	k := int(frac*float64(r) + 0.999999)
	if k > r {
		k = r
	}
	if k < 0 {
		k = 0
	}
	return k
}

// Punish decrements the permanence of every receptor of dendrite d whose
// addressed input bit is active, clamped at 0.
func (m *Memory) Punish(d int, input *bitfield.BitField) error {
	if err := m.checkDendrite(d); err != nil {
		return err
	}
	if err := m.checkInput(input); err != nil {
		return err
	}
	base := d * m.R
	for i := 0; i < m.R; i++ {
		ri := base + i
		if input.GetBit(int(m.addrs[ri])) {
			m.perms[ri] = clampDown(m.perms[ri], m.Decr)
		}
	}
	m.maskDirty[d] = true
	return nil
}

// LearnMove is the temporal-learner primitive: receptors already matching
// the active input reinforce normally; receptors that do not match rewire,
// with probability LearnFrac, to a randomly chosen active bit of input,
// re-initialized to the connection threshold. If input has no active bits
// there is nothing to move to, and LearnMove degrades to a no-op for
// unmatched receptors.
func (m *Memory) LearnMove(d int, input *bitfield.BitField) error {
	if err := m.checkDendrite(d); err != nil {
		return err
	}
	if err := m.checkInput(input); err != nil {
		return err
	}
	acts := input.GetActs()
	base := d * m.R
	for i := 0; i < m.R; i++ {
		ri := base + i
		if input.GetBit(int(m.addrs[ri])) {
			m.perms[ri] = clampUp(m.perms[ri], m.Incr)
			continue
		}
		if len(acts) == 0 {
			continue
		}
		if grand.BoolP(m.LearnFrac, m.rng) {
			newAddr := acts[m.rng.Intn(len(acts))]
			m.addrs[ri] = newAddr
			m.perms[ri] = m.Thresh
		}
	}
	m.maskDirty[d] = true
	return nil
}

// MarkInUse flags dendrite d as assigned at least once.
func (m *Memory) MarkInUse(d int) error {
	if err := m.checkDendrite(d); err != nil {
		return err
	}
	m.conns.SetBit(d)
	return nil
}

// IsInUse reports whether dendrite d has ever been assigned.
func (m *Memory) IsInUse(d int) (bool, error) {
	if err := m.checkDendrite(d); err != nil {
		return false, err
	}
	return m.conns.GetBit(d), nil
}

// HistoricalCount returns the number of in-use dendrites.
func (m *Memory) HistoricalCount() int {
	return m.conns.NumSet()
}

// Perms returns a copy of the full permanence array, for persistence.
func (m *Memory) Perms() []uint8 {
	out := make([]uint8, len(m.perms))
	copy(out, m.perms)
	return out
}

// SetPerms restores a previously saved permanence array; its length must
// match D*R exactly.
func (m *Memory) SetPerms(perms []uint8) error {
	if len(perms) != len(m.perms) {
		return gnerr.State("dendrite.Memory.SetPerms: shape mismatch", len(m.perms), len(perms))
	}
	copy(m.perms, perms)
	for i := range m.maskDirty {
		m.maskDirty[i] = true
	}
	return nil
}

// MemoryUsage returns the approximate number of bytes held by the memory.
func (m *Memory) MemoryUsage() uint64 {
	sz := uint64(len(m.addrs))*4 + uint64(len(m.perms))
	for _, mask := range m.masks {
		sz += uint64(mask.NumWords()) * 4
	}
	sz += uint64(m.conns.NumWords()) * 4
	return sz
}
