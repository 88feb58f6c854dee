// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bitfield implements the packed bit-vector primitive that every
// SDR (Sparse Distributed Representation) in gnomics is built from: a
// fixed-length binary vector stored as 32-bit words, least-significant bit
// first within each word, with trailing padding bits always held at zero.
package bitfield

import (
	"math/bits"
	"math/rand"

	"github.com/emer/gnomics/gnerr"
	"github.com/emer/gnomics/grand"
)

const wordBits = 32

// BitField is a fixed-size packed binary vector.
type BitField struct {
	n     int
	words []uint32
}

// New returns a BitField of n bits, all clear.
func New(n int) *BitField {
	return &BitField{n: n, words: make([]uint32, numWords(n))}
}

func numWords(n int) int {
	return (n + wordBits - 1) / wordBits
}

// N returns the number of bits in the field.
func (b *BitField) N() int { return b.n }

// NumWords returns the number of 32-bit words backing the field.
func (b *BitField) NumWords() int { return len(b.words) }

// Resize reallocates the field to n bits, clearing all state. Only ever
// called during a block's init(), never during steady-state execution.
func (b *BitField) Resize(n int) {
	b.n = n
	b.words = make([]uint32, numWords(n))
}

func (b *BitField) checkIndex(i int) {
	if i < 0 || i >= b.n {
		panic("bitfield: index out of range")
	}
}

// SetBit sets bit i. i must be < N(); out of range is a programming error.
func (b *BitField) SetBit(i int) {
	b.checkIndex(i)
	b.words[i/wordBits] |= 1 << uint(i%wordBits)
}

// ClearBit clears bit i.
func (b *BitField) ClearBit(i int) {
	b.checkIndex(i)
	b.words[i/wordBits] &^= 1 << uint(i%wordBits)
}

// ToggleBit flips bit i.
func (b *BitField) ToggleBit(i int) {
	b.checkIndex(i)
	b.words[i/wordBits] ^= 1 << uint(i%wordBits)
}

// GetBit returns whether bit i is set.
func (b *BitField) GetBit(i int) bool {
	b.checkIndex(i)
	return b.words[i/wordBits]&(1<<uint(i%wordBits)) != 0
}

// SetAll activates every bit.
func (b *BitField) SetAll() {
	for i := range b.words {
		b.words[i] = ^uint32(0)
	}
	b.maskTail()
}

// ClearAll clears every bit.
func (b *BitField) ClearAll() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// SetRange activates the half-open range [lo, hi).
func (b *BitField) SetRange(lo, hi int) error {
	if lo < 0 || hi > b.n || lo > hi {
		return gnerr.Shape("bitfield.SetRange: range out of bounds", b.n, [2]int{lo, hi})
	}
	for i := lo; i < hi; i++ {
		b.SetBit(i)
	}
	return nil
}

// SetActs clears the field and activates exactly the given indices.
func (b *BitField) SetActs(acts []uint32) error {
	b.ClearAll()
	for _, a := range acts {
		if int(a) >= b.n {
			return gnerr.Shape("bitfield.SetActs: index out of range", b.n, a)
		}
		b.SetBit(int(a))
	}
	return nil
}

// GetActs returns the sorted ascending list of set-bit indices.
func (b *BitField) GetActs() []uint32 {
	acts := make([]uint32, 0, b.NumSet())
	for i := 0; i < b.n; i++ {
		if b.GetBit(i) {
			acts = append(acts, uint32(i))
		}
	}
	return acts
}

// NumSet returns the population count (number of active bits).
func (b *BitField) NumSet() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount32(w)
	}
	return n
}

// NumSimilar returns the popcount of the bitwise AND of b and other.
func (b *BitField) NumSimilar(other *BitField) (int, error) {
	if other.n != b.n {
		return 0, gnerr.Shape("bitfield.NumSimilar: size mismatch", b.n, other.n)
	}
	n := 0
	for i := range b.words {
		n += bits.OnesCount32(b.words[i] & other.words[i])
	}
	return n, nil
}

// FindNextSet returns the index of the next set bit at or after start,
// wrapping around at n. Returns (0, false) if the field is empty.
func (b *BitField) FindNextSet(start int) (int, bool) {
	if b.n == 0 {
		return 0, false
	}
	start = ((start % b.n) + b.n) % b.n
	for k := 0; k < b.n; k++ {
		i := (start + k) % b.n
		if b.GetBit(i) {
			return i, true
		}
	}
	return 0, false
}

// maskTail zeroes any padding bits in the last word beyond n.
func (b *BitField) maskTail() {
	if len(b.words) == 0 {
		return
	}
	rem := b.n % wordBits
	if rem == 0 {
		return
	}
	mask := uint32(1)<<uint(rem) - 1
	b.words[len(b.words)-1] &= mask
}

// RandomSetNum clears the field and activates exactly k random distinct
// bits, chosen via a Fisher-Yates shuffle over [0, n).
func (b *BitField) RandomSetNum(rng *rand.Rand, k int) error {
	if k < 0 || k > b.n {
		return gnerr.Param("k", "bitfield.RandomSetNum: k out of range", b.n, k)
	}
	idx := make([]int, b.n)
	for i := range idx {
		idx[i] = i
	}
	grand.PermuteInts(idx, rng)
	b.ClearAll()
	for i := 0; i < k; i++ {
		b.SetBit(idx[i])
	}
	return nil
}

// RandomSetPct clears the field and activates floor(p*n) random distinct bits.
func (b *BitField) RandomSetPct(rng *rand.Rand, p float64) error {
	if p < 0 || p > 1 {
		return gnerr.Param("p", "bitfield.RandomSetPct: p out of range", "[0,1]", p)
	}
	k := int(p * float64(b.n))
	return b.RandomSetNum(rng, k)
}

// RandomShuffle re-deals the currently active bits to a new random subset
// of the same size.
func (b *BitField) RandomShuffle(rng *rand.Rand) error {
	return b.RandomSetNum(rng, b.NumSet())
}

// Not flips every bit in place, re-zeroing the padding tail.
func (b *BitField) Not() {
	for i := range b.words {
		b.words[i] = ^b.words[i]
	}
	b.maskTail()
}

// AndInPlace ANDs other into b.
func (b *BitField) AndInPlace(other *BitField) error {
	if other.n != b.n {
		return gnerr.Shape("bitfield.AndInPlace: size mismatch", b.n, other.n)
	}
	for i := range b.words {
		b.words[i] &= other.words[i]
	}
	return nil
}

// OrInPlace ORs other into b.
func (b *BitField) OrInPlace(other *BitField) error {
	if other.n != b.n {
		return gnerr.Shape("bitfield.OrInPlace: size mismatch", b.n, other.n)
	}
	for i := range b.words {
		b.words[i] |= other.words[i]
	}
	return nil
}

// XorInPlace XORs other into b.
func (b *BitField) XorInPlace(other *BitField) error {
	if other.n != b.n {
		return gnerr.Shape("bitfield.XorInPlace: size mismatch", b.n, other.n)
	}
	for i := range b.words {
		b.words[i] ^= other.words[i]
	}
	return nil
}

// Equal reports whether b and other hold identical bits.
func (b *BitField) Equal(other *BitField) (bool, error) {
	if other.n != b.n {
		return false, gnerr.Shape("bitfield.Equal: size mismatch", b.n, other.n)
	}
	for i := range b.words {
		if b.words[i] != other.words[i] {
			return false, nil
		}
	}
	return true, nil
}

// CopyFrom overwrites b's entire contents with src's. Sizes must match.
func (b *BitField) CopyFrom(src *BitField) error {
	if src.n != b.n {
		return gnerr.Shape("bitfield.CopyFrom: size mismatch", b.n, src.n)
	}
	copy(b.words, src.words)
	return nil
}

// CopyWords is the bulk memmove-equivalent used by BlockInput to splice a
// source field's words into a destination field at a word offset.
func CopyWords(dst, src *BitField, dstWordOff, srcWordOff, nWords int) error {
	if dstWordOff < 0 || dstWordOff+nWords > len(dst.words) {
		return gnerr.Shape("bitfield.CopyWords: dst range out of bounds", len(dst.words), dstWordOff+nWords)
	}
	if srcWordOff < 0 || srcWordOff+nWords > len(src.words) {
		return gnerr.Shape("bitfield.CopyWords: src range out of bounds", len(src.words), srcWordOff+nWords)
	}
	copy(dst.words[dstWordOff:dstWordOff+nWords], src.words[srcWordOff:srcWordOff+nWords])
	return nil
}

// Words exposes the backing word slice for packages (block, dendrite) that
// need raw word access without going through bitfield's API on every call.
func (b *BitField) Words() []uint32 { return b.words }
