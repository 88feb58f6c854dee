// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dendrite

import (
	"math/rand"
	"testing"

	"github.com/emer/gnomics/bitfield"
)

func TestNewDenseShapeAndDeterminism(t *testing.T) {
	rng1 := rand.New(rand.NewSource(7))
	m1, err := NewDense(10, 16, 256, 20, 8, 3, 0.3, 0.5, rng1)
	if err != nil {
		t.Fatalf("NewDense: %v", err)
	}
	if len(m1.Perms()) != 10*16 {
		t.Fatalf("Perms() length = %d, want %d", len(m1.Perms()), 10*16)
	}

	rng2 := rand.New(rand.NewSource(7))
	m2, err := NewDense(10, 16, 256, 20, 8, 3, 0.3, 0.5, rng2)
	if err != nil {
		t.Fatalf("NewDense: %v", err)
	}
	p1, p2 := m1.Perms(), m2.Perms()
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("same seed must produce identical initial permanences at %d", i)
		}
	}
}

func TestNewPooledReceptorCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m, err := NewPooled(4, 100, 20, 8, 3, 0.3, 0.5, 0.2, rng)
	if err != nil {
		t.Fatalf("NewPooled: %v", err)
	}
	if m.R != 20 {
		t.Fatalf("R = %d, want ceil(0.2*100) = 20", m.R)
	}
}

func TestOverlapAndLearn(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m, err := NewDense(1, 8, 32, 20, 10, 5, 1.0, 0.0, rng)
	if err != nil {
		t.Fatalf("NewDense: %v", err)
	}
	input := bitfield.New(32)
	input.SetAll()

	for i := 0; i < 20; i++ {
		if err := m.Learn(0, input); err != nil {
			t.Fatalf("Learn: %v", err)
		}
	}
	ov, err := m.Overlap(0, input)
	if err != nil {
		t.Fatalf("Overlap: %v", err)
	}
	if ov == 0 {
		t.Fatalf("repeated learning against an all-active input should raise overlap above zero, got %d", ov)
	}
}

func TestPunishDecrementsMatchingReceptors(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	m, err := NewDense(1, 8, 16, 20, 8, 3, 1.0, 1.0, rng)
	if err != nil {
		t.Fatalf("NewDense: %v", err)
	}
	input := bitfield.New(16)
	input.SetAll()
	before := append([]uint8(nil), m.Perms()...)
	if err := m.Punish(0, input); err != nil {
		t.Fatalf("Punish: %v", err)
	}
	after := m.Perms()
	decreased := false
	for i := range before {
		if after[i] < before[i] {
			decreased = true
		}
		if after[i] > before[i] {
			t.Fatalf("Punish must never raise a permanence")
		}
	}
	if !decreased {
		t.Fatalf("Punish against an all-active input should decrement at least one receptor")
	}
}

func TestLearnMoveRewiresUnmatchedReceptors(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m, err := NewDense(1, 8, 64, 20, 8, 3, 1.0, 0.5, rng)
	if err != nil {
		t.Fatalf("NewDense: %v", err)
	}
	ctx := bitfield.New(64)
	ctx.SetActs([]uint32{1, 2, 3})
	for i := 0; i < 50; i++ {
		if err := m.LearnMove(0, ctx); err != nil {
			t.Fatalf("LearnMove: %v", err)
		}
	}
	ov, err := m.Overlap(0, ctx)
	if err != nil {
		t.Fatalf("Overlap: %v", err)
	}
	if ov == 0 {
		t.Fatalf("repeated LearnMove toward a fixed small active set should raise overlap, got 0")
	}
}

func TestLearnMoveNoOpOnEmptyInput(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	m, err := NewDense(1, 4, 16, 20, 8, 3, 1.0, 0.5, rng)
	if err != nil {
		t.Fatalf("NewDense: %v", err)
	}
	before := append([]uint8(nil), m.Perms()...)
	empty := bitfield.New(16)
	if err := m.LearnMove(0, empty); err != nil {
		t.Fatalf("LearnMove: %v", err)
	}
	after := m.Perms()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("LearnMove against an empty input must be a no-op for unmatched receptors")
		}
	}
}

func TestMarkInUseAndHistoricalCount(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	m, err := NewDense(5, 4, 16, 20, 8, 3, 0.3, 0.5, rng)
	if err != nil {
		t.Fatalf("NewDense: %v", err)
	}
	if m.HistoricalCount() != 0 {
		t.Fatalf("HistoricalCount() should start at 0")
	}
	m.MarkInUse(2)
	m.MarkInUse(4)
	if m.HistoricalCount() != 2 {
		t.Fatalf("HistoricalCount() = %d, want 2", m.HistoricalCount())
	}
	inUse, err := m.IsInUse(2)
	if err != nil || !inUse {
		t.Fatalf("IsInUse(2) = (%v,%v), want (true,nil)", inUse, err)
	}
	inUse, err = m.IsInUse(0)
	if err != nil || inUse {
		t.Fatalf("IsInUse(0) = (%v,%v), want (false,nil)", inUse, err)
	}
}

func TestPermsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	m, err := NewDense(3, 4, 16, 20, 8, 3, 0.3, 0.5, rng)
	if err != nil {
		t.Fatalf("NewDense: %v", err)
	}
	saved := m.Perms()
	saved[0] = 99
	if err := m.SetPerms(saved); err != nil {
		t.Fatalf("SetPerms: %v", err)
	}
	if m.Perms()[0] != 99 {
		t.Fatalf("SetPerms did not restore the permanence array")
	}
	if err := m.SetPerms(saved[:len(saved)-1]); err == nil {
		t.Fatalf("SetPerms with wrong length should error")
	}
}

func TestPermanenceClampedRange(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	m, err := NewDense(1, 4, 8, 50, 200, 200, 1.0, 1.0, rng)
	if err != nil {
		t.Fatalf("NewDense: %v", err)
	}
	input := bitfield.New(8)
	input.SetAll()
	for i := 0; i < 5; i++ {
		m.Learn(0, input)
	}
	for _, p := range m.Perms() {
		if p > 99 {
			t.Fatalf("permanence %d exceeds max of 99", p)
		}
	}
	empty := bitfield.New(8)
	for i := 0; i < 5; i++ {
		m.Learn(0, empty)
	}
	for _, p := range m.Perms() {
		if p < 0 {
			t.Fatalf("permanence underflowed below 0")
		}
	}
}
