// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import "testing"

func TestOutputSetupAndStep(t *testing.T) {
	o := NewOutput()
	if err := o.Setup(3, 64); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if o.NumBits() != 64 {
		t.Fatalf("NumBits() = %d, want 64", o.NumBits())
	}
	if err := o.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	o.State().SetBit(1)
	if err := o.Store(); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !o.HasChanged() {
		t.Fatalf("first Store after Setup must report changed")
	}
}

func TestOutputSetupRejectsSmallNumT(t *testing.T) {
	o := NewOutput()
	if err := o.Setup(1, 32); err == nil {
		t.Fatalf("Setup with num_t < 2 should error")
	}
}

func TestOutputChangedFlagTracking(t *testing.T) {
	o := NewOutput()
	o.Setup(4, 32)

	o.Step()
	o.State().SetBit(0)
	o.Store()
	if !o.HasChanged() {
		t.Fatalf("first store should report changed")
	}

	o.Step()
	o.State().SetBit(0)
	o.Store()
	if o.HasChanged() {
		t.Fatalf("identical state should report unchanged")
	}

	o.Step()
	o.State().SetBit(1)
	o.Store()
	if !o.HasChanged() {
		t.Fatalf("different state should report changed")
	}
}

func TestOutputGetTimeOffsets(t *testing.T) {
	o := NewOutput()
	o.Setup(3, 32)

	for i := 0; i < 3; i++ {
		o.Step()
		o.State().SetBit(i)
		o.Store()
	}
	// history now holds (in insertion order) states with bits 0, 1, 2 set.
	cur, err := o.Get(0)
	if err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	if !cur.GetBit(2) {
		t.Fatalf("Get(0) should be the most recent store (bit 2)")
	}
	prev, err := o.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	if !prev.GetBit(1) {
		t.Fatalf("Get(1) should be one step back (bit 1)")
	}
	if _, err := o.Get(3); err == nil {
		t.Fatalf("Get(num_t) should error")
	}
}

func TestOutputClear(t *testing.T) {
	o := NewOutput()
	o.Setup(2, 16)
	o.Step()
	o.State().SetBit(0)
	o.Store()
	o.Clear()
	if o.HasChanged() {
		t.Fatalf("Clear should reset changed flag")
	}
	cur, _ := o.Get(0)
	if cur.NumSet() != 0 {
		t.Fatalf("Clear should zero history")
	}
}

func TestOutputMemoryUsage(t *testing.T) {
	o := NewOutput()
	if o.MemoryUsage() != 0 {
		t.Fatalf("unsized Output should report zero memory usage")
	}
	o.Setup(2, 64)
	if o.MemoryUsage() == 0 {
		t.Fatalf("sized Output should report nonzero memory usage")
	}
}
