// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encoders

import "testing"

func TestDiscreteDisjointCategories(t *testing.T) {
	d, err := NewDiscrete("discrete", 4, 16, 2, 1)
	if err != nil {
		t.Fatalf("NewDiscrete: %v", err)
	}
	if err := d.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	seen := map[int]bool{}
	for cat := 0; cat < 4; cat++ {
		d.SetValue(cat)
		if err := d.Execute(false); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		acts := d.Output().State().GetActs()
		if len(acts) != 4 {
			t.Fatalf("category %d: width = %d, want 4", cat, len(acts))
		}
		for _, a := range acts {
			if seen[int(a)] {
				t.Fatalf("bit %d reused across categories, categories must be disjoint", a)
			}
			seen[int(a)] = true
		}
	}
}

func TestDiscreteClamping(t *testing.T) {
	d, _ := NewDiscrete("discrete", 4, 16, 2, 1)
	d.Init()
	d.SetValue(-1)
	d.Execute(false)
	if !d.WasClamped() {
		t.Fatalf("negative value should report clamped")
	}
	d.SetValue(99)
	d.Execute(false)
	if !d.WasClamped() {
		t.Fatalf("value >= num_v should report clamped")
	}
	if d.Output().State().NumSet() != 4 {
		t.Fatalf("clamped category should still activate a full window")
	}
}

func TestDiscreteRejectsNonMultiple(t *testing.T) {
	if _, err := NewDiscrete("d", 3, 10, 2, 1); err == nil {
		t.Fatalf("num_s not a multiple of num_v should error")
	}
}
