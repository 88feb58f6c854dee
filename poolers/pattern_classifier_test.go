// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package poolers

import (
	"testing"
)

func TestPatternClassifierGroupPartitioning(t *testing.T) {
	c, err := NewPatternClassifier("classifier", 64, 8, 4, 20, 8, 3, 0.8, 0.5, 0.3, 2, 1)
	if err != nil {
		t.Fatalf("NewPatternClassifier: %v", err)
	}
	src := sourceWithActs(t, 32, 0, 1, 2, 3)
	wireInput(t, src, c.InputPort(), 0)
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := c.SetLabel(1); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}
	if err := c.Execute(true); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if c.Output().State().NumSet() != 8 {
		t.Fatalf("NumSet() = %d, want num_as=8 (2 winners per of 4 groups)", c.Output().State().NumSet())
	}
}

func TestPatternClassifierRejectsBadParams(t *testing.T) {
	if _, err := NewPatternClassifier("c", 10, 4, 3, 20, 8, 3, 0.8, 0.5, 0.3, 2, 1); err == nil {
		t.Fatalf("num_s not divisible by num_l should error")
	}
	if _, err := NewPatternClassifier("c", 12, 5, 3, 20, 8, 3, 0.8, 0.5, 0.3, 2, 1); err == nil {
		t.Fatalf("num_as not divisible by num_l should error")
	}
}

func TestPatternClassifierConvergesAfterTraining(t *testing.T) {
	c, err := NewPatternClassifier("classifier", 80, 20, 4, 20, 10, 5, 0.8, 0.5, 0.4, 2, 7)
	if err != nil {
		t.Fatalf("NewPatternClassifier: %v", err)
	}
	// a single fixed input pattern: training it against label 0 should
	// raise label 0's group overlap (learn) while the other three groups
	// are punished, so get_probabilities ends up favoring label 0.
	pat := sourceWithActs(t, 64, 0, 1, 2, 3, 4, 5, 6, 7)

	in := c.InputPort()
	in.AddChild(pat, 0)
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	train := func(label int, steps int) {
		c.SetLabel(label)
		for i := 0; i < steps; i++ {
			if err := c.Execute(true); err != nil {
				t.Fatalf("Execute: %v", err)
			}
		}
	}
	train(0, 200)
	probs, err := c.GetProbabilities()
	if err != nil {
		t.Fatalf("GetProbabilities: %v", err)
	}
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	if best != 0 {
		t.Fatalf("after 200 training steps on label 0, GetProbabilities should favor label 0, got best=%d (%v)", best, probs)
	}
}
