// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package temporal

import "testing"

func TestSequenceLearnerContextPortIsNil(t *testing.T) {
	s, err := NewSequenceLearner("seq", 32, 2, 4, 16, 6, 20, 8, 3, 0.5, 0.3, 2, 1)
	if err != nil {
		t.Fatalf("NewSequenceLearner: %v", err)
	}
	if s.ContextPort() != nil {
		t.Fatalf("ContextPort must be nil: the self-edge is wired internally, not by the network")
	}
}

func TestSequenceLearnerSelfEdgeAfterInit(t *testing.T) {
	s, err := NewSequenceLearner("seq", 32, 2, 4, 16, 6, 20, 8, 3, 0.5, 0.3, 2, 1)
	if err != nil {
		t.Fatalf("NewSequenceLearner: %v", err)
	}
	inSrc := columnSource(t, 32, 0, 1, 2)
	if err := s.InputPort().AddChild(inSrc, 0); err != nil {
		t.Fatalf("AddChild input: %v", err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if s.Output().NumBits() != 64 {
		t.Fatalf("NumBits() = %d, want num_c*num_spc = 64", s.Output().NumBits())
	}
}

func TestSequenceLearnerPredictsRepeatingSequence(t *testing.T) {
	s, err := NewSequenceLearner("seq", 32, 4, 6, 16, 6, 20, 8, 3, 0.5, 0.3, 2, 5)
	if err != nil {
		t.Fatalf("NewSequenceLearner: %v", err)
	}
	step1 := columnSource(t, 32, 0, 1, 2)
	if err := s.InputPort().AddChild(step1, 0); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	pattern := [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}}
	var lastAnomaly float64
	for rep := 0; rep < 30; rep++ {
		for _, acts := range pattern {
			step1.Step()
			for _, a := range acts {
				step1.State().SetBit(a)
			}
			step1.Store()
			if err := s.Execute(true); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			lastAnomaly = s.GetAnomalyScore()
		}
	}
	if lastAnomaly > 0.5 {
		t.Fatalf("after many repetitions of a fixed 3-step sequence, anomaly should be low, got %v", lastAnomaly)
	}
}

func TestSequenceLearnerRejectsBadInputSize(t *testing.T) {
	s, err := NewSequenceLearner("seq", 32, 2, 4, 16, 6, 20, 8, 3, 0.5, 0.3, 2, 1)
	if err != nil {
		t.Fatalf("NewSequenceLearner: %v", err)
	}
	wrong := columnSource(t, 64, 0)
	s.InputPort().AddChild(wrong, 0)
	if err := s.Init(); err == nil {
		t.Fatalf("Init with input size != num_c should error")
	}
}
