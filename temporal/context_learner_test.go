// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package temporal

import (
	"testing"

	"github.com/emer/gnomics/block"
)

func columnSource(t *testing.T, numBits int, acts ...int) *block.Output {
	t.Helper()
	o := block.NewOutput()
	if err := o.Setup(2, numBits); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	o.Step()
	for _, a := range acts {
		o.State().SetBit(a)
	}
	o.Store()
	return o
}

func TestContextLearnerRequiresWiredPorts(t *testing.T) {
	c, err := NewContextLearner("ctx", 32, 2, 4, 8, 4, 20, 8, 3, 0.3, 0.5, 2, 1)
	if err != nil {
		t.Fatalf("NewContextLearner: %v", err)
	}
	if err := c.Init(); err == nil {
		t.Fatalf("Init with unwired input/context should error")
	}
}

func TestContextLearnerDisambiguatesByContext(t *testing.T) {
	c, err := NewContextLearner("ctx", 32, 2, 4, 16, 6, 20, 8, 3, 0.5, 0.3, 2, 3)
	if err != nil {
		t.Fatalf("NewContextLearner: %v", err)
	}
	inSrc := columnSource(t, 32, 0, 1)
	ctxA := columnSource(t, 64, 0, 1, 2, 3, 4, 5)
	if err := c.InputPort().AddChild(inSrc, 0); err != nil {
		t.Fatalf("AddChild input: %v", err)
	}
	if err := c.ContextPort().AddChild(ctxA, 0); err != nil {
		t.Fatalf("AddChild context: %v", err)
	}
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	for i := 0; i < 20; i++ {
		if err := c.Execute(true); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}
	if c.GetAnomalyScore() < 0 || c.GetAnomalyScore() > 1 {
		t.Fatalf("anomaly score out of [0,1]: %v", c.GetAnomalyScore())
	}
	if c.GetHistoricalCount() == 0 {
		t.Fatalf("repeated exposure should have assigned at least one dendrite")
	}
}

func TestContextLearnerPermsRoundTrip(t *testing.T) {
	c, err := NewContextLearner("ctx", 32, 2, 2, 8, 4, 20, 8, 3, 0.5, 0.3, 2, 2)
	if err != nil {
		t.Fatalf("NewContextLearner: %v", err)
	}
	in := columnSource(t, 32, 0)
	ctx := columnSource(t, 32, 1)
	c.InputPort().AddChild(in, 0)
	c.ContextPort().AddChild(ctx, 0)
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := c.Execute(true); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	saved := c.Perms()
	if len(saved) == 0 {
		t.Fatalf("Perms() should be nonempty after Init")
	}
	saved[0] = 55
	if err := c.SetPerms(saved); err != nil {
		t.Fatalf("SetPerms: %v", err)
	}
	if c.Perms()[0] != 55 {
		t.Fatalf("SetPerms did not take effect")
	}
}
