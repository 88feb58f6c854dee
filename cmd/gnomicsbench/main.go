// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// gnomicsbench runs a scalar encoder -> pattern pooler -> sequence learner
// pipeline for a configurable number of steps, reporting memory usage and
// anomaly score, for benchmarking different pipeline sizes.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"cogentcore.org/core/base/timer"
	"github.com/c2h5oh/datasize"

	"github.com/emer/gnomics/encoders"
	"github.com/emer/gnomics/network"
	"github.com/emer/gnomics/poolers"
	"github.com/emer/gnomics/temporal"
)

var silent = false

func buildPipeline(numS, numAs int) (*network.Network, network.Handle, network.Handle, network.Handle, error) {
	net := network.New()

	scalar, err := encoders.NewScalar("scalar", 0, 1, numS, numAs, 2, 1)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	pooler, err := poolers.NewPatternPooler("pooler", numS, numAs, 20, 8, 3, 0.8, 0.5, 0.3, false, 2, 2)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	seq, err := temporal.NewSequenceLearner("sequence", numS, 4, 8, 32, 20, 20, 8, 3, 0.3, 0.5, 2, 3)
	if err != nil {
		return nil, 0, 0, 0, err
	}

	hScalar := net.Add(scalar)
	hPooler := net.Add(pooler)
	hSeq := net.Add(seq)

	if err := net.ConnectInput(hScalar, hPooler, 0); err != nil {
		return nil, 0, 0, 0, err
	}
	if err := net.ConnectInput(hPooler, hSeq, 0); err != nil {
		return nil, 0, 0, 0, err
	}
	if err := net.Build(); err != nil {
		return nil, 0, 0, 0, err
	}
	return net, hScalar, hPooler, hSeq, nil
}

func runSteps(net *network.Network, hScalar network.Handle, steps int) error {
	for i := 0; i < steps; i++ {
		b, err := net.Block(hScalar)
		if err != nil {
			return err
		}
		s, ok := b.(*encoders.Scalar)
		if !ok {
			return fmt.Errorf("gnomicsbench: scalar handle did not resolve to *encoders.Scalar")
		}
		v := 0.5 + 0.5*math.Sin(float64(i)*0.1)
		s.SetValue(v)
		if err := net.Execute(true); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	var numS, numAs, steps int

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.IntVar(&numS, "num_s", 1024, "pooler output size")
	flag.IntVar(&numAs, "num_as", 128, "pooler active bits")
	flag.IntVar(&steps, "steps", 500, "number of steps to run")
	flag.BoolVar(&silent, "silent", false, "only report the final time")
	flag.Parse()

	if !silent {
		fmt.Printf("Running gnomicsbench with: num_s=%v num_as=%v steps=%v\n", numS, numAs, steps)
	}

	net, hScalar, _, hSeq, err := buildPipeline(numS, numAs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	tmr := timer.Time{}
	tmr.Start()
	if err := runSteps(net, hScalar, steps); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	tmr.Stop()

	seq, err := network.As[*temporal.SequenceLearner](net, hSeq)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	mem := datasize.ByteSize(net.MemoryUsage())
	if silent {
		fmt.Printf("%v\n", tmr.Total)
		return
	}
	fmt.Printf("Took %v for %v steps\n", tmr.Total, steps)
	fmt.Printf("Final anomaly score: %.4f\n", seq.GetAnomalyScore())
	fmt.Printf("Historical dendrite count: %v\n", seq.GetHistoricalCount())
	fmt.Printf("Network memory usage: %v\n", mem.HumanReadable())
}
