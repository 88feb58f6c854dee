// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package network implements the directed graph of blocks: registration
// by handle, wiring of input/context ports, a cached topological
// execution order, and the single Execute(learn) entry point that drives
// every block through its step/pull/compute/store/learn cycle in order.
package network

import (
	"fmt"

	"github.com/emer/gnomics/block"
	"github.com/emer/gnomics/gnerr"
)

// Handle is an opaque, dense, small-integer reference to a registered block.
type Handle int

type edge struct {
	source, target Handle
	offset         int
	port           func(block.Block) *block.Input
}

// Network owns a dense collection of blocks keyed by Handle, and computes
// the single execution order every Execute(learn) call replays.
type Network struct {
	blocks []block.Block
	edges  []edge
	order  []Handle
	built  bool
}

// New returns an empty network.
func New() *Network {
	return &Network{}
}

// Add registers a block and returns its handle.
func (n *Network) Add(b block.Block) Handle {
	n.blocks = append(n.blocks, b)
	n.built = false
	return Handle(len(n.blocks) - 1)
}

// Block returns the registered block at h, or a ShapeError if h is invalid.
func (n *Network) Block(h Handle) (block.Block, error) {
	if int(h) < 0 || int(h) >= len(n.blocks) {
		return nil, gnerr.Shape("network.Block: invalid handle", len(n.blocks), int(h)).WithHandle(int(h))
	}
	return n.blocks[h], nil
}

// As type-asserts the block at h to the concrete type T, the network's
// typed handle accessor (spec §6): callers use network.As[*encoders.Scalar](n, h)
// to reach encoder/classifier/temporal-learner-specific methods.
func As[T block.Block](n *Network, h Handle) (T, error) {
	var zero T
	b, err := n.Block(h)
	if err != nil {
		return zero, err
	}
	t, ok := b.(T)
	if !ok {
		return zero, gnerr.Shape("network.As: handle is not of the requested type",
			fmt.Sprintf("%T", zero), fmt.Sprintf("%T", b)).WithHandle(int(h))
	}
	return t, nil
}

// BlockIDs returns every registered handle, in registration order.
func (n *Network) BlockIDs() []Handle {
	ids := make([]Handle, len(n.blocks))
	for i := range ids {
		ids[i] = Handle(i)
	}
	return ids
}

// ConnectInput wires source's output, at the given time offset, as the
// next child of target's input port.
func (n *Network) ConnectInput(source, target Handle, offset int) error {
	return n.connect(source, target, offset, func(b block.Block) *block.Input { return b.InputPort() })
}

// ConnectContext wires source's output, at the given time offset, as the
// next child of target's context port.
func (n *Network) ConnectContext(source, target Handle, offset int) error {
	return n.connect(source, target, offset, func(b block.Block) *block.Input { return b.ContextPort() })
}

// connect records the edge but does not wire the port yet: the source
// block's Output is not sized until the source itself has been Init'd, so
// the actual AddChild call is deferred to Build, which visits blocks in
// topological order (source before target) and wires each target's ports
// immediately before initializing it.
func (n *Network) connect(source, target Handle, offset int, port func(block.Block) *block.Input) error {
	if _, err := n.Block(source); err != nil {
		return err
	}
	tb, err := n.Block(target)
	if err != nil {
		return err
	}
	if port(tb) == nil {
		return gnerr.Shape("network.connect: target block has no such port", nil, tb.Label()).WithHandle(int(target))
	}
	n.edges = append(n.edges, edge{source: source, target: target, offset: offset, port: port})
	n.built = false
	return nil
}

// Build computes the topological execution order, then visits blocks in
// that order: for each block, every incoming edge is wired into the
// target's port (the source, appearing earlier in the order, is already
// Init'd and its Output sized) before the target's own Init runs. The
// implicit self-edge a SequenceLearner wires to its own output is never
// registered as a graph edge (it is installed directly on the block's own
// context port during its Init), so it is trivially excluded from the
// sort; any other cycle is reported as a TopologyError.
func (n *Network) Build() error {
	order, err := n.topoSort()
	if err != nil {
		return err
	}
	for _, h := range order {
		for _, e := range n.edges {
			if e.target != h {
				continue
			}
			sb := n.blocks[e.source]
			tb := n.blocks[e.target]
			if err := e.port(tb).AddChild(sb.Output(), e.offset); err != nil {
				if ge, ok := err.(*gnerr.Error); ok {
					return ge.WithHandle(int(h))
				}
				return err
			}
		}
		b := n.blocks[h]
		if err := b.Init(); err != nil {
			if ge, ok := err.(*gnerr.Error); ok {
				return ge.WithHandle(int(h))
			}
			return fmt.Errorf("network.Build: block %d (%s): %w", h, b.Label(), err)
		}
	}
	n.order = order
	n.built = true
	return nil
}

func (n *Network) topoSort() ([]Handle, error) {
	numB := len(n.blocks)
	inDeg := make([]int, numB)
	adj := make([][]Handle, numB)
	for _, e := range n.edges {
		adj[e.source] = append(adj[e.source], e.target)
		inDeg[e.target]++
	}
	queue := make([]Handle, 0, numB)
	for h := 0; h < numB; h++ {
		if inDeg[h] == 0 {
			queue = append(queue, Handle(h))
		}
	}
	order := make([]Handle, 0, numB)
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		order = append(order, h)
		for _, t := range adj[h] {
			inDeg[t]--
			if inDeg[t] == 0 {
				queue = append(queue, t)
			}
		}
	}
	if len(order) != numB {
		return nil, gnerr.Topology("network.Build: cycle detected that is not a SequenceLearner self-edge")
	}
	return order, nil
}

// Execute drives every block through step/pull/compute/store, and learn
// if learn is true, in the cached topological order. The first block
// error short-circuits the remaining blocks and is returned tagged with
// the offending handle.
func (n *Network) Execute(learn bool) error {
	if !n.built {
		return gnerr.Order("network.Execute: called before Build")
	}
	for _, h := range n.order {
		b := n.blocks[h]
		if err := b.Execute(learn); err != nil {
			if ge, ok := err.(*gnerr.Error); ok {
				return ge.WithHandle(int(h))
			}
			return fmt.Errorf("network.Execute: block %d (%s): %w", h, b.Label(), err)
		}
	}
	return nil
}

// MemoryUsage sums every block's MemoryUsage.
func (n *Network) MemoryUsage() uint64 {
	var total uint64
	for _, b := range n.blocks {
		total += b.MemoryUsage()
	}
	return total
}

// BlockStats is a snapshot of a block's anomaly score and/or label
// probabilities; both are left empty for blocks that expose neither.
type BlockStats struct {
	Handle        Handle
	Label         string
	Anomaly       *float64
	Probabilities []float64
}

// Stats returns a BlockStats snapshot for every registered block, filling
// Anomaly and Probabilities only for blocks that implement GetAnomalyScore
// and/or GetProbabilities, letting a CLI print a whole pipeline's state
// without reaching into every handle individually.
func (n *Network) Stats() []BlockStats {
	out := make([]BlockStats, 0, len(n.blocks))
	for h, b := range n.blocks {
		st := BlockStats{Handle: Handle(h), Label: b.Label()}
		if a, ok := b.(interface{ GetAnomalyScore() float64 }); ok {
			v := a.GetAnomalyScore()
			st.Anomaly = &v
		}
		if p, ok := b.(interface{ GetProbabilities() ([]float64, error) }); ok {
			if probs, err := p.GetProbabilities(); err == nil {
				st.Probabilities = probs
			}
		}
		out = append(out, st)
	}
	return out
}
