// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config implements the save/load configuration document
// described in spec §6: a versioned header, an ordered list of block
// records (order defines handles), a list of connection records, optional
// learned-state records, and free-form metadata. It is kept separate from
// the network package so that the execution core stays free of I/O,
// mirroring how the teacher framework keeps weight/param save-load
// helpers (weights, econfig) out of its core leabra package.
package config

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/emer/gnomics/gnerr"
	"github.com/emer/gnomics/network"
)

// Port names which port of a target block a Connection wires into.
type Port string

const (
	PortInput   Port = "input"
	PortContext Port = "context"
)

// BlockRecord names one registered block; its position in Document.Blocks
// defines its handle.
type BlockRecord struct {
	Name   string         `yaml:"name"`
	Kind   string         `yaml:"kind"`
	Params map[string]any `yaml:"params"`
}

// ConnectionRecord wires SourceIndex's output into TargetIndex's named port.
type ConnectionRecord struct {
	SourceIndex int  `yaml:"source_index"`
	TargetIndex int  `yaml:"target_index"`
	Port        Port `yaml:"port"`
	TimeOffset  int  `yaml:"time_offset"`
}

// LearnedState carries one learning block's full permanence array.
type LearnedState struct {
	BlockIndex int     `yaml:"block_index"`
	Perms      []uint8 `yaml:"perms"`
}

// Document is the complete on-disk configuration document.
type Document struct {
	Version     int               `yaml:"version"`
	Blocks      []BlockRecord     `yaml:"blocks"`
	Connections []ConnectionRecord `yaml:"connections"`
	Learned     []LearnedState    `yaml:"learned,omitempty"`
	Meta        map[string]string `yaml:"meta,omitempty"`
}

// CurrentVersion is the document version this package produces. Save
// writes doc.Version as the caller set it, and Load does not check it.
const CurrentVersion = 1

// Save encodes doc as YAML to w.
func Save(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(doc)
}

// Load decodes a Document from r.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// permsSetter is implemented by every learning block (PatternPooler,
// PatternClassifier, ContextLearner, SequenceLearner).
type permsSetter interface {
	SetPerms([]uint8) error
}

type permsGetter interface {
	Perms() []uint8
}

// Build reconstructs a Network from doc: registers every block via the
// kind registry, wires every connection, calls Build, and finally
// restores any learned permanence state. The round-trip contract (spec
// §6, §8 property 10) requires this order: reinitialize first (Build),
// then restore permanences, so that a subsequent Execute continues
// exactly where the saved network left off.
func Build(doc *Document) (*network.Network, error) {
	net := network.New()
	handles := make([]network.Handle, len(doc.Blocks))
	for i, rec := range doc.Blocks {
		fn, ok := registry[rec.Kind]
		if !ok {
			return nil, gnerr.Param("kind", "config.Build: unknown block kind", nil, rec.Kind)
		}
		b, err := fn(rec)
		if err != nil {
			return nil, err
		}
		handles[i] = net.Add(b)
	}
	for _, c := range doc.Connections {
		if c.SourceIndex < 0 || c.SourceIndex >= len(handles) || c.TargetIndex < 0 || c.TargetIndex >= len(handles) {
			return nil, gnerr.Shape("config.Build: connection index out of range", len(handles), [2]int{c.SourceIndex, c.TargetIndex})
		}
		src, tgt := handles[c.SourceIndex], handles[c.TargetIndex]
		var err error
		if c.Port == PortContext {
			err = net.ConnectContext(src, tgt, c.TimeOffset)
		} else {
			err = net.ConnectInput(src, tgt, c.TimeOffset)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := net.Build(); err != nil {
		return nil, err
	}
	for _, ls := range doc.Learned {
		if ls.BlockIndex < 0 || ls.BlockIndex >= len(handles) {
			return nil, gnerr.Shape("config.Build: learned-state index out of range", len(handles), ls.BlockIndex)
		}
		b, err := net.Block(handles[ls.BlockIndex])
		if err != nil {
			return nil, err
		}
		setter, ok := b.(permsSetter)
		if !ok {
			return nil, gnerr.State("config.Build: block does not support permanence restore", nil, b.Label())
		}
		if err := setter.SetPerms(ls.Perms); err != nil {
			return nil, err
		}
	}
	return net, nil
}

// Snapshot builds a Document's Learned section from a live network's
// blocks, given their original block-record indices.
func Snapshot(doc *Document, net *network.Network) error {
	doc.Learned = doc.Learned[:0]
	for i := range doc.Blocks {
		b, err := net.Block(network.Handle(i))
		if err != nil {
			return err
		}
		getter, ok := b.(permsGetter)
		if !ok {
			continue
		}
		doc.Learned = append(doc.Learned, LearnedState{BlockIndex: i, Perms: getter.Perms()})
	}
	return nil
}
