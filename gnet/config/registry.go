// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"github.com/emer/gnomics/block"
	"github.com/emer/gnomics/encoders"
	"github.com/emer/gnomics/poolers"
	"github.com/emer/gnomics/temporal"
)

// BuilderFunc constructs a block from its parameter record.
type BuilderFunc func(rec BlockRecord) (block.Block, error)

var registry = map[string]BuilderFunc{
	"ScalarEncoder":      buildScalar,
	"DiscreteEncoder":    buildDiscrete,
	"PersistenceEncoder": buildPersistence,
	"PatternPooler":      buildPooler,
	"PatternClassifier":  buildClassifier,
	"ContextLearner":     buildContextLearner,
	"SequenceLearner":    buildSequenceLearner,
}

// Register adds (or overrides) a block kind's builder, for collaborators
// extending the block taxonomy.
func Register(kind string, fn BuilderFunc) { registry[kind] = fn }

func pInt(p map[string]any, key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	}
	return def
}

func pU8(p map[string]any, key string, def uint8) uint8 {
	return uint8(pInt(p, key, int(def)))
}

func pU32(p map[string]any, key string, def uint32) uint32 {
	return uint32(pInt(p, key, int(def)))
}

func pF64(p map[string]any, key string, def float64) float64 {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	}
	return def
}

func pBool(p map[string]any, key string, def bool) bool {
	v, ok := p[key]
	if !ok {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

func pInt64(p map[string]any, key string, def int64) int64 {
	return int64(pInt(p, key, int(def)))
}

func buildScalar(rec BlockRecord) (block.Block, error) {
	return encoders.NewScalar(rec.Name,
		pF64(rec.Params, "min", 0), pF64(rec.Params, "max", 1),
		pInt(rec.Params, "num_s", 1024), pInt(rec.Params, "num_as", 128),
		pInt(rec.Params, "num_t", 2), pInt64(rec.Params, "seed", 0))
}

func buildDiscrete(rec BlockRecord) (block.Block, error) {
	return encoders.NewDiscrete(rec.Name,
		pInt(rec.Params, "num_v", 2), pInt(rec.Params, "num_s", 1024),
		pInt(rec.Params, "num_t", 2), pInt64(rec.Params, "seed", 0))
}

func buildPersistence(rec BlockRecord) (block.Block, error) {
	return encoders.NewPersistence(rec.Name,
		pF64(rec.Params, "min", 0), pF64(rec.Params, "max", 1),
		pInt(rec.Params, "num_s", 1024), pInt(rec.Params, "num_as", 128),
		pF64(rec.Params, "theta", 0.1),
		pInt(rec.Params, "num_t", 2), pInt64(rec.Params, "seed", 0))
}

func buildPooler(rec BlockRecord) (block.Block, error) {
	return poolers.NewPatternPooler(rec.Name,
		pInt(rec.Params, "num_s", 512), pInt(rec.Params, "num_as", 32),
		pU8(rec.Params, "perm_thresh", 20), pU8(rec.Params, "perm_incr", 8), pU8(rec.Params, "perm_decr", 3),
		pF64(rec.Params, "pct_pool", 0.8), pF64(rec.Params, "pct_conn", 0.5), pF64(rec.Params, "pct_learn", 0.3),
		pBool(rec.Params, "always_update", false),
		pInt(rec.Params, "num_t", 2), pInt64(rec.Params, "seed", 0))
}

func buildClassifier(rec BlockRecord) (block.Block, error) {
	return poolers.NewPatternClassifier(rec.Name,
		pInt(rec.Params, "num_s", 512), pInt(rec.Params, "num_as", 32), pInt(rec.Params, "num_l", 4),
		pU8(rec.Params, "perm_thresh", 20), pU8(rec.Params, "perm_incr", 8), pU8(rec.Params, "perm_decr", 3),
		pF64(rec.Params, "pct_pool", 0.8), pF64(rec.Params, "pct_conn", 0.5), pF64(rec.Params, "pct_learn", 0.3),
		pInt(rec.Params, "num_t", 2), pInt64(rec.Params, "seed", 0))
}

func buildContextLearner(rec BlockRecord) (block.Block, error) {
	return temporal.NewContextLearner(rec.Name,
		pInt(rec.Params, "num_c", 512), pInt(rec.Params, "num_spc", 4),
		pInt(rec.Params, "num_dps", 8), pInt(rec.Params, "num_rpd", 32),
		pU32(rec.Params, "d_thresh", 20),
		pU8(rec.Params, "perm_thresh", 20), pU8(rec.Params, "perm_incr", 8), pU8(rec.Params, "perm_decr", 3),
		pF64(rec.Params, "learn_frac", 0.3), pF64(rec.Params, "pct_conn", 0.5),
		pInt(rec.Params, "num_t", 2), pInt64(rec.Params, "seed", 0))
}

func buildSequenceLearner(rec BlockRecord) (block.Block, error) {
	return temporal.NewSequenceLearner(rec.Name,
		pInt(rec.Params, "num_c", 512), pInt(rec.Params, "num_spc", 4),
		pInt(rec.Params, "num_dps", 8), pInt(rec.Params, "num_rpd", 32),
		pU32(rec.Params, "d_thresh", 20),
		pU8(rec.Params, "perm_thresh", 20), pU8(rec.Params, "perm_incr", 8), pU8(rec.Params, "perm_decr", 3),
		pF64(rec.Params, "learn_frac", 0.3), pF64(rec.Params, "pct_conn", 0.5),
		pInt(rec.Params, "num_t", 2), pInt64(rec.Params, "seed", 0))
}
