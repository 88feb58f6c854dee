// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package gnomics is the overall repository for the sparse distributed
representation (SDR) execution core implemented in the Go language.

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* bitfield: the packed binary-vector primitive every block's inputs and
outputs are built from.

* block: the BlockOutput/BlockInput history-ring machinery and the Block
interface every execution unit implements.

* dendrite: the permanence-based Hebbian memory (DendriteMemory) shared by
every learning block.

* encoders: the three input encoders -- ScalarEncoder, DiscreteEncoder,
PersistenceEncoder.

* poolers: the two winner-take-all blocks -- PatternPooler and
PatternClassifier.

* temporal: the two column x statelet x dendrite predictors -- ContextLearner
and SequenceLearner.

* network: the directed graph of blocks, topological execution order, and
the single Execute(learn) entry point.

* gnet/config: the save/load configuration document used to reconstruct a
Network from disk.

* cmd/gnomicsbench: a runnable benchmark for exercising pipeline sizes.
*/
package gnomics
