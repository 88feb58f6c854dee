// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grand provides the seeded, per-instance random number helpers
// used throughout gnomics. It is grounded on emer-emergent's erand package
// (PermuteInts's Fisher-Yates shuffle, BoolP's probability coin-flip) but,
// unlike erand, never touches the global math/rand source: every block
// owns its construction seed (spec §9) and two blocks built with the same
// seed and the same construction order must produce bit-identical streams,
// which a shared global generator cannot guarantee.
package grand

import "math/rand"

// New returns a new independent generator seeded with seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// PermuteInts shuffles ins in place using the Fisher-Yates algorithm,
// driven by rng instead of the global source.
// https://en.wikipedia.org/wiki/Fisher%E2%80%93Yates_shuffle
func PermuteInts(ins []int, rng *rand.Rand) {
	rng.Shuffle(len(ins), func(i, j int) {
		ins[i], ins[j] = ins[j], ins[i]
	})
}

// PermuteU32s shuffles ins in place using the Fisher-Yates algorithm.
func PermuteU32s(ins []uint32, rng *rand.Rand) {
	rng.Shuffle(len(ins), func(i, j int) {
		ins[i], ins[j] = ins[j], ins[i]
	})
}

// BoolP returns true with probability p, false otherwise.
func BoolP(p float64, rng *rand.Rand) bool {
	return rng.Float64() < p
}

// IntN returns a random integer in [0, n). Panics if n <= 0, same as rand.Rand.Intn.
func IntN(n int, rng *rand.Rand) int {
	return rng.Intn(n)
}
