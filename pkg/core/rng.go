package core

import (
	"math/rand/v2"
	"time"
)

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	seed int64
	r    *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	g := &RNG{}
	g.Reseed(seed)
	return g
}

// NewTimeRNG seeds from the wall clock. Use NewRNG wherever replay matters.
func NewTimeRNG() *RNG {
	return NewRNG(time.Now().UnixNano())
}

// Reseed restarts the sequence as if the RNG had just been created with seed.
func (g *RNG) Reseed(seed int64) {
	g.seed = seed
	g.r = rand.New(rand.NewPCG(uint64(seed), 0))
}

// Seed reports the seed the current sequence started from.
func (g *RNG) Seed() int64 { return g.seed }

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (g *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.IntN(n)
}
