// Package rng provides deterministic, thread-local random streams,
// grounded on mad-ca's pkg/core/rng.go wrapper around math/rand/v2's PCG
// source. Every stochastic step in the simulator (random force, division
// angle, secretion Bernoulli trial, secretion placement angle) draws from
// a Stream, and the same (root seed, tick, index) always yields the same
// draws. A whole run is reproducible only with one worker: with more,
// the order in which divisions and secretions are merged into the
// population follows goroutine scheduling, which changes the index each
// particle is drawn under on later ticks.
package rng

import "math/rand/v2"

// Stream is a single worker's PRNG. Not safe for concurrent use; callers
// hold one Stream per worker.
type Stream struct {
	r *rand.Rand
}

// New creates a Stream seeded deterministically from a root seed, the
// current tick number, and a worker identifier, per spec.md §5's
// "thread-local PRNG seeded deterministically from a root seed and the
// worker identifier" requirement.
func New(rootSeed int64, tick, worker int) *Stream {
	s1, s2 := splitSeed(rootSeed, tick, worker)
	return &Stream{r: rand.New(rand.NewPCG(s1, s2))}
}

// splitSeed mixes the root seed with the tick and worker id using a
// fixed-width multiplicative hash (splitmix64-style) so nearby
// (tick, worker) pairs do not produce correlated PCG streams.
func splitSeed(rootSeed int64, tick, worker int) (uint64, uint64) {
	mix := func(x uint64) uint64 {
		x ^= x >> 33
		x *= 0xff51afd7ed558ccd
		x ^= x >> 33
		x *= 0xc4ceb9fe1a85ec53
		x ^= x >> 33
		return x
	}
	base := uint64(rootSeed)
	a := mix(base ^ uint64(tick)*0x9E3779B97F4A7C15)
	b := mix(a ^ uint64(worker)*0xBF58476D1CE4E5B9)
	return a, b
}

// Float64 returns a uniform draw in [0,1).
func (s *Stream) Float64() float64 {
	return s.r.Float64()
}

// Uniform returns a uniform draw in [lo, hi).
func (s *Stream) Uniform(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

// Bernoulli returns true with probability p (clamped to [0,1]).
func (s *Stream) Bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.r.Float64() < p
}
