// Package fuzzy drives randomized end-to-end scenarios against the
// project generation pipeline, with seeded, replayable randomness.
package fuzzy

import (
	"math/rand"
	"time"
)

const letters = "abcdefghijklmnopqrstuvwxyz"

// Randomizer is a seeded decision source. Every randomized choice in a
// scenario is drawn from one Randomizer, so a seed fully determines the
// scenario's parameters. Not safe for sharing across concurrent runs;
// each scenario owns its Randomizer for its lifetime.
type Randomizer struct {
	seed uint64
	rng  *rand.Rand
}

// New returns a Randomizer for an explicit seed. The same seed yields
// the same decision sequence, making failing scenarios replayable.
func New(seed uint64) *Randomizer {
	return &Randomizer{seed: seed, rng: rand.New(rand.NewSource(int64(seed)))}
}

// NewFromTime returns a Randomizer seeded from the wall clock.
func NewFromTime() *Randomizer {
	return New(uint64(time.Now().UnixNano()))
}

// Seed returns the seed this Randomizer was built with, for replay
// instructions in failure output.
func (r *Randomizer) Seed() uint64 {
	return r.seed
}

// Pick returns one element of choices. Panics on an empty slice; the
// candidate sets are compile-time data.
func (r *Randomizer) Pick(choices []string) string {
	return choices[r.rng.Intn(len(choices))]
}

// IntBetween returns a value in [min, max].
func (r *Randomizer) IntBetween(min, max int) int {
	return min + r.rng.Intn(max-min+1)
}

// Word returns a random lowercase identifier of length n.
func (r *Randomizer) Word(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[r.rng.Intn(len(letters))]
	}
	return string(b)
}
