// Package dice provides the injected randomness source for roll-based
// conditions and effects. Rolls are reproducible: the RNG carries its seed
// and call position so a restored session replays the same sequence.
package dice

import "math/rand"

// Roller is the randomness dependency taken by the condition evaluator and
// effect processor. IntN returns a value in [0, n).
type Roller interface {
	IntN(n int) int
}

// RNG is a seeded Roller with deterministic position tracking.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// New creates a seeded RNG.
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// IntN returns a random value in [0, n). n <= 0 returns 0.
// Each call consumes exactly one source draw, so a saved position can
// replay the generator to the same state.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	r.pos++
	return int(r.src.Int63() % int64(n))
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Restore creates an RNG and advances it to the given position, reproducing
// the exact generator state captured by a save.
func Restore(seed int64, position int64) *RNG {
	rng := New(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	rng.pos = position
	return rng
}

// RangeRoll returns a roll in [min, max] inclusive from any Roller. A
// degenerate range returns min.
func RangeRoll(r Roller, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.IntN(max-min+1)
}
