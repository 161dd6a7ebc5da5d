package opt

import "math/rand"

// defaultSeed backs NewRand(0) so a zero seed stays reproducible.
const defaultSeed int64 = 1

// NewRand returns a deterministic generator for seed. Seed 0 maps to defaultSeed.
// The result is not safe for concurrent use; give each optimization its own.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(seed))
}
