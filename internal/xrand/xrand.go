// Package xrand provides the single process-wide random stream used by
// every search method. The spec (§5) requires all searches to be
// deterministic given (seed, deadline, move order); that determinism only
// holds if every consumer draws from the same *rand.Rand in a fixed order,
// so this package hands out one shared stream rather than letting each
// method seed its own.
package xrand

import "math/rand"

// New returns a process-wide random stream seeded once from seed. Callers
// thread the returned *rand.Rand through every constructor that needs
// randomness (initializers, local searches, MCTS simulation) instead of
// reaching for the global math/rand functions, which are not guaranteed to
// be reproducible across runs.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Choice returns a uniformly random index in [0, n). Panics if n <= 0,
// which indicates a bug in the caller (an empty candidate set should never
// reach here).
func Choice(rng *rand.Rand, n int) int {
	if n <= 0 {
		panic("xrand: Choice called with n <= 0")
	}
	return rng.Intn(n)
}

// PickUniform returns a uniformly random element of a non-empty slice.
func PickUniform[T any](rng *rand.Rand, items []T) T {
	return items[Choice(rng, len(items))]
}
