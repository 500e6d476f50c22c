// Package initialize implements the four greedy seed policies that
// populate an Assignment from the empty coloring (spec §4.C). Each walks
// vertices in the Graph's pre-sorted order and assigns one color at a
// time; they differ only in the rule used to pick that color.
package initialize

import (
	"math/rand"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/config"
)

// Func seeds every uncolored vertex of a in Graph order. It is the shared
// shape for all four policies, and the registry value type in Registry.
type Func func(a *assignment.Assignment, rng *rand.Rand)

// Registry maps each CLI-exposed (and internally used) Initialization
// name to its Func, grounded on the original's switch-over-enum dispatch
// but expressed as a value lookup rather than a branch, matching how the
// pack's function-value registries (e.g. a driver's method table) are
// built.
var Registry = map[config.Initialization]Func{
	config.InitRandom:        Random,
	config.InitConstrained:   Constrained,
	config.InitDeterministic: Deterministic,
	config.InitWorst:         Worst,
}

func uncoloredVertices(a *assignment.Assignment) []int {
	n := a.N()
	out := make([]int, 0, n)
	for v := 0; v < n; v++ {
		if a.Color(v) == assignment.Uncolored {
			out = append(out, v)
		}
	}
	return out
}

// Random assigns each vertex uniformly among availableColors(v) ∪ {NEW}.
func Random(a *assignment.Assignment, rng *rand.Rand) {
	for _, v := range uncoloredVertices(a) {
		choices := append(a.AvailableColors(v), assignment.NewColor)
		c := choices[rng.Intn(len(choices))]
		a.AddTo(v, c)
	}
}

// Constrained assigns each vertex uniformly among availableColors(v); if
// that set is empty, it falls back to NEW. The spec's resolved Open
// Question: some original variants never fall back and instead leave the
// vertex uncolored or fail, but this is required here to always fall back
// to NEW when no conflict-free color exists.
func Constrained(a *assignment.Assignment, rng *rand.Rand) {
	for _, v := range uncoloredVertices(a) {
		choices := a.AvailableColors(v)
		if len(choices) == 0 {
			a.AddTo(v, assignment.NewColor)
			continue
		}
		c := choices[rng.Intn(len(choices))]
		a.AddTo(v, c)
	}
}

// Deterministic assigns each vertex firstAvailableColor(v), which is
// itself NEW when no existing color is conflict-free.
func Deterministic(a *assignment.Assignment, rng *rand.Rand) {
	for _, v := range uncoloredVertices(a) {
		a.AddTo(v, a.FirstAvailableColor(v))
	}
}

// Worst opens a fresh color for every vertex: a legal but deliberately
// terrible upper bound, used to exercise local search's capacity to
// recover (spec §8 property 2).
func Worst(a *assignment.Assignment, rng *rand.Rand) {
	for _, v := range uncoloredVertices(a) {
		a.AddTo(v, assignment.NewColor)
	}
}
