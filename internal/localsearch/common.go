// Package localsearch implements the six neighborhood-search
// metaheuristics that share one Assignment: HillClimbing, TabuWeight,
// TabuCol, AFISA (two variants), RedLS, and ILSTS. Every method is
// registered as a plain function value rather than a type hierarchy,
// following the same function-value-registry shape used throughout this
// module for initializers and driver methods.
package localsearch

import (
	"context"
	"math/rand"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/best"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/config"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
)

// Params bundles the run-time knobs a local search needs beyond the
// Assignment and Graph it operates on.
type Params struct {
	// Target, when HasTarget is set, allows a search to stop as soon as
	// Best.Score() <= Target.
	Target    int32
	HasTarget bool
	Best      *best.Tracker
}

// Result reports what a single LocalSearch run accomplished.
type Result struct {
	Turns int64
}

// Func is the shape every local search implements.
type Func func(ctx context.Context, a *assignment.Assignment, g *graph.Graph, rng *rand.Rand, p Params) Result

// Registry maps the CLI-exposed LocalSearchKind values (minus "none") to
// their implementation.
var Registry = map[config.LocalSearchKind]Func{
	config.LSHillClimbing:  HillClimbing,
	config.LSTabuWeight:    TabuWeight,
	config.LSTabuCol:       TabuCol,
	config.LSAfisa:         Afisa,
	config.LSAfisaOriginal: AfisaOriginal,
	config.LSRedLS:         RedLS,
	config.LSILSTS:         ILSTS,
}

// expired is a non-blocking deadline poll, used at the top of every
// search's outer loop.
func expired(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// targetReached reports whether the search is allowed to stop early
// because the global best already satisfies the configured target.
func targetReached(p Params) bool {
	return p.HasTarget && p.Best != nil && p.Best.Score() <= p.Target
}

// move is a candidate (vertex, color) reassignment together with the
// deltas applying it would cause, read without mutating the Assignment.
type move struct {
	v             int
	c             int32
	deltaScore    int32
	deltaConflict int32
}

// argmin picks a uniformly random index among those minimizing key,
// mirroring the "pick uniformly among argmins" tie-break rule used by
// every local search in this package.
func argmin[T any](rng *rand.Rand, items []T, key func(T) int32) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	best := key(items[0])
	bestIdx := []int{0}
	for i := 1; i < len(items); i++ {
		k := key(items[i])
		if k < best {
			best = k
			bestIdx = []int{i}
		} else if k == best {
			bestIdx = append(bestIdx, i)
		}
	}
	return items[bestIdx[rng.Intn(len(bestIdx))]], true
}

// applyMove performs deleteFrom(v); addTo(v, c) — the single unit of
// change every local search commits to once a candidate is selected.
func applyMove(a *assignment.Assignment, m move) {
	a.DeleteFrom(m.v)
	a.AddTo(m.v, m.c)
}

// conflictingVertices returns every vertex currently involved in at
// least one monochromatic edge.
func conflictingVertices(a *assignment.Assignment, g *graph.Graph) []int {
	var out []int
	for v := 0; v < g.N(); v++ {
		if a.HasConflicts(v) {
			out = append(out, v)
		}
	}
	return out
}
