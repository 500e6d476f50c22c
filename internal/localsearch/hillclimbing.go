package localsearch

import (
	"context"
	"math/rand"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
)

// HillClimbing repeatedly applies a uniformly-chosen strict best-improving
// move among every conflict-free recoloring, stopping when none exists.
func HillClimbing(ctx context.Context, a *assignment.Assignment, g *graph.Graph, rng *rand.Rand, p Params) Result {
	var turns int64
	for {
		if expired(ctx) || targetReached(p) {
			return Result{Turns: turns}
		}

		var candidates []move
		for v := 0; v < g.N(); v++ {
			cv := a.Color(v)
			for _, c := range a.AvailableColors(v) {
				if c == cv {
					continue
				}
				if ds := a.DeltaScore(v, c); ds < 0 {
					candidates = append(candidates, move{v: v, c: c, deltaScore: ds})
				}
			}
			if ds := a.DeltaScore(v, assignment.NewColor); ds < 0 {
				candidates = append(candidates, move{v: v, c: assignment.NewColor, deltaScore: ds})
			}
		}

		best, ok := argmin(rng, candidates, func(m move) int32 { return m.deltaScore })
		if !ok {
			return Result{Turns: turns}
		}
		applyMove(a, best)
		turns++
		if p.Best != nil {
			p.Best.UpdateScore(a.Score())
		}
	}
}
