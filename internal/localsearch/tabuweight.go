package localsearch

import (
	"context"
	"math/rand"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
)

// TabuWeight maintains a per-vertex tabu expiry turn and, each turn,
// commits an argmin-resulting-score move among legal candidates (not
// tabu-banned, or aspirating to a new global best).
func TabuWeight(ctx context.Context, a *assignment.Assignment, g *graph.Graph, rng *rand.Rand, p Params) Result {
	n := g.N()
	tabu := make([]int64, n)
	var turn int64

	for {
		if expired(ctx) || targetReached(p) {
			return Result{Turns: turn}
		}

		var candidates []move
		for v := 0; v < n; v++ {
			cv := a.Color(v)
			choices := append(append([]int32(nil), a.AvailableColors(v)...), assignment.NewColor)
			for _, c := range choices {
				if c == cv {
					continue
				}
				ds := a.DeltaScore(v, c)
				aspirating := p.Best != nil && a.Score()+ds < p.Best.Score()
				if tabu[v] > turn && !aspirating {
					continue
				}
				candidates = append(candidates, move{v: v, c: c, deltaScore: ds})
			}
		}

		best, ok := argmin(rng, candidates, func(m move) int32 { return m.deltaScore })
		if !ok {
			return Result{Turns: turn}
		}
		applyMove(a, best)
		tabu[best.v] = turn + int64(a.NUsedColors())
		turn++
		if p.Best != nil {
			p.Best.UpdateScore(a.Score())
		}
	}
}
