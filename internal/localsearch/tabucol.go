package localsearch

import (
	"context"
	"math/rand"
	"sort"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
)

// reduceColors forces a into at most k colors: every member of a color
// index >= k is unassigned, then all of them are re-inserted, in
// ascending vertex-id order, into whichever remaining used color
// currently has the fewest conflicts for that vertex (creating
// conflicts where unavoidable).
func reduceColors(a *assignment.Assignment, g *graph.Graph, k int32) {
	var displaced []int
	for _, c := range append([]int32(nil), a.UsedColors()...) {
		if c < k {
			continue
		}
		for _, v := range append([]int32(nil), a.Members(c)...) {
			a.DeleteFrom(int(v))
			displaced = append(displaced, int(v))
		}
	}
	sort.Ints(displaced)

	for _, v := range displaced {
		target := leastConflictingUsedColor(a, v)
		a.AddTo(v, target)
	}
}

func leastConflictingUsedColor(a *assignment.Assignment, v int) int32 {
	used := a.UsedColors()
	if len(used) == 0 {
		return assignment.NewColor
	}
	bestC := used[0]
	bestConflict := a.Conflicts(bestC, v)
	for _, c := range used[1:] {
		if cf := a.Conflicts(c, v); cf < bestConflict {
			bestConflict = cf
			bestC = c
		}
	}
	return bestC
}

type tabuColKey struct {
	v int
	c int32
}

// TabuCol alternates forcing the coloring down to a target number of
// colors (reduceColors) with an inner tabu descent on penalty, indexed
// by (vertex, color); it commits a new bestNColors every time the inner
// loop reaches penalty 0.
func TabuCol(ctx context.Context, a *assignment.Assignment, g *graph.Graph, rng *rand.Rand, p Params) Result {
	var turns int64
	turn := int64(0)
	tabu := make(map[tabuColKey]int64)

	for {
		if expired(ctx) || targetReached(p) {
			return Result{Turns: turns}
		}

		bound := int32(a.NUsedColors()) - 1
		if p.Best != nil && p.Best.NColors()-1 < bound {
			bound = p.Best.NColors() - 1
		}
		if bound < 1 {
			bound = 1
		}
		reduceColors(a, g, bound)

		for a.Penalty() != 0 {
			if expired(ctx) {
				return Result{Turns: turns}
			}

			var candidates []move
			for _, v := range conflictingVertices(a, g) {
				cv := a.Color(v)
				for _, c := range a.UsedColors() {
					if c == cv {
						continue
					}
					dc := a.DeltaConflicts(v, c)
					aspirating := a.Penalty()+dc == 0
					expiry := tabu[tabuColKey{v, c}]
					if expiry > turn && !aspirating {
						continue
					}
					candidates = append(candidates, move{v: v, c: c, deltaConflict: dc})
				}
			}

			best, ok := argmin(rng, candidates, func(m move) int32 { return m.deltaConflict })
			if !ok {
				return Result{Turns: turns}
			}
			oldColor := a.Color(best.v)
			applyMove(a, best)
			tenure := turn + int64(rng.Intn(11)) + int64(0.6*float64(a.Penalty()))
			tabu[tabuColKey{best.v, oldColor}] = tenure
			turn++
			turns++
		}

		if p.Best != nil {
			p.Best.UpdateScore(a.Score())
			p.Best.UpdateNColors(int32(a.NUsedColors()))
		}
	}
}
