package localsearch

import (
	"context"
	"math/rand"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
)

// RedLS is the reduction local search: it carries dynamic edge weights
// (already on every Assignment, see assignment.IncrementEdgeWeights) and
// alternates between zero-conflict greedy descent, a conflict-reducing
// candidate set, an uncolor-and-reopen fallback, and an edge-weight
// bump when stuck.
func RedLS(ctx context.Context, a *assignment.Assignment, g *graph.Graph, rng *rand.Rand, p Params) Result {
	n := g.N()
	tabu := make([]int64, n)
	turn := int64(0)
	var turns int64

	distanceToBest := func(score int32) int32 {
		if p.Best == nil {
			return 0
		}
		d := score - p.Best.Score()
		if d < 0 {
			d = -d
		}
		return d
	}

	// signedDistanceToBest is best-score minus score, without the abs:
	// negative while score is still worse (higher) than best, positive
	// once score has already pushed below it. candidate_set_3 thresholds
	// against this signed value, not its magnitude, so a move passes only
	// if its resulting score stays strictly below best.
	signedDistanceToBest := func(score int32) int32 {
		if p.Best == nil {
			return 0
		}
		return p.Best.Score() - score
	}

	// greedyZeroConflict applies, repeatedly, any move that strictly
	// decreases score at zero conflict delta (candidate set S2), until
	// none remains; when useTabu is set, tabu-banned vertices are skipped.
	// Reports whether any move was applied.
	greedyZeroConflict := func(useTabu bool) bool {
		applied := false
		for {
			if expired(ctx) {
				return applied
			}
			var found *move
			for v := 0; v < n && found == nil; v++ {
				cv := a.Color(v)
				for _, c := range a.AvailableColors(v) {
					if c == cv {
						continue
					}
					if useTabu && tabu[v] > turn {
						continue
					}
					ds := a.DeltaScore(v, c)
					dc := a.DeltaConflicts(v, c)
					if ds < 0 && dc == 0 {
						m := move{v: v, c: c, deltaScore: ds, deltaConflict: dc}
						found = &m
						break
					}
				}
			}
			if found == nil {
				return applied
			}
			applyMove(a, *found)
			turn++
			turns++
			applied = true
		}
	}

	// selectionRule1 moves every member of some color c1 sharing its
	// maximum weight to whichever color c2 maximizes deltaScore /
	// deltaConflict (ties broken by deltaScore*2 when deltaConflict=0).
	selectionRule1 := func() {
		used := a.UsedColors()
		if len(used) < 2 {
			return
		}
		c1 := used[rng.Intn(len(used))]
		heavy := a.Members(c1)
		if len(heavy) == 0 {
			return
		}
		maxW := a.MaxWeight(c1)
		var targets []int
		for _, v := range heavy {
			if g.Weight(int(v)) == maxW {
				targets = append(targets, int(v))
			}
		}
		for _, v := range targets {
			var bestC int32 = assignment.NewColor
			var bestRatio float64 = -1e18
			first := true
			for _, c2 := range used {
				if c2 == a.Color(v) {
					continue
				}
				ds := a.DeltaScore(v, c2)
				dc := a.DeltaConflicts(v, c2)
				var ratio float64
				if dc == 0 {
					ratio = float64(ds) * 2
				} else {
					ratio = float64(ds) / float64(dc)
				}
				if first || ratio > bestRatio {
					bestRatio = ratio
					bestC = c2
					first = false
				}
			}
			if !first {
				applyMove(a, move{v: v, c: bestC})
				turn++
				turns++
			}
		}
	}

	// s1Step tries the conflict-reducing candidate set: a conflicting
	// vertex whose move strictly decreases both conflicts and distance
	// to the best score.
	s1Step := func() bool {
		threshold := distanceToBest(a.Score())
		var candidates []move
		for _, v := range conflictingVertices(a, g) {
			cv := a.Color(v)
			for _, c := range a.UsedColors() {
				if c == cv {
					continue
				}
				dc := a.DeltaConflicts(v, c)
				ds := a.DeltaScore(v, c)
				if dc < 0 && ds < threshold {
					candidates = append(candidates, move{v: v, c: c, deltaScore: ds, deltaConflict: dc})
				}
			}
		}
		best, ok := argmin(rng, candidates, func(m move) int32 { return m.deltaConflict })
		if !ok {
			return false
		}
		applyMove(a, best)
		tabu[best.v] = turn + 1
		for _, u := range g.Neighbors(best.v) {
			tabu[u] = turn
		}
		turn++
		turns++
		return true
	}

	// s3Step tries uncolor-and-reopen moves for conflicting vertices
	// that strictly decrease distance to the best score.
	s3Step := func() bool {
		threshold := signedDistanceToBest(a.Score())
		var candidates []move
		for _, v := range conflictingVertices(a, g) {
			ds := a.DeltaScore(v, assignment.NewColor)
			if ds < threshold {
				candidates = append(candidates, move{v: v, c: assignment.NewColor, deltaScore: ds})
			}
		}
		best, ok := argmin(rng, candidates, func(m move) int32 { return m.deltaScore })
		if !ok {
			return false
		}
		applyMove(a, best)
		turn++
		turns++
		return true
	}

	// selectionRule2 increments every conflicting edge's weight, then
	// picks a uniformly random conflict edge and recolors whichever
	// endpoint reduces conflicts the most without exceeding the best
	// score, or failing that recolors one endpoint arbitrarily.
	selectionRule2 := func() {
		a.IncrementEdgeWeights()

		var edges [][2]int
		for v := 0; v < n; v++ {
			for _, u := range g.Neighbors(v) {
				if u > v && a.Color(u) == a.Color(v) && a.Color(v) != assignment.Uncolored {
					edges = append(edges, [2]int{v, u})
				}
			}
		}
		if len(edges) == 0 {
			return
		}
		e := edges[rng.Intn(len(edges))]

		var candidates []move
		for _, v := range e {
			cv := a.Color(v)
			for _, c := range a.UsedColors() {
				if c == cv {
					continue
				}
				ds := a.DeltaScore(v, c)
				dc := a.DeltaConflicts(v, c)
				if p.Best != nil && a.Score()+ds > p.Best.Score() {
					continue
				}
				candidates = append(candidates, move{v: v, c: c, deltaScore: ds, deltaConflict: dc})
			}
		}
		if best, ok := argmin(rng, candidates, func(m move) int32 { return m.deltaConflict }); ok {
			applyMove(a, best)
		} else {
			v := e[rng.Intn(2)]
			colors := append(append([]int32(nil), a.UsedColors()...), assignment.NewColor)
			var pick int32 = assignment.NewColor
			for _, c := range colors {
				if c != a.Color(v) {
					pick = c
					break
				}
			}
			applyMove(a, move{v: v, c: pick})
		}
		turn++
		turns++
	}

	for {
		if expired(ctx) || targetReached(p) {
			return Result{Turns: turns}
		}

		if a.Penalty() == 0 {
			if greedyZeroConflict(false) {
				if p.Best != nil {
					p.Best.UpdateScore(a.Score())
				}
				for i := range tabu {
					tabu[i] = 0
				}
			}
			selectionRule1()
			continue
		}

		if s1Step() {
			continue
		}
		if greedyZeroConflict(true) {
			continue
		}
		if s3Step() {
			continue
		}
		selectionRule2()
	}
}
