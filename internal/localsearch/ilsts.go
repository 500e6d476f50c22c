package localsearch

import (
	"context"
	"math/rand"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
)

// ilstsRelocate tries to make color c conflict-free for v by moving
// every neighbor of v currently in c to some other conflict-free color.
// If allowOnePaid is true, a single neighbor that cannot be relocated
// for free is instead reopened into a brand new color (the "paid"
// relocation of M3/M6) rather than aborting the whole move. Returns
// whether c is now safe for v, applying whatever relocations it needed.
func ilstsRelocate(a *assignment.Assignment, g *graph.Graph, v int, c int32, allowOnePaid bool) bool {
	var conflicting []int
	for _, u := range g.Neighbors(v) {
		if a.Color(u) == c {
			conflicting = append(conflicting, u)
		}
	}
	if len(conflicting) == 0 {
		return true
	}

	type reloc struct {
		u      int
		target int32
	}
	var plan []reloc
	paidUsed := false
	for _, u := range conflicting {
		avail := a.AvailableColors(u)
		var target int32 = assignment.NewColor
		found := false
		for _, cc := range avail {
			if cc != c {
				target = cc
				found = true
				break
			}
		}
		if !found {
			if allowOnePaid && !paidUsed {
				paidUsed = true
				target = assignment.NewColor
			} else {
				return false
			}
		}
		plan = append(plan, reloc{u: u, target: target})
	}

	for _, r := range plan {
		a.DeleteFrom(r.u)
		a.AddTo(r.u, r.target)
	}
	return true
}

// tryM1 places an unassigned vertex into a conflict-free existing color.
func tryM1(a *assignment.Assignment, v int) bool {
	avail := a.AvailableColors(v)
	if len(avail) == 0 {
		return false
	}
	a.AddTo(v, avail[0])
	return true
}

// tryM2 moves an unassigned vertex into a color whose conflicting
// members can each be relocated without creating new conflicts.
func tryM2(a *assignment.Assignment, g *graph.Graph, v int) bool {
	for _, c := range a.UsedColors() {
		if ilstsRelocate(a, g, v, c, false) {
			a.AddTo(v, c)
			return true
		}
	}
	return false
}

// tryM3 is M2 but tolerates one neighbor paying a tabu cost (reopened
// into a fresh color) when it has nowhere conflict-free to go.
func tryM3(a *assignment.Assignment, g *graph.Graph, v int) bool {
	for _, c := range a.UsedColors() {
		if ilstsRelocate(a, g, v, c, true) {
			a.AddTo(v, c)
			return true
		}
	}
	return false
}

// tryM4 randomly recolors an unassigned vertex into one of its free
// colors (zero conflict, enough weight headroom not to raise score).
func tryM4(a *assignment.Assignment, g *graph.Graph, rng *rand.Rand, v int, tabu []int64, turn int64) bool {
	var candidates []int32
	w := a.AvailableColors(v)
	for _, c := range w {
		if tabu[v] <= turn && a.MaxWeight(c) >= g.Weight(v) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	c := candidates[rng.Intn(len(candidates))]
	a.AddTo(v, c)
	return true
}

// tryM5 is the chained-recolor family: it starts from a vertex that may
// already be colored (displaced by an earlier relocation) with no
// outright free color, and forces relocation the same way M2 does.
func tryM5(a *assignment.Assignment, g *graph.Graph, v int) bool {
	if a.Color(v) != assignment.Uncolored {
		a.DeleteFrom(v)
	}
	return tryM2(a, g, v)
}

// tryM6 is M3 seeded from a uniformly random currently-unassigned
// vertex rather than the queue head.
func tryM6(a *assignment.Assignment, g *graph.Graph, rng *rand.Rand, unassigned []int) bool {
	if len(unassigned) == 0 {
		return false
	}
	v := unassigned[rng.Intn(len(unassigned))]
	return tryM3(a, g, v)
}

// ilstsRepair drives the inner move-family loop over a's currently
// unassigned vertices, up to budget iterations.
func ilstsRepair(ctx context.Context, a *assignment.Assignment, g *graph.Graph, rng *rand.Rand, tabu []int64, turn *int64, budget int) {
	for i := 0; i < budget; i++ {
		if expired(ctx) {
			return
		}
		var unassigned []int
		for v := 0; v < g.N(); v++ {
			if a.Color(v) == assignment.Uncolored {
				unassigned = append(unassigned, v)
			}
		}
		if len(unassigned) == 0 {
			return
		}
		v := unassigned[0]

		switch {
		case tryM1(a, v):
		case tryM2(a, g, v):
		case tryM3(a, g, v):
		case tryM4(a, g, rng, v, tabu, *turn):
		case tryM5(a, g, v):
		case tryM6(a, g, rng, unassigned):
		default:
			// no move family applies; open a fresh color as a last
			// resort so the repair loop always makes progress.
			a.AddTo(v, assignment.NewColor)
		}
		*turn++
	}
}

// ilstsGrenade picks a random (vertex, color) pair, unassigns the
// vertex and every neighbor currently in that color, reassigns the
// vertex to it, then randomly reassigns the displaced vertices.
func ilstsGrenade(a *assignment.Assignment, g *graph.Graph, rng *rand.Rand) {
	n := g.N()
	v := rng.Intn(n)
	colors := append(append([]int32(nil), a.UsedColors()...), assignment.NewColor)
	c := colors[rng.Intn(len(colors))]
	if c == a.Color(v) {
		return
	}

	var displaced []int
	if a.Color(v) != assignment.Uncolored {
		a.DeleteFrom(v)
	}
	if c != assignment.NewColor {
		for _, u := range append([]int32(nil), a.Members(c)...) {
			if g.Adjacent(int(u), v) {
				a.DeleteFrom(int(u))
				displaced = append(displaced, int(u))
			}
		}
	}
	a.AddTo(v, c)

	for _, u := range displaced {
		choices := append(append([]int32(nil), a.AvailableColors(u)...), assignment.NewColor)
		a.AddTo(u, choices[rng.Intn(len(choices))])
	}
}

// ILSTS is the iterated local search / tabu / shake method: each outer
// turn shakes the working copy by unassigning the heaviest vertices of
// f random colors, repairs it with the M1..M6 move families, and either
// accepts an improvement or escalates the shake force, eventually
// falling back to a single grenade perturbation after n stagnant rounds.
func ILSTS(ctx context.Context, a *assignment.Assignment, g *graph.Graph, rng *rand.Rand, p Params) Result {
	n := g.N()
	// baseline is the last accepted working solution; each turn shakes
	// and repairs a fresh clone of it and only replaces it on strict
	// improvement, matching the original's next_s/working_solution
	// accept-or-discard discipline (a failed attempt never becomes next
	// turn's starting point).
	baseline := a.Clone()
	f := 1
	noImprove := 0
	var turns int64
	turn := int64(0)
	tabu := make([]int64, n)

	for {
		if expired(ctx) || targetReached(p) {
			*a = *baseline.Clone()
			return Result{Turns: turns}
		}

		used := baseline.UsedColors()
		if len(used) < f {
			f = 1
			continue
		}
		chosen := make(map[int32]struct{})
		perm := rng.Perm(len(used))
		for i := 0; i < f; i++ {
			chosen[used[perm[i]]] = struct{}{}
		}

		beforeScore := baseline.Score()
		next := baseline.Clone()

		var unassignedCount int
		for c := range chosen {
			members := append([]int32(nil), next.Members(c)...)
			if len(members) == 0 {
				continue
			}
			maxW := next.MaxWeight(c)
			for _, v := range members {
				if g.Weight(int(v)) == maxW {
					next.DeleteFrom(int(v))
					unassignedCount++
				}
			}
		}
		if unassignedCount == 0 {
			f = f%3 + 1
			continue
		}

		ilstsRepair(ctx, next, g, rng, tabu, &turn, 10*n)
		turns++

		fullyAssigned := true
		for v := 0; v < n; v++ {
			if next.Color(v) == assignment.Uncolored {
				fullyAssigned = false
				break
			}
		}

		if fullyAssigned && next.Score() < beforeScore {
			baseline = next
			f = 1
			noImprove = 0

			if p.Best != nil && baseline.Score() < p.Best.Score() {
				p.Best.UpdateScore(baseline.Score())
				p.Best.UpdateNColors(int32(baseline.NUsedColors()))
				*a = *baseline.Clone()
			}
		} else {
			f = f%3 + 1
			noImprove++
		}

		if noImprove > n {
			ilstsGrenade(baseline, g, rng)
			noImprove = 0
		}
	}
}
