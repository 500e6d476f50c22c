package localsearch

import (
	"context"
	"math"
	"math/rand"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
)

// afisaCandidate is a scored (vertex, color) move under AFISA's
// penalty-weighted objective, kept separate from the shared `move` type
// since the objective is a float (score + alpha*penalty), not a plain
// int32 delta.
type afisaCandidate struct {
	v   int
	c   int32
	obj float64
}

// Afisa is the "other" AFISA variant: a per-vertex tabu vector with
// tenure = turn + ceil(0.2*|free|) + U[0,10], and no move-set cap.
func Afisa(ctx context.Context, a *assignment.Assignment, g *graph.Graph, rng *rand.Rand, p Params) Result {
	return afisaRun(ctx, a, g, rng, p, false)
}

// AfisaOriginal is the original AFISA variant: a per-(vertex,color)
// tabu matrix with tenure = turn + U[0,10] + floor(0.6*(score+alpha*penalty)),
// and a move set capped at ceil(1.15*max(15, |usedColors|)).
func AfisaOriginal(ctx context.Context, a *assignment.Assignment, g *graph.Graph, rng *rand.Rand, p Params) Result {
	return afisaRun(ctx, a, g, rng, p, true)
}

func afisaRun(ctx context.Context, a *assignment.Assignment, g *graph.Graph, rng *rand.Rand, p Params, original bool) Result {
	n := g.N()
	alpha := 1.0
	turn := int64(0)
	var turns int64
	roundsSinceImprove := 0

	tabuVC := make(map[tabuColKey]int64)
	tabuV := make([]int64, n)

	objective := func() float64 { return float64(a.Score()) + alpha*float64(a.Penalty()) }

	moveColorSet := func() []int32 {
		colors := append([]int32(nil), a.UsedColors()...)
		if original {
			cap := int(math.Ceil(1.15 * math.Max(15, float64(len(colors)))))
			if cap < len(colors) {
				colors = colors[:cap]
			}
		}
		return append(colors, assignment.NewColor)
	}

	descentStep := func() bool {
		var candidates []afisaCandidate
		colors := moveColorSet()
		for v := 0; v < n; v++ {
			cv := a.Color(v)
			for _, c := range colors {
				if c == cv {
					continue
				}
				ds := a.DeltaScore(v, c)
				dc := a.DeltaConflicts(v, c)
				newObj := float64(a.Score()+ds) + alpha*float64(a.Penalty()+dc)
				aspirating := p.Best != nil && a.Score()+ds < p.Best.Score() && a.Penalty()+dc == 0
				var tabooed bool
				if original {
					tabooed = tabuVC[tabuColKey{v, c}] > turn
				} else {
					tabooed = tabuV[v] > turn
				}
				if tabooed && !aspirating {
					continue
				}
				candidates = append(candidates, afisaCandidate{v: v, c: c, obj: newObj})
			}
		}
		if len(candidates) == 0 {
			return false
		}
		bestObj := candidates[0].obj
		bestIdx := []int{0}
		for i := 1; i < len(candidates); i++ {
			if candidates[i].obj < bestObj {
				bestObj = candidates[i].obj
				bestIdx = []int{i}
			} else if candidates[i].obj == bestObj {
				bestIdx = append(bestIdx, i)
			}
		}
		chosen := candidates[bestIdx[rng.Intn(len(bestIdx))]]
		applyMove(a, move{v: chosen.v, c: chosen.c})

		if original {
			tenure := turn + int64(rng.Intn(11)) + int64(0.6*objective())
			tabuVC[tabuColKey{chosen.v, chosen.c}] = tenure
		} else {
			free := a.FreeColors(chosen.v)
			tenure := turn + int64(math.Ceil(0.2*float64(free))) + int64(rng.Intn(11))
			tabuV[chosen.v] = tenure
		}
		turn++
		turns++
		return true
	}

	perturb := func(steps int, regime string) {
		locked := make(map[int]struct{})
		for i := 0; i < steps; i++ {
			if expired(ctx) {
				return
			}
			v := rng.Intn(n)
			colors := append(append([]int32(nil), a.UsedColors()...), assignment.NewColor)
			c := colors[rng.Intn(len(colors))]
			if c == a.Color(v) {
				continue
			}
			applyMove(a, move{v: v, c: c})
			turn++
			turns++
			if regime == "unlimited" {
				locked[v] = struct{}{}
			}
		}
		if regime == "unlimited" {
			for v := range locked {
				tabuV[v] = turn + int64(steps)
			}
		}
	}

	for {
		if expired(ctx) || targetReached(p) {
			return Result{Turns: turns}
		}

		phaseBestObj := objective()
		phaseHadConflicts := a.Penalty() > 0
		stall := 0
		for stall < n {
			if expired(ctx) || targetReached(p) {
				return Result{Turns: turns}
			}
			if !descentStep() {
				break
			}
			if obj := objective(); obj < phaseBestObj {
				phaseBestObj = obj
				stall = 0
				if p.Best != nil && a.Penalty() == 0 {
					p.Best.UpdateScore(a.Score())
				}
			} else {
				stall++
			}
			if a.Penalty() > 0 {
				phaseHadConflicts = true
			}
		}

		if phaseHadConflicts {
			alpha++
		} else if alpha > 1 {
			alpha--
		}

		steps := int(0.05 * float64(n))
		if roundsSinceImprove > 50 {
			steps = int(0.5 * float64(n))
		}
		if steps < 1 {
			steps = 1
		}
		regime := "noTabu"
		if rng.Intn(2) == 1 {
			regime = "unlimited"
		}
		perturb(steps, regime)

		if p.Best != nil && a.Penalty() == 0 && a.Score() < p.Best.Score() {
			roundsSinceImprove = 0
		} else {
			roundsSinceImprove++
		}
	}
}
