package mcts

import (
	"context"
	"math"
	"math/rand"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/config"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
)

// simPolicyState holds the hidden state the fit/depth/depth_fit
// simulation policies need across playouts: the running fit threshold
// and a record of every accepted playout's final coloring, used for the
// distance filter. Each Run call creates its own and keeps it local; the
// driver does not hold it and nothing at package scope does, so two Run
// calls never share state (spec §9 design note).
type simPolicyState struct {
	fitThreshold  int32
	pastColorings [][]int32
}

func newSimPolicyState() *simPolicyState {
	return &simPolicyState{fitThreshold: math.MaxInt32}
}

func snapshotColoring(a *assignment.Assignment, n int) []int32 {
	out := make([]int32, n)
	for v := 0; v < n; v++ {
		out[v] = a.Color(v)
	}
	return out
}

// distanceApproximation implements the glossary's distance
// approximation: M[i][j] counts vertices colored i under s and j under
// t; each row i is aligned to its argmax column, and the result is n
// minus the total aligned matches.
func distanceApproximation(s, t []int32, n int) int32 {
	rows := make(map[int32]map[int32]int32)
	for v := 0; v < n; v++ {
		if s[v] == assignment.Uncolored || t[v] == assignment.Uncolored {
			continue
		}
		row := rows[s[v]]
		if row == nil {
			row = make(map[int32]int32)
			rows[s[v]] = row
		}
		row[t[v]]++
	}
	var matched int32
	for _, row := range rows {
		var mx int32
		for _, c := range row {
			if c > mx {
				mx = c
			}
		}
		matched += mx
	}
	return int32(n) - matched
}

func (p *simPolicyState) minDistance(working *assignment.Assignment, n int) int32 {
	if len(p.pastColorings) == 0 {
		return int32(n)
	}
	cur := snapshotColoring(working, n)
	min := int32(n) + 1
	for _, past := range p.pastColorings {
		if d := distanceApproximation(cur, past, n); d < min {
			min = d
		}
	}
	return min
}

func (p *simPolicyState) record(working *assignment.Assignment, n int) {
	p.pastColorings = append(p.pastColorings, snapshotColoring(working, n))
}

// simulate completes working with the configured initializer, decides
// whether to invoke the attached local search under the configured
// simulation policy, and returns the resulting score.
func simulate(ctx context.Context, working *assignment.Assignment, g *graph.Graph, rng *rand.Rand, cfg Config, policy *simPolicyState, nodeDepth int32) int32 {
	n := g.N()
	if cfg.Init != nil {
		cfg.Init(working, rng)
	}

	runLS := cfg.LocalSearch != nil
	switch cfg.Simulation {
	case config.SimFit:
		runLS = runLS && working.Score() <= policy.fitThreshold+1 && policy.minDistance(working, n) > int32(n)/10
	case config.SimDepth:
		gate := int32(nodeDepth) >= int32(rng.Intn(101))*int32(n)/100
		runLS = runLS && gate
	case config.SimDepthFit:
		fitGate := working.Score() <= policy.fitThreshold+1 && policy.minDistance(working, n) > int32(n)/10
		depthGate := int32(nodeDepth) >= int32(rng.Intn(101))*int32(n)/100
		runLS = runLS && fitGate && depthGate
	}

	if runLS {
		subCtx, cancel := context.WithTimeout(ctx, simLSBudget(cfg, n))
		cfg.LocalSearch(subCtx, working, g, rng, localSearchParams(cfg))
		cancel()
		if cfg.Simulation == config.SimFit || cfg.Simulation == config.SimDepthFit {
			policy.fitThreshold = working.Score()
		}
	}

	policy.record(working, n)
	return working.Score()
}
