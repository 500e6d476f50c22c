package mcts

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/best"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/config"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/initialize"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/localsearch"
)

// Config bundles everything a Run needs beyond the Graph itself.
type Config struct {
	Best             *best.Tracker
	CoeffExploExploi float64
	MaxIterations    int64
	Target           int32
	HasTarget        bool
	Init             initialize.Func
	LocalSearch      localsearch.Func // nil if no local search is attached
	Simulation       config.Simulation
	// SimLSBudget bounds how long the attached local search is allowed
	// to run inside a single playout; it defaults to one millisecond
	// per vertex when unset, since an unbounded per-playout local
	// search (tabu methods never stop on their own) would starve every
	// other phase of the turn budget.
	SimLSBudget time.Duration
}

func localSearchParams(cfg Config) localsearch.Params {
	return localsearch.Params{Target: cfg.Target, HasTarget: cfg.HasTarget, Best: cfg.Best}
}

func simLSBudget(cfg Config, n int) time.Duration {
	if cfg.SimLSBudget > 0 {
		return cfg.SimLSBudget
	}
	return time.Duration(n) * time.Millisecond
}

// Result reports what a Run accomplished.
type Result struct {
	Iterations int64
}

// nextUnassignedVertex returns the first uncolored vertex in the
// Graph's pre-sorted order, matching the "head of an unassigned queue"
// description in spec §4.E.
func nextUnassignedVertex(a *assignment.Assignment, g *graph.Graph) (int, bool) {
	for v := 0; v < g.N(); v++ {
		if a.Color(v) == assignment.Uncolored {
			return v, true
		}
	}
	return 0, false
}

// GenerateMoves builds the sorted untried-move stack for vertex v: one
// per used color with zero conflict whose resulting score strictly
// improves on bestScore, plus one open-new-color move under the same
// pruning condition. The result is sorted (score desc, color desc) so
// that pop-from-front expands the least promising branches first.
func GenerateMoves(a *assignment.Assignment, v int, bestScore int32) []Move {
	var moves []Move
	for _, c := range a.UsedColors() {
		if a.Conflicts(c, v) != 0 {
			continue
		}
		if a.Score()+a.DeltaScore(v, c) < bestScore {
			moves = append(moves, Move{V: v, C: c})
		}
	}
	if a.Score()+a.DeltaScore(v, assignment.NewColor) < bestScore {
		moves = append(moves, Move{V: v, C: assignment.NewColor})
	}

	resulting := func(m Move) int32 { return a.Score() + a.DeltaScore(m.V, m.C) }
	sort.Slice(moves, func(i, j int) bool {
		si, sj := resulting(moves[i]), resulting(moves[j])
		if si != sj {
			return si > sj
		}
		return moves[i].C > moves[j].C
	})
	return moves
}

// Run drives the MCTS loop (selection, expansion, simulation,
// backpropagation) until the deadline, the iteration cap, or the target
// score is reached, returning the number of playouts performed.
func Run(ctx context.Context, g *graph.Graph, rng *rand.Rand, cfg Config) Result {
	base := assignment.New(g)
	base.AddTo(0, assignment.NewColor)

	root := NewRoot(nil)
	root.posScore = base.Score()
	if nv, ok := nextUnassignedVertex(base, g); ok {
		root.SetUntried(GenerateMoves(base, nv, bestScoreOrMax(cfg)))
	}

	policy := newSimPolicyState()
	var turns int64

	for {
		select {
		case <-ctx.Done():
			return Result{Iterations: turns}
		default:
		}
		if cfg.MaxIterations > 0 && turns >= cfg.MaxIterations {
			return Result{Iterations: turns}
		}
		if cfg.HasTarget && cfg.Best != nil && cfg.Best.Score() <= cfg.Target {
			return Result{Iterations: turns}
		}
		if root.pruned || (root.IsTerminal() && root.IsLeaf() && root.visits > 0) {
			return Result{Iterations: turns}
		}

		working := base.Clone()
		node := root

		for node.IsTerminal() && !node.IsLeaf() {
			child := selectChild(node, rng, bestScoreOrMax(cfg), cfg.CoeffExploExploi)
			if child == nil {
				break
			}
			working.AddTo(child.move.V, child.move.C)
			node = child
		}

		if !node.IsTerminal() {
			child := node.expand(working)
			if nv, ok := nextUnassignedVertex(working, g); ok {
				child.SetUntried(GenerateMoves(working, nv, bestScoreOrMax(cfg)))
			}
			node = child
		}

		leafScore := simulate(ctx, working, g, rng, cfg, policy, node.depth)
		backpropagate(node, leafScore)

		if cfg.Best != nil && cfg.Best.UpdateScore(leafScore) {
			cleanGraph(root, leafScore)
		}
		turns++
	}
}

func bestScoreOrMax(cfg Config) int32 {
	if cfg.Best == nil {
		return math.MaxInt32
	}
	return cfg.Best.Score()
}
