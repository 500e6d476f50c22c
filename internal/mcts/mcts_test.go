package mcts

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/best"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/config"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/initialize"
)

func path4Graph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.New("p4", 4, [][2]int{{0, 1}, {1, 2}, {2, 3}}, []int32{5, 4, 3, 2})
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	return g
}

func TestRunTerminatesAndFindsOptimum(t *testing.T) {
	g := path4Graph(t)
	rng := rand.New(rand.NewSource(3))
	tr := best.New()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	res := Run(ctx, g, rng, Config{
		Best:             tr,
		CoeffExploExploi: 0.5,
		Init:             initialize.Random,
		Simulation:       config.SimGreedy,
	})

	if res.Iterations == 0 {
		t.Fatalf("expected at least one playout")
	}
	if tr.Score() > 9 {
		t.Fatalf("best score after search = %d, want <= 9 (P4 optimum)", tr.Score())
	}
}

func TestRunStopsAtTarget(t *testing.T) {
	g := path4Graph(t)
	rng := rand.New(rand.NewSource(1))
	tr := best.New()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	Run(ctx, g, rng, Config{
		Best:       tr,
		Init:       initialize.Random,
		Simulation: config.SimGreedy,
		Target:     9,
		HasTarget:  true,
	})

	if tr.Score() > 9 {
		t.Fatalf("best score = %d, want <= target 9", tr.Score())
	}
}

func TestGenerateMovesPrunesAtBestScore(t *testing.T) {
	g := path4Graph(t)
	a := assignment.New(g)
	a.AddTo(0, assignment.NewColor)

	moves := GenerateMoves(a, 1, 1) // bestScore=1 is unreachable, nothing should pass pruning
	if len(moves) != 0 {
		t.Fatalf("expected no moves to survive an unbeatable bestScore, got %v", moves)
	}

	moves = GenerateMoves(a, 1, 1000)
	if len(moves) == 0 {
		t.Fatalf("expected at least one candidate move under a loose bestScore")
	}
}

func TestDistanceApproximationIdenticalColoringsIsZero(t *testing.T) {
	s := []int32{0, 0, 1, 1}
	if d := distanceApproximation(s, s, 4); d != 0 {
		t.Fatalf("distance of a coloring to itself = %d, want 0", d)
	}
}
