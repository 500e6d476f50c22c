package initialize

import (
	"math/rand"
	"testing"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/config"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
)

func path4(t *testing.T) *graph.Graph {
	t.Helper()
	// P4: a-b-c-d, weights (5,4,3,2), pre-sorted non-increasing.
	g, err := graph.New("p4", 4, [][2]int{{0, 1}, {1, 2}, {2, 3}}, []int32{5, 4, 3, 2})
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	return g
}

func assertFullyColoredAndValid(t *testing.T, a *assignment.Assignment, n int) {
	t.Helper()
	for v := 0; v < n; v++ {
		if a.Color(v) == assignment.Uncolored {
			t.Fatalf("vertex %d left uncolored", v)
		}
	}
	if err := a.CheckSolution(); err != nil {
		t.Fatalf("CheckSolution: %v", err)
	}
}

func TestWorstOpensOneColorPerVertex(t *testing.T) {
	g := path4(t)
	a := assignment.New(g)
	Worst(a, rand.New(rand.NewSource(1)))

	assertFullyColoredAndValid(t, a, 4)
	if got := a.NUsedColors(); got != 4 {
		t.Fatalf("NUsedColors = %d, want 4", got)
	}
	if a.Penalty() != 0 {
		t.Fatalf("Worst should never create conflicts, got penalty %d", a.Penalty())
	}
}

func TestDeterministicIsConflictFree(t *testing.T) {
	g := path4(t)
	a := assignment.New(g)
	Deterministic(a, rand.New(rand.NewSource(1)))
	assertFullyColoredAndValid(t, a, 4)
	if a.Penalty() != 0 {
		t.Fatalf("deterministic initializer should never create conflicts, got penalty %d", a.Penalty())
	}
}

func TestConstrainedFallsBackToNewWhenNoColorAvailable(t *testing.T) {
	g := path4(t)
	a := assignment.New(g)
	Constrained(a, rand.New(rand.NewSource(7)))
	assertFullyColoredAndValid(t, a, 4)
	if a.Penalty() != 0 {
		t.Fatalf("constrained initializer should never create conflicts, got penalty %d", a.Penalty())
	}
}

func TestRandomProducesLegalFullColoring(t *testing.T) {
	g := path4(t)
	a := assignment.New(g)
	Random(a, rand.New(rand.NewSource(42)))
	assertFullyColoredAndValid(t, a, 4)
}

func TestRegistryCoversAllFourPolicies(t *testing.T) {
	want := []string{"random", "constrained", "deterministic", "worst"}
	if len(Registry) != len(want) {
		t.Fatalf("Registry has %d entries, want %d", len(Registry), len(want))
	}
	for _, name := range want {
		if _, ok := Registry[config.Initialization(name)]; !ok {
			t.Fatalf("Registry has no entry for %q", name)
		}
	}
}
