package assignment

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
)

// scoreSnapshot is the from-scratch recomputation half of the diff in
// TestScoreMatchesFromScratchRecomputation: independent of every
// incremental bookkeeping field on Assignment.
type scoreSnapshot struct {
	Score   int32
	Penalty int32
}

func recomputeFromScratch(g *graph.Graph, a *Assignment) scoreSnapshot {
	maxW := make(map[int32]int32)
	for v := 0; v < g.N(); v++ {
		c := a.Color(v)
		if c == Uncolored {
			continue
		}
		if w := g.Weight(v); w > maxW[c] {
			maxW[c] = w
		}
	}
	var score int32
	for _, m := range maxW {
		score += m
	}
	var penalty int32
	for v := 0; v < g.N(); v++ {
		cv := a.Color(v)
		if cv == Uncolored {
			continue
		}
		for _, u := range g.Neighbors(v) {
			if u > v && a.Color(u) == cv {
				penalty++
			}
		}
	}
	return scoreSnapshot{Score: score, Penalty: penalty}
}

// triangle builds a 3-vertex complete graph with descending weights 5,3,1,
// satisfying graph.New's (weight, degree) ordering requirement.
func triangle(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.New("triangle", 3, [][2]int{{0, 1}, {1, 2}, {0, 2}}, []int32{5, 3, 1})
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	return g
}

func TestAddToOpensNewColorAndScoresMax(t *testing.T) {
	g := triangle(t)
	a := New(g)

	c0 := a.AddTo(0, NewColor)
	if c0 != 0 {
		t.Fatalf("first allocated color = %d, want 0", c0)
	}
	if a.Score() != 5 {
		t.Fatalf("score = %d, want 5", a.Score())
	}
	if a.Penalty() != 0 {
		t.Fatalf("penalty = %d, want 0", a.Penalty())
	}

	// vertex 1 conflicts with vertex 0 in the same color.
	c1 := a.AddTo(1, c0)
	if c1 != c0 {
		t.Fatalf("AddTo did not honor explicit color")
	}
	if a.Score() != 5 {
		t.Fatalf("score after adding lighter vertex to same color = %d, want 5", a.Score())
	}
	if a.Penalty() != 1 {
		t.Fatalf("penalty = %d, want 1 (edge 0-1 is monochromatic)", a.Penalty())
	}
	if !a.HasConflicts(0) || !a.HasConflicts(1) {
		t.Fatalf("expected both endpoints of the conflicting edge to report HasConflicts")
	}
}

func TestDeleteFromIsInverseOfAddTo(t *testing.T) {
	g := triangle(t)
	a := New(g)

	c0 := a.AddTo(0, NewColor)
	a.AddTo(1, c0)
	a.AddTo(2, NewColor)

	wantScore := a.Score()
	wantPenalty := a.Penalty()

	old := a.DeleteFrom(1)
	if old != c0 {
		t.Fatalf("DeleteFrom returned %d, want %d", old, c0)
	}
	if a.Color(1) != Uncolored {
		t.Fatalf("vertex 1 still colored after DeleteFrom")
	}

	back := a.AddTo(1, c0)
	if back != c0 {
		t.Fatalf("re-adding to c0 returned %d, want %d", back, c0)
	}
	if a.Score() != wantScore {
		t.Fatalf("score after round trip = %d, want %d", a.Score(), wantScore)
	}
	if a.Penalty() != wantPenalty {
		t.Fatalf("penalty after round trip = %d, want %d", a.Penalty(), wantPenalty)
	}

	if err := a.CheckSolution(); err != nil {
		t.Fatalf("CheckSolution: %v", err)
	}
}

func TestDeleteFromEmptiesColorIntoFreedColors(t *testing.T) {
	g := triangle(t)
	a := New(g)

	c0 := a.AddTo(0, NewColor)
	a.DeleteFrom(0)

	if a.NUsedColors() != 0 {
		t.Fatalf("expected no used colors after deleting the sole member, got %d", a.NUsedColors())
	}

	c1 := a.AddTo(1, NewColor)
	if c1 != c0 {
		t.Fatalf("AddTo(NewColor) did not recycle the freed color: got %d, want %d", c1, c0)
	}
}

func TestDeltaScoreMatchesApplyingTheMove(t *testing.T) {
	g := triangle(t)
	a := New(g)

	c0 := a.AddTo(0, NewColor) // color 0 = {0} weight 5
	c1 := a.AddTo(2, NewColor) // color 1 = {2} weight 1

	// Vertex 1 (weight 3) is uncolored; moving it into c1 should raise
	// that color's max weight from 1 to 3.
	predicted := a.DeltaScore(1, c1)
	before := a.Score()
	a.AddTo(1, c1)
	after := a.Score()

	if after-before != predicted {
		t.Fatalf("DeltaScore predicted %d, actual delta %d", predicted, after-before)
	}

	// Now predict moving vertex 1 from c1 back to c0: removal frees c1's
	// max back down to 1 (-2), insertion into c0 adds nothing since
	// weight(1)=3 < weight(0)=5.
	predicted2 := a.DeltaScore(1, c0)
	before2 := a.Score()
	a.DeleteFrom(1)
	a.AddTo(1, c0)
	after2 := a.Score()

	if after2-before2 != predicted2 {
		t.Fatalf("DeltaScore predicted %d, actual delta %d", predicted2, after2-before2)
	}
}

func TestDeltaConflictsMatchesConflictTable(t *testing.T) {
	g := triangle(t)
	a := New(g)

	c0 := a.AddTo(0, NewColor)
	c1 := a.AddTo(1, NewColor)

	// vertex 2 is uncolored, so "before" conflict is 0.
	want := a.Conflicts(c0, 2) - 0
	if got := a.DeltaConflicts(2, c0); got != want {
		t.Fatalf("DeltaConflicts(uncolored -> c0) = %d, want %d", got, want)
	}

	a.AddTo(2, c1)
	want2 := a.Conflicts(c0, 2) - a.Conflicts(c1, 2)
	if got := a.DeltaConflicts(2, c0); got != want2 {
		t.Fatalf("DeltaConflicts(c1 -> c0) = %d, want %d", got, want2)
	}
}

func TestFirstAvailableColorAndAvailableColors(t *testing.T) {
	g := triangle(t)
	a := New(g)

	c0 := a.AddTo(0, NewColor)
	a.AddTo(1, NewColor)

	// vertex 2 is adjacent to both 0 and 1, so neither existing color is
	// available to it.
	if fc := a.FirstAvailableColor(2); fc != NewColor {
		t.Fatalf("FirstAvailableColor(2) = %d, want NewColor", fc)
	}
	if avail := a.AvailableColors(2); len(avail) != 0 {
		t.Fatalf("AvailableColors(2) = %v, want empty", avail)
	}

	a.DeleteFrom(1)
	if fc := a.FirstAvailableColor(1); fc != NewColor && fc != c0 {
		t.Fatalf("unexpected FirstAvailableColor(1) = %d", fc)
	}
}

func TestIncrementEdgeWeightsRaisesConflictingEdgesOnly(t *testing.T) {
	g := triangle(t)
	a := New(g)

	c0 := a.AddTo(0, NewColor)
	a.AddTo(1, c0) // 0-1 conflicts, 1-2 and 0-2 do not (2 uncolored)

	beforePenalty := a.Penalty()
	a.IncrementEdgeWeights()

	if a.Penalty() <= beforePenalty {
		t.Fatalf("IncrementEdgeWeights did not raise penalty for the conflicting edge")
	}
	// edges 0-2 and 1-2 are not monochromatic, so their unit weights must
	// be untouched: vertex 2 still sees exactly 2 in color c0.
	if got := a.Conflicts(c0, 2); got != 2 {
		t.Fatalf("Conflicts(c0, 2) = %d, want 2 (non-conflicting edges must keep weight 1)", got)
	}
	if err := a.CheckSolution(); err != nil {
		t.Fatalf("CheckSolution after IncrementEdgeWeights: %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := triangle(t)
	a := New(g)
	a.AddTo(0, NewColor)

	b := a.Clone()
	b.AddTo(1, NewColor)

	if a.Color(1) != Uncolored {
		t.Fatalf("mutating the clone affected the original")
	}
	if err := a.CheckSolution(); err != nil {
		t.Fatalf("original CheckSolution: %v", err)
	}
	if err := b.CheckSolution(); err != nil {
		t.Fatalf("clone CheckSolution: %v", err)
	}
}

func TestScoreMatchesFromScratchRecomputation(t *testing.T) {
	g := triangle(t)
	a := New(g)

	c0 := a.AddTo(0, NewColor)
	a.AddTo(1, c0) // conflicting, unit edge weight
	a.AddTo(2, NewColor)

	got := scoreSnapshot{Score: a.Score(), Penalty: a.Penalty()}
	want := recomputeFromScratch(g, a)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("incremental state diverged from from-scratch recomputation (-want +got):\n%s", diff)
	}
}

func TestCheckSolutionDetectsCorruption(t *testing.T) {
	g := triangle(t)
	a := New(g)
	a.AddTo(0, NewColor)

	a.score += 1 // corrupt the incrementally maintained field directly

	if err := a.CheckSolution(); err == nil {
		t.Fatalf("expected CheckSolution to detect the corrupted score")
	}
}
