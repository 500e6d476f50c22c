// Package assignment implements the incremental coloring state shared by
// every local search and every MCTS playout (spec §3, §4.B). This is the
// part of the system where a bug propagates silently as a wrong score: all
// neighborhood moves in every metaheuristic read the deltas computed here
// without applying them first.
package assignment

import (
	"errors"
	"sort"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
)

// NewColor is the sentinel passed to AddTo to request a freshly opened
// color. Uncolored is the value color[v] holds before it is assigned; both
// are -1, matching spec §3 ("color[v] ∈ {−1} ∪ UsedColors").
const (
	NewColor  int32 = -1
	Uncolored int32 = -1
)

// ErrInvariant is returned by CheckSolution when the incrementally
// maintained state disagrees with a from-scratch recomputation — an
// internal bug per spec §7.2, never expected in a correct build.
var ErrInvariant = errors.New("assignment: invariant violation")

// Assignment is a mutable coloring of a single Graph, owned by exactly one
// search at a time (spec §3). The zero value is not usable; use New.
type Assignment struct {
	g *graph.Graph
	n int

	color []int32 // color[v], Uncolored if unassigned

	// per color slot c in [0, n): members[c] sorted ascending by vertex
	// id, weights[c] sorted ascending by weight (so weights[c][last] is
	// the max weight in the class).
	members [][]int32
	weights [][]int32

	// conflict[c][v] = sum over neighbors u of v with color[u]=c of
	// edgeWeight[u][v]. Pre-allocated to capacity n x n since at most n
	// distinct colors can ever be opened.
	conflict [][]int32

	// edgeWeight[u*n+v], row major, RedLS support. 1 on edges, 0 off
	// edges, by default.
	edgeWeight []int32

	// conflictNeighbors[v] holds the set of neighbors u with color[u] =
	// color[v] (a monochromatic edge), giving O(deg(v)) enumeration of
	// conflicting edges incident to v and O(1) membership tests; this
	// realizes the "conflictEdges" invariant (spec §3) as a per-vertex
	// adjacency rather than a flat pair multiset, since every consumer
	// of conflictEdges in the spec (RedLS's S1/S3, TabuCol's inner loop)
	// only ever needs "is v currently conflicting" and "who with".
	conflictNeighbors []map[int32]struct{}

	usedColors  []int32 // sorted ascending
	freedColors []int32 // sorted ascending, available for recycling
	nAllocated  int32   // number of color slots ever allocated (high-water mark)

	score   int32
	penalty int32
}

// New returns an Assignment over g with every vertex uncolored.
func New(g *graph.Graph) *Assignment {
	n := g.N()
	a := &Assignment{
		g:                 g,
		n:                 n,
		color:             make([]int32, n),
		members:           make([][]int32, n),
		weights:           make([][]int32, n),
		conflict:          make([][]int32, n),
		edgeWeight:        make([]int32, n*n),
		conflictNeighbors: make([]map[int32]struct{}, n),
	}
	for v := 0; v < n; v++ {
		a.color[v] = Uncolored
		a.conflict[v] = make([]int32, n)
		a.conflictNeighbors[v] = make(map[int32]struct{})
	}
	for _, e := range g.Edges() {
		u, v := e[0], e[1]
		a.edgeWeight[u*n+v] = 1
		a.edgeWeight[v*n+u] = 1
	}
	return a
}

// Clone returns a deep copy, used by MCTS playouts and ILSTS's "working"
// copy (spec §4.D.6, §4.E).
func (a *Assignment) Clone() *Assignment {
	b := &Assignment{
		g:          a.g,
		n:          a.n,
		color:      append([]int32(nil), a.color...),
		members:    make([][]int32, a.n),
		weights:    make([][]int32, a.n),
		conflict:   make([][]int32, a.n),
		edgeWeight: append([]int32(nil), a.edgeWeight...),
		conflictNeighbors: make([]map[int32]struct{}, a.n),
		usedColors:  append([]int32(nil), a.usedColors...),
		freedColors: append([]int32(nil), a.freedColors...),
		nAllocated:  a.nAllocated,
		score:       a.score,
		penalty:     a.penalty,
	}
	for c := 0; c < a.n; c++ {
		b.members[c] = append([]int32(nil), a.members[c]...)
		b.weights[c] = append([]int32(nil), a.weights[c]...)
		b.conflict[c] = append([]int32(nil), a.conflict[c]...)
	}
	for v := 0; v < a.n; v++ {
		m := make(map[int32]struct{}, len(a.conflictNeighbors[v]))
		for u := range a.conflictNeighbors[v] {
			m[u] = struct{}{}
		}
		b.conflictNeighbors[v] = m
	}
	return b
}

func (a *Assignment) edgeW(u, v int) int32 { return a.edgeWeight[u*a.n+v] }

func (a *Assignment) setEdgeW(u, v int, w int32) {
	a.edgeWeight[u*a.n+v] = w
	a.edgeWeight[v*a.n+u] = w
}

// N returns the number of vertices in the underlying graph.
func (a *Assignment) N() int { return a.n }

// Color returns the color of v, or Uncolored.
func (a *Assignment) Color(v int) int32 { return a.color[v] }

// Score returns the current WVCP score.
func (a *Assignment) Score() int32 { return a.score }

// Penalty returns the current number of conflicting (monochromatic)
// edges, weighted by edgeWeight.
func (a *Assignment) Penalty() int32 { return a.penalty }

// Conflicts returns conflict[c][v].
func (a *Assignment) Conflicts(c int32, v int) int32 { return a.conflict[c][v] }

// HasConflicts reports whether v currently has a monochromatic edge.
func (a *Assignment) HasConflicts(v int) bool { return len(a.conflictNeighbors[v]) > 0 }

// MaxWeight returns the maximum vertex weight in color c, or 0 if c is
// empty/unused.
func (a *Assignment) MaxWeight(c int32) int32 {
	w := a.weights[c]
	if len(w) == 0 {
		return 0
	}
	return w[len(w)-1]
}

// IsColorEmpty reports whether c currently has no members.
func (a *Assignment) IsColorEmpty(c int32) bool { return len(a.members[c]) == 0 }

// Members returns the sorted vertex list of color c. Callers must not
// mutate the returned slice.
func (a *Assignment) Members(c int32) []int32 { return a.members[c] }

// UsedColors returns the sorted list of currently used color indices.
// Callers must not mutate the returned slice.
func (a *Assignment) UsedColors() []int32 { return a.usedColors }

// NColors returns |usedColors| + |freedColors|, the number of color slots
// ever allocated and not yet permanently retired (spec §3 — freed colors
// are still counted until recycled away by design choice of the original
// implementation, which never shrinks nb_colors on delete).
func (a *Assignment) NColors() int { return len(a.usedColors) + len(a.freedColors) }

// NUsedColors returns |usedColors|, the number of colors with at least one
// member — the WVCP/GCP notion of "colors actually in use".
func (a *Assignment) NUsedColors() int { return len(a.usedColors) }

// insertSortedInt32 inserts v into a sorted-ascending slice, returning the
// updated slice.
func insertSortedInt32(s []int32, v int32) []int32 {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= v })
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeSortedInt32(s []int32, v int32) []int32 {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= v })
	if i < len(s) && s[i] == v {
		copy(s[i:], s[i+1:])
		s = s[:len(s)-1]
	}
	return s
}

// secondMax returns the second largest element of a sorted-ascending
// slice, or 0 if it has fewer than 2 elements.
func secondMax(s []int32) int32 {
	if len(s) < 2 {
		return 0
	}
	return s[len(s)-2]
}

// allocateColor returns a color slot to use for a fresh color, preferring
// recycled indices (smallest first, for determinism) over never-used
// slots.
func (a *Assignment) allocateColor() int32 {
	if len(a.freedColors) > 0 {
		c := a.freedColors[0]
		a.freedColors = a.freedColors[1:]
		return c
	}
	c := a.nAllocated
	a.nAllocated++
	return c
}

// AddTo assigns v to color c (v must currently be Uncolored). If c is
// NewColor, a fresh color index is allocated (recycled from freed colors
// when possible). Returns the color actually used. O(deg(v) + log
// |members[c]|), per spec §4.B.
func (a *Assignment) AddTo(v int, c int32) int32 {
	if c == NewColor {
		c = a.allocateColor()
		a.usedColors = insertSortedInt32(a.usedColors, c)
	}
	w := a.g.Weight(v)

	a.color[v] = c
	for _, u := range a.g.Neighbors(v) {
		ew := a.edgeW(u, v)
		a.conflict[c][u] += ew
		if a.color[u] == c {
			a.penalty += ew
			a.conflictNeighbors[v][int32(u)] = struct{}{}
			a.conflictNeighbors[u][int32(v)] = struct{}{}
		}
	}

	oldMax := a.MaxWeight(c)
	a.members[c] = insertSortedInt32(a.members[c], int32(v))
	a.weights[c] = insertSortedInt32(a.weights[c], w)
	newMax := a.MaxWeight(c)
	a.score += newMax - oldMax

	return c
}

// DeleteFrom uncolors v, returning its old color. If the color becomes
// empty it is moved to freedColors. O(deg(v) + log |members[c0]|).
func (a *Assignment) DeleteFrom(v int) int32 {
	c0 := a.color[v]
	if c0 == Uncolored {
		return Uncolored
	}
	w := a.g.Weight(v)

	oldMax := a.MaxWeight(c0)
	a.members[c0] = removeSortedInt32(a.members[c0], int32(v))
	a.weights[c0] = removeSortedInt32(a.weights[c0], w)
	newMax := a.MaxWeight(c0)
	a.score += newMax - oldMax

	for _, u := range a.g.Neighbors(v) {
		ew := a.edgeW(u, v)
		a.conflict[c0][u] -= ew
		if a.color[u] == c0 {
			a.penalty -= ew
			delete(a.conflictNeighbors[v], int32(u))
			delete(a.conflictNeighbors[u], int32(v))
		}
	}

	a.color[v] = Uncolored

	if len(a.members[c0]) == 0 {
		a.usedColors = removeSortedInt32(a.usedColors, c0)
		a.freedColors = insertSortedInt32(a.freedColors, c0)
	}

	return c0
}

// DeltaScore computes the change in score that moving v to c would cause,
// without applying it. If v is uncolored the removal term is zero and the
// result is the insertion term alone. See spec §4.B.
func (a *Assignment) DeltaScore(v int, c int32) int32 {
	return a.deltaScoreRemoval(v) + a.deltaScoreInsertion(v, c)
}

// deltaScoreRemoval is term A of DeltaScore: the effect of removing v from
// its current color. Zero if v is uncolored.
func (a *Assignment) deltaScoreRemoval(v int) int32 {
	c0 := a.color[v]
	if c0 == Uncolored {
		return 0
	}
	w := a.g.Weight(v)
	if len(a.members[c0]) == 1 {
		return -w
	}
	if w == a.MaxWeight(c0) {
		sm := secondMax(a.weights[c0])
		if sm < w {
			return sm - w
		}
	}
	return 0
}

// deltaScoreInsertion is term B of DeltaScore: the effect of inserting v
// into color c (c may be NewColor or an existing, possibly empty, color).
func (a *Assignment) deltaScoreInsertion(v int, c int32) int32 {
	w := a.g.Weight(v)
	if c == NewColor || a.IsColorEmpty(c) {
		return w
	}
	if m := a.MaxWeight(c); w > m {
		return w - m
	}
	return 0
}

// DeltaConflicts computes the change in penalty that AddTo(v, c) would
// cause: conflict[c][v] - conflict[color(v)][v]. See spec §4.B.
func (a *Assignment) DeltaConflicts(v int, c int32) int32 {
	c0 := a.color[v]
	var before int32
	if c0 != Uncolored {
		before = a.conflict[c0][v]
	}
	var after int32
	if c != NewColor {
		after = a.conflict[c][v]
	}
	return after - before
}

// AvailableColors returns the used colors c with conflict[c][v] = 0.
func (a *Assignment) AvailableColors(v int) []int32 {
	var out []int32
	for _, c := range a.usedColors {
		if a.conflict[c][v] == 0 {
			out = append(out, c)
		}
	}
	return out
}

// FirstAvailableColor returns the first used color (in usedColors order)
// with zero conflict for v, or NewColor if none exists.
func (a *Assignment) FirstAvailableColor(v int) int32 {
	for _, c := range a.usedColors {
		if a.conflict[c][v] == 0 {
			return c
		}
	}
	return NewColor
}

// FreeColors returns the number of used colors c != color(v) with
// conflict[c][v] = 0 and maxWeight(c) >= weight(v) — used by ILSTS (spec
// §4.D.6). This is computed on demand (O(|usedColors|)) rather than
// incrementally maintained: the spec assigns addTo/deleteFrom an O(deg(v))
// budget, which an eagerly-maintained per-vertex free-color counter cannot
// meet (every move can change every color's max weight), and ILSTS is the
// only consumer, calling it a bounded number of times per outer turn.
func (a *Assignment) FreeColors(v int) int32 {
	cv := a.color[v]
	w := a.g.Weight(v)
	var n int32
	for _, c := range a.usedColors {
		if c == cv {
			continue
		}
		if a.conflict[c][v] == 0 && a.MaxWeight(c) >= w {
			n++
		}
	}
	return n
}

// ResetEdgeWeights restores every edge weight to 1 (RedLS support, spec
// §4.D.5). Does not affect score or penalty, which are defined over the
// unweighted conflict count multiplied by whatever edgeWeight is in
// effect at the time; callers that reset weights mid-search are expected
// to recompute penalty if needed (RedLS never does: it only increments).
func (a *Assignment) ResetEdgeWeights() {
	for _, e := range a.g.Edges() {
		a.setEdgeW(e[0], e[1], 1)
	}
}

// IncrementEdgeWeights adds 1 to the edge weight of every currently
// conflicting (monochromatic) edge, and increases conflict[color][·] and
// penalty to match, per spec §4.D.5/§8.
func (a *Assignment) IncrementEdgeWeights() {
	seen := make(map[[2]int32]struct{})
	for v := 0; v < a.n; v++ {
		cv := a.color[v]
		if cv == Uncolored {
			continue
		}
		for u := range a.conflictNeighbors[v] {
			key := [2]int32{int32(v), u}
			rkey := [2]int32{u, int32(v)}
			if _, ok := seen[rkey]; ok {
				continue
			}
			seen[key] = struct{}{}

			ui := int(u)
			a.setEdgeW(v, ui, a.edgeW(v, ui)+1)
			a.conflict[cv][ui]++
			a.conflict[cv][v]++
			a.penalty++
		}
	}
}

// CheckSolution recomputes the score, the penalty, and conflict[color(v)][v]
// for every colored vertex v from scratch and compares them against the
// incrementally maintained state, returning ErrInvariant on any mismatch.
// It does not check members, weights, usedColors/freedColors,
// conflictNeighbors, or conflict counts for colors other than v's own.
func (a *Assignment) CheckSolution() error {
	n := a.n
	wantScore := int32(0)
	wantPenalty := int32(0)

	maxW := make(map[int32]int32)
	for v := 0; v < n; v++ {
		c := a.color[v]
		if c == Uncolored {
			continue
		}
		w := a.g.Weight(v)
		if cur, ok := maxW[c]; !ok || w > cur {
			maxW[c] = w
		}
	}
	for _, m := range maxW {
		wantScore += m
	}

	for v := 0; v < n; v++ {
		if a.color[v] == Uncolored {
			continue
		}
		for _, u := range a.g.Neighbors(v) {
			if u > v && a.color[u] == a.color[v] {
				wantPenalty += a.edgeW(u, v)
			}
		}
	}

	if wantScore != a.score {
		return ErrInvariant
	}
	if wantPenalty != a.penalty {
		return ErrInvariant
	}

	for v := 0; v < n; v++ {
		cv := a.color[v]
		if cv == Uncolored {
			continue
		}
		var want int32
		for _, u := range a.g.Neighbors(v) {
			if a.color[u] == cv {
				want += a.edgeW(u, v)
			}
		}
		if want != a.conflict[cv][v] {
			return ErrInvariant
		}
	}

	return nil
}
