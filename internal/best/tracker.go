// Package best holds the process-wide bounds read by MCTS for pruning and
// by the tabu variants for aspiration (spec §3). It is single-writer (the
// currently running search) per the concurrency model in spec §5 — plain
// fields suffice, no atomics, since the system is single-threaded
// cooperative (contrast with a concurrent MCTS framework like the pack's
// IlikeChooros/go-mcts, which needs atomic.Int32 for exactly this kind of
// state because it runs multiple goroutines against one tree).
package best

import "math"

// Tracker holds the tightest bounds observed so far during a run.
type Tracker struct {
	score   int32
	nColors int32
}

// New returns a Tracker with both bounds initialized to "no bound yet".
func New() *Tracker {
	return &Tracker{score: math.MaxInt32, nColors: math.MaxInt32}
}

// Score returns the best (lowest) WVCP score observed so far.
func (t *Tracker) Score() int32 { return t.score }

// NColors returns the best (lowest) number of colors observed so far
// (the GCP sub-goal).
func (t *Tracker) NColors() int32 { return t.nColors }

// UpdateScore records score if it improves on the current bound. Returns
// true if it was an improvement. bestScore is monotone non-increasing
// during a run, per spec §3.
func (t *Tracker) UpdateScore(score int32) bool {
	if score < t.score {
		t.score = score
		return true
	}
	return false
}

// UpdateNColors records n if it improves on the current bound.
func (t *Tracker) UpdateNColors(n int32) bool {
	if n < t.nColors {
		t.nColors = n
		return true
	}
	return false
}
