// Package clock implements the process-wide deadline clock and the
// cooperative signal handling described in the spec (§5, §6): a read-only
// deadline that may be advanced to "now" exactly once by a stop signal,
// polled at the top of every outer loop by every search method.
package clock

import (
	"context"
	"time"
)

// Deadline is a cancellation-only clock, shaped to match
// context.Context's Done()/Err() pair (see gonum's graph/coloring
// Terminator interface, which is intentionally context-compatible for the
// same reason: callers that already hold a context.Context can be used
// directly as a Deadline).
type Deadline interface {
	// Done returns a channel that is closed once the deadline has
	// passed or a stop signal has been delivered.
	Done() <-chan struct{}
	// Expired is a non-blocking poll, used in hot inner loops where
	// selecting on Done() every iteration would be wasteful.
	Expired() bool
}

type ctxDeadline struct {
	ctx context.Context
}

// FromContext adapts a context.Context into a Deadline.
func FromContext(ctx context.Context) Deadline {
	return ctxDeadline{ctx: ctx}
}

func (d ctxDeadline) Done() <-chan struct{} { return d.ctx.Done() }

func (d ctxDeadline) Expired() bool {
	select {
	case <-d.ctx.Done():
		return true
	default:
		return false
	}
}

// Context returns the underlying context.Context, for composing
// sub-deadlines with context.WithDeadline.
func (d ctxDeadline) Context() context.Context { return d.ctx }

// SubDeadline builds the "sub-method deadline" every local search uses:
// min(global deadline, methodStart + maxDuration). If maxDuration <= 0 the
// sub-deadline is just the global deadline (no extra bound).
func SubDeadline(global Deadline, methodStart time.Time, maxDuration time.Duration) (Deadline, context.CancelFunc) {
	parent := context.Background()
	if gc, ok := global.(ctxDeadline); ok {
		parent = gc.ctx
	}
	if maxDuration <= 0 {
		return FromContext(parent), func() {}
	}
	ctx, cancel := context.WithDeadline(parent, methodStart.Add(maxDuration))
	return FromContext(ctx), cancel
}

// MaxLocalSearchTime computes --max_time_local_search when it is given as
// -1: O + ceil(P * n) seconds, floored at 1 second, per spec §6.
func MaxLocalSearchTime(configured int, oTime int, pTime float64, n int) time.Duration {
	if configured != -1 {
		return time.Duration(configured) * time.Second
	}
	secs := oTime + int(ceilFloat(pTime*float64(n)))
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}

func ceilFloat(x float64) float64 {
	i := float64(int64(x))
	if x > i {
		return i + 1
	}
	return i
}
