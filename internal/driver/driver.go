// Package driver binds an Initializer and a LocalSearch (and, for MCTS,
// a simulation policy) into the two exposed methods described in spec
// §4.F: LocalSearch and MCTS. Both are thin orchestrators — all of the
// actual search logic lives in internal/localsearch and internal/mcts.
package driver

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/assignment"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/best"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/clock"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/config"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/initialize"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/ioformat"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/localsearch"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/mcts"
)

// Method is the polymorphic search-method interface (spec §9's "tagged
// variant": LocalSearch and MCTS each implement it, nothing more).
type Method interface {
	Run(ctx context.Context) (ioformat.Record, error)
	Name() string
}

func coloringSnapshot(a *assignment.Assignment, n int) []int32 {
	out := make([]int32, n)
	for v := 0; v < n; v++ {
		out[v] = a.Color(v)
	}
	return out
}

func countConflictEdges(a *assignment.Assignment, g *graph.Graph) int32 {
	var n int32
	for v := 0; v < g.N(); v++ {
		for _, u := range g.Neighbors(v) {
			if u > v && a.Color(u) == a.Color(v) {
				n++
			}
		}
	}
	return n
}

// localSearchMethod runs one local search once over a freshly seeded
// Assignment (spec §4.F "LocalSearch").
type localSearchMethod struct {
	g     *graph.Graph
	p     config.Params
	w     *ioformat.Writer
	best  *best.Tracker
	start time.Time
}

// NewLocalSearch builds the LocalSearch method.
func NewLocalSearch(g *graph.Graph, p config.Params, w *ioformat.Writer, tr *best.Tracker) Method {
	return &localSearchMethod{g: g, p: p, w: w, best: tr, start: time.Now()}
}

func (m *localSearchMethod) Name() string { return string(config.MethodLocalSearch) }

func (m *localSearchMethod) Run(ctx context.Context) (ioformat.Record, error) {
	rng := rand.New(rand.NewSource(m.p.RandSeed))

	initFn, ok := initialize.Registry[m.p.Initialization]
	if !ok {
		return ioformat.Record{}, fmt.Errorf("driver: unknown initialization %q", m.p.Initialization)
	}
	lsFn, ok := localsearch.Registry[m.p.LocalSearch]
	if !ok {
		return ioformat.Record{}, fmt.Errorf("driver: unknown local search %q", m.p.LocalSearch)
	}

	a := assignment.New(m.g)
	initFn(a, rng)
	m.best.UpdateScore(a.Score())
	m.best.UpdateNColors(int32(a.NUsedColors()))

	if err := m.w.WriteHeader(); err != nil {
		return ioformat.Record{}, err
	}

	maxLS := clock.MaxLocalSearchTime(m.p.MaxLSTime, m.p.OTime, m.p.PTime, m.g.N())
	subCtx, cancel := clock.SubDeadline(clock.FromContext(ctx), m.start, maxLS)
	defer cancel()

	deadline, ok := subCtx.(interface{ Context() context.Context })
	runCtx := ctx
	if ok {
		runCtx = deadline.Context()
	}

	lsParams := localsearch.Params{Target: m.p.Target, HasTarget: m.p.UseTarget, Best: m.best}
	res := lsFn(runCtx, a, m.g, rng, lsParams)

	m.best.UpdateScore(a.Score())
	m.best.UpdateNColors(int32(a.NUsedColors()))

	rec := ioformat.Record{
		Date:           time.Now().UTC().Format(time.RFC3339),
		Problem:        string(m.p.Problem),
		Instance:       m.p.Instance,
		Method:         m.Name(),
		RandSeed:       m.p.RandSeed,
		Turn:           res.Turns,
		ElapsedSeconds: time.Since(m.start).Seconds(),
		NColors:        int32(a.NUsedColors()),
		NConflicts:     countConflictEdges(a, m.g),
		Score:          a.Score(),
		Coloring:       coloringSnapshot(a, m.g.N()),
	}
	if err := m.w.WriteRecord(rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// mctsMethod builds and runs the MCTS tree (spec §4.F "MCTS").
type mctsMethod struct {
	g     *graph.Graph
	p     config.Params
	w     *ioformat.Writer
	best  *best.Tracker
	start time.Time
}

// NewMCTS builds the MCTS method.
func NewMCTS(g *graph.Graph, p config.Params, w *ioformat.Writer, tr *best.Tracker) Method {
	return &mctsMethod{g: g, p: p, w: w, best: tr, start: time.Now()}
}

func (m *mctsMethod) Name() string { return string(config.MethodMCTS) }

func (m *mctsMethod) Run(ctx context.Context) (ioformat.Record, error) {
	rng := rand.New(rand.NewSource(m.p.RandSeed))

	initFn, ok := initialize.Registry[m.p.Initialization]
	if !ok {
		return ioformat.Record{}, fmt.Errorf("driver: unknown initialization %q", m.p.Initialization)
	}
	var lsFn localsearch.Func
	if m.p.LocalSearch != config.LSNone {
		var ok bool
		lsFn, ok = localsearch.Registry[m.p.LocalSearch]
		if !ok {
			return ioformat.Record{}, fmt.Errorf("driver: unknown local search %q", m.p.LocalSearch)
		}
	}

	if err := m.w.WriteHeader(); err != nil {
		return ioformat.Record{}, err
	}

	cfg := mcts.Config{
		Best:             m.best,
		CoeffExploExploi: m.p.CoeffExploExploi,
		MaxIterations:    m.p.NbMaxIter,
		Target:           m.p.Target,
		HasTarget:        m.p.UseTarget,
		Init:             initFn,
		LocalSearch:      lsFn,
		Simulation:       m.p.Simulation,
		SimLSBudget:      clock.MaxLocalSearchTime(m.p.MaxLSTime, m.p.OTime, m.p.PTime, m.g.N()),
	}

	res := mcts.Run(ctx, m.g, rng, cfg)

	rec := ioformat.Record{
		Date:           time.Now().UTC().Format(time.RFC3339),
		Problem:        string(m.p.Problem),
		Instance:       m.p.Instance,
		Method:         m.Name(),
		RandSeed:       m.p.RandSeed,
		Turn:           res.Iterations,
		ElapsedSeconds: time.Since(m.start).Seconds(),
		NColors:        m.best.NColors(),
		NConflicts:     0,
		Score:          m.best.Score(),
	}
	if err := m.w.WriteRecord(rec); err != nil {
		return rec, err
	}
	return rec, nil
}
