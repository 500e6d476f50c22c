// Command gcwvcpmcts is the CLI entrypoint: it parses the flags listed
// in spec §6, loads a DIMACS instance pair, runs the selected method
// (local_search or mcts) until its deadline, and writes a CSV telemetry
// file. Flag parsing follows the teacher pack's only real flag-based
// CLI, lnz/BalancedGo's balanced.go: flag.<Type>(name, default, usage)
// then flag.Parse(), fmt.Fprintf(os.Stderr, ...) + flag.PrintDefaults()
// on bad input, and a bare os.Exit(1) for IO/parse errors.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/best"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/clock"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/config"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/driver"
	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/ioformat"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("gcwvcpmcts", flag.ContinueOnError)

	problem := fs.String("problem", "wvcp", "problem variant: wvcp|gcp")
	instanceDir := fs.String("instance_dir", ".", "directory holding <instance>.col and <instance>.col.w")
	instance := fs.String("instance", "", "instance name (without extension)")
	method := fs.String("method", "local_search", "search method: local_search|mcts")
	timeLimit := fs.Int("time_limit", 60, "overall time budget in seconds")
	randSeed := fs.Int64("rand_seed", 1, "RNG seed")
	target := fs.Int("target", 0, "target score; only used when --use_target is set")
	useTarget := fs.Bool("use_target", false, "stop as soon as --target is reached")
	nbMaxIter := fs.Int64("nb_max_iterations", -1, "MCTS iteration budget; -1 means unbounded (deadline-only)")
	initialization := fs.String("initialization", "random", "seed policy: random|constrained|deterministic")
	localSearchKind := fs.String("local_search", "none", "local search: none|hill_climbing|tabu_col|tabu_weight|afisa|afisa_original|redls|ilsts")
	simulation := fs.String("simulation", "greedy", "MCTS playout policy: greedy|fit|depth|depth_fit")
	coeffExploExploi := fs.Float64("coeff_exploi_explo", 0.5, "UCB1 exploration/exploitation coefficient")
	maxTimeLS := fs.Int("max_time_local_search", -1, "local search budget in seconds (per playout under mcts); -1 computes O+ceil(P*n)")
	oTime := fs.Int("O_time", 1, "O term of the max_time_local_search formula")
	pTime := fs.Float64("P_time", 0.01, "P term of the max_time_local_search formula")
	outputFile := fs.String("output_file", "", "CSV output path; defaults to <instance>_<method>.csv")

	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *instance == "" {
		fmt.Fprintln(os.Stderr, "gcwvcpmcts: --instance is required")
		fs.PrintDefaults()
		return 1
	}

	out := *outputFile
	if out == "" {
		out = fmt.Sprintf("%s_%s.csv", *instance, *method)
	}

	p := config.Params{
		Problem:          config.Problem(*problem),
		Instance:         *instance,
		Method:           config.Method(*method),
		TimeLimit:        *timeLimit,
		RandSeed:         *randSeed,
		Target:           int32(*target),
		UseTarget:        *useTarget,
		NbMaxIter:        *nbMaxIter,
		Initialization:   config.Initialization(*initialization),
		MaxLSTime:        *maxTimeLS,
		CoeffExploExploi: *coeffExploExploi,
		LocalSearch:      config.LocalSearchKind(*localSearchKind),
		Simulation:       config.Simulation(*simulation),
		OTime:            *oTime,
		PTime:            *pTime,
		OutputFile:       out,
	}

	if err := p.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "gcwvcpmcts:", err)
		return 1
	}

	g, err := ioformat.LoadInstance(*instanceDir, p.Instance, p.Problem == config.ProblemWVCP)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gcwvcpmcts:", err)
		return 1
	}

	w, err := ioformat.NewWriter(p.OutputFile, p.Method == config.MethodMCTS)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gcwvcpmcts:", err)
		return 1
	}

	rootCtx, stop := clock.WithStopSignal(context.Background())
	defer stop()
	ctx, cancel := context.WithTimeout(rootCtx, time.Duration(p.TimeLimit)*time.Second)
	defer cancel()

	tr := best.New()

	var m driver.Method
	switch p.Method {
	case config.MethodMCTS:
		m = driver.NewMCTS(g, p, w, tr)
	default:
		m = driver.NewLocalSearch(g, p, w, tr)
	}

	_, runErr := m.Run(ctx)
	closeErr := w.Close(runErr == nil)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "gcwvcpmcts:", runErr)
		return 1
	}
	if closeErr != nil {
		fmt.Fprintln(os.Stderr, "gcwvcpmcts:", closeErr)
		return 1
	}
	return 0
}
