// Package config defines the enums and parameter bag that drive the
// Driver (spec §4.F, §6). These are pure value types: parsing CLI flags
// into a Params is the CLI's job (cmd/gcwvcpmcts), not this package's.
package config

import "fmt"

// Problem selects between the weighted and classical coloring problems.
type Problem string

const (
	ProblemWVCP Problem = "wvcp"
	ProblemGCP  Problem = "gcp"
)

// Method selects the top-level search method.
type Method string

const (
	MethodLocalSearch Method = "local_search"
	MethodMCTS        Method = "mcts"
)

// Initialization selects the seed policy (spec §4.C).
type Initialization string

const (
	InitRandom        Initialization = "random"
	InitConstrained   Initialization = "constrained"
	InitDeterministic Initialization = "deterministic"
	// InitWorst is used by tests; it is not exposed on the CLI because it
	// is only ever a deliberately bad upper bound (spec §4.C).
	InitWorst Initialization = "worst"
)

// LocalSearchKind selects the neighborhood-search metaheuristic (spec §4.D).
type LocalSearchKind string

const (
	LSNone          LocalSearchKind = "none"
	LSHillClimbing  LocalSearchKind = "hill_climbing"
	LSTabuCol       LocalSearchKind = "tabu_col"
	LSTabuWeight    LocalSearchKind = "tabu_weight"
	LSAfisa         LocalSearchKind = "afisa"
	LSAfisaOriginal LocalSearchKind = "afisa_original"
	LSRedLS         LocalSearchKind = "redls"
	LSILSTS         LocalSearchKind = "ilsts"
)

// Simulation selects the MCTS playout policy (spec §4.E).
type Simulation string

const (
	SimGreedy   Simulation = "greedy"
	SimFit      Simulation = "fit"
	SimDepth    Simulation = "depth"
	SimDepthFit Simulation = "depth_fit"
)

// Params bundles every CLI-controlled parameter, mirroring
// original_source/src/representation/Parameters.h (spec §6).
type Params struct {
	Problem          Problem
	Instance         string
	Method           Method
	TimeLimit        int // seconds
	RandSeed         int64
	Target           int32
	UseTarget        bool
	NbMaxIter        int64
	Initialization   Initialization
	MaxLSTime        int // seconds, -1 means "compute from OTime/PTime"
	CoeffExploExploi float64
	LocalSearch      LocalSearchKind
	Simulation       Simulation
	OTime            int
	PTime            float64
	OutputFile       string
}

// Validate rejects unknown enum values with a diagnostic, per spec §7
// ("bad input... unknown enum values in CLI — fail fast").
func (p Params) Validate() error {
	switch p.Problem {
	case ProblemWVCP, ProblemGCP:
	default:
		return fmt.Errorf("config: unknown --problem %q", p.Problem)
	}
	switch p.Method {
	case MethodLocalSearch, MethodMCTS:
	default:
		return fmt.Errorf("config: unknown --method %q", p.Method)
	}
	switch p.Initialization {
	case InitRandom, InitConstrained, InitDeterministic:
	default:
		return fmt.Errorf("config: unknown --initialization %q", p.Initialization)
	}
	switch p.LocalSearch {
	case LSNone, LSHillClimbing, LSTabuCol, LSTabuWeight, LSAfisa, LSAfisaOriginal, LSRedLS, LSILSTS:
	default:
		return fmt.Errorf("config: unknown --local_search %q", p.LocalSearch)
	}
	switch p.Simulation {
	case SimGreedy, SimFit, SimDepth, SimDepthFit:
	default:
		return fmt.Errorf("config: unknown --simulation %q", p.Simulation)
	}
	if p.Instance == "" {
		return fmt.Errorf("config: --instance is required")
	}
	return nil
}
