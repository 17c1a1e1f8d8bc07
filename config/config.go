// Package config loads and validates the settings an experiment.Controller
// run needs beyond the morphology/scape it targets: population sizing,
// mutation/selection constraints, termination limits, and where to persist
// and report results. Defaults are established in Go, then overridden by an
// optional TOML file, then by explicit CLI flags, in that order — the same
// precedence the teacher's sim/observe commands apply to SimulationParameters.
package config

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/hibernatus-hacker/bardo-sub002/agent"
	"github.com/hibernatus-hacker/bardo-sub002/mutation"
	"github.com/hibernatus-hacker/bardo-sub002/neuromath"
	"github.com/hibernatus-hacker/bardo-sub002/population"
	"github.com/hibernatus-hacker/bardo-sub002/selection"
)

// ExperimentSettings names what is being run and where its state lives —
// the experiment-identity half of AppConfig, as opposed to the tuning
// knobs in ExperimentConstraints.
type ExperimentSettings struct {
	Name           string `toml:"name"`
	MorphologyName string `toml:"morphology_name"`
	ScapeName      string `toml:"scape_name"`
	TotalRuns      int    `toml:"total_runs"`

	// StorePath is a SQLite file path; empty uses an in-memory store for
	// the lifetime of the process (no resume possible across restarts).
	StorePath  string `toml:"store_path"`
	ReportPath string `toml:"report_path"`

	Seed int64 `toml:"seed"`
}

// ExperimentConstraints bundles every tunable the population manager and
// agent exoselves need, in the string/TOML-friendly form config files use;
// ToPopulationConfig converts it into the concrete types those packages
// consume.
type ExperimentConstraints struct {
	TargetPopulationSize int `toml:"target_population_size"`

	AllowedActivations []string `toml:"allowed_activations"`
	AllowedAggregators []string `toml:"allowed_aggregators"`
	AllowedPlasticity  []string `toml:"allowed_plasticity"`

	OperatorProbabilities map[string]float64 `toml:"operator_probabilities"`
	PerturbationSpread    float64            `toml:"perturbation_spread"`
	MaxMutationAttempts   int                `toml:"max_mutation_attempts"`

	SelectionAlgorithm string  `toml:"selection_algorithm"`
	TournamentSize     int     `toml:"tournament_size"`
	ElitismRatio       float64 `toml:"elitism_ratio"`

	SpeciationThreshold float64 `toml:"speciation_threshold"`
	ShofRatio           float64 `toml:"shof_ratio"`
	ReEntryProbability  float64 `toml:"re_entry_probability"`

	Heredity             string  `toml:"heredity"`
	TuningDurationKind   string  `toml:"tuning_duration_kind"`
	TuningDurationK      int     `toml:"tuning_duration_k"`
	TuningDurationP      float64 `toml:"tuning_duration_p"`
	TuningSelectionKind  string  `toml:"tuning_selection_kind"`
	PerturbationRange    float64 `toml:"perturbation_range"`
	AnnealingParam       float64 `toml:"annealing_param"`
	MinPImprovement      float64 `toml:"min_p_improvement"`

	MaxGenerations       int     `toml:"max_generations"`
	MaxFitnessStagnation int     `toml:"max_fitness_stagnation"`
	FailureFitnessFloor  float64 `toml:"failure_fitness_floor"`
}

// AppConfig is the top-level configuration structure, aggregating
// experiment identity and its tuning constraints.
type AppConfig struct {
	Experiment  ExperimentSettings    `toml:"experiment"`
	Constraints ExperimentConstraints `toml:"constraints"`
}

// DefaultConstraints mirrors the S1 (XOR) scenario's operator mix from
// spec.md §8, a reasonable starting point for experiments that don't
// override it via a TOML file or flags.
func DefaultConstraints() ExperimentConstraints {
	return ExperimentConstraints{
		TargetPopulationSize: 200,
		AllowedActivations:   []string{"tanh", "sigmoid", "sin", "gaussian", "linear"},
		AllowedAggregators:   []string{"dot_product"},
		AllowedPlasticity:    []string{"none"},
		OperatorProbabilities: map[string]float64{
			"modify_weights":     0.8,
			"add_neuron":         0.03,
			"add_connection":     0.05,
			"remove_connection":  0.02,
			"remove_neuron":      0.01,
			"enable_connection":  0.02,
			"disable_connection": 0.02,
		},
		PerturbationSpread:  1.0,
		MaxMutationAttempts: 20,
		SelectionAlgorithm:  "truncation",
		TournamentSize:      4,
		ElitismRatio:        0.2,
		SpeciationThreshold: 3.0,
		ShofRatio:           0.1,
		ReEntryProbability:  0.05,
		Heredity:            "darwinian",
		TuningDurationKind:  "const",
		TuningDurationK:     20,
		TuningSelectionKind: "dynamic_random",
		PerturbationRange:   1.0,
		AnnealingParam:      0.9,
		MinPImprovement:     0.0,
		MaxGenerations:      500,
		MaxFitnessStagnation: 50,
		FailureFitnessFloor: -1.0,
	}
}

// Load establishes ExperimentConstraints defaults, overrides them from a
// TOML file at path (if non-empty), then returns the result — the
// defaults -> file precedence step; CLI flags are applied by the caller
// on top of the returned AppConfig, mirroring the teacher's sim command
// (defaults, then toml.DecodeFile, then cmd.Flags().Changed overrides).
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{Constraints: DefaultConstraints()}
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// BindFlags registers CLI flags for every ExperimentSettings/
// ExperimentConstraints field onto fSet, defaulting each flag to cfg's
// current value so that unset flags leave cfg untouched. Call after Load
// so file-provided values become the flags' defaults, matching the
// teacher's defaults -> file -> flags precedence.
func BindFlags(fSet *flag.FlagSet, cfg *AppConfig) {
	fSet.StringVar(&cfg.Experiment.Name, "name", cfg.Experiment.Name, "Experiment name.")
	fSet.StringVar(&cfg.Experiment.MorphologyName, "morphology", cfg.Experiment.MorphologyName, "Registered morphology name.")
	fSet.StringVar(&cfg.Experiment.ScapeName, "scape", cfg.Experiment.ScapeName, "Registered scape name.")
	fSet.IntVar(&cfg.Experiment.TotalRuns, "runs", cfg.Experiment.TotalRuns, "Total runs to execute.")
	fSet.StringVar(&cfg.Experiment.StorePath, "store", cfg.Experiment.StorePath, "SQLite store path (empty for in-memory).")
	fSet.StringVar(&cfg.Experiment.ReportPath, "report", cfg.Experiment.ReportPath, "Report file output path.")
	fSet.Int64Var(&cfg.Experiment.Seed, "seed", cfg.Experiment.Seed, "Random seed (0 uses current time).")

	fSet.IntVar(&cfg.Constraints.TargetPopulationSize, "population", cfg.Constraints.TargetPopulationSize, "Target population size per specie.")
	fSet.IntVar(&cfg.Constraints.MaxGenerations, "maxGenerations", cfg.Constraints.MaxGenerations, "Maximum generations per run.")
	fSet.IntVar(&cfg.Constraints.MaxFitnessStagnation, "maxStagnation", cfg.Constraints.MaxFitnessStagnation, "Generations of no improvement before stopping.")
}

// ParseArgs parses args (os.Args[1:]) against fSet and sets cfg.Experiment.Seed
// to the current time if it is still zero afterward, mirroring the
// teacher's LoadCLIConfig zero-seed fallback.
func ParseArgs(fSet *flag.FlagSet, cfg *AppConfig, args []string) error {
	if err := fSet.Parse(args); err != nil {
		return fmt.Errorf("config: parse flags: %w", err)
	}
	if cfg.Experiment.Seed == 0 {
		cfg.Experiment.Seed = time.Now().UnixNano()
	}
	if cfg.Experiment.StorePath != "" {
		cfg.Experiment.StorePath = filepath.Clean(cfg.Experiment.StorePath)
	}
	return nil
}

// Validate checks AppConfig for internally-consistent, usable values.
func (ac *AppConfig) Validate() error {
	c := ac.Constraints
	if strings.TrimSpace(ac.Experiment.MorphologyName) == "" {
		return fmt.Errorf("experiment.morphology_name must be set")
	}
	if strings.TrimSpace(ac.Experiment.ScapeName) == "" {
		return fmt.Errorf("experiment.scape_name must be set")
	}
	if ac.Experiment.TotalRuns <= 0 {
		return fmt.Errorf("experiment.total_runs must be positive, got %d", ac.Experiment.TotalRuns)
	}
	if c.TargetPopulationSize <= 0 {
		return fmt.Errorf("constraints.target_population_size must be positive, got %d", c.TargetPopulationSize)
	}
	if len(c.AllowedActivations) == 0 {
		return fmt.Errorf("constraints.allowed_activations must name at least one activation")
	}
	if len(c.AllowedAggregators) == 0 {
		return fmt.Errorf("constraints.allowed_aggregators must name at least one aggregator")
	}
	if len(c.AllowedPlasticity) == 0 {
		return fmt.Errorf("constraints.allowed_plasticity must name at least one plasticity rule")
	}
	if c.ElitismRatio < 0 || c.ElitismRatio > 1 {
		return fmt.Errorf("constraints.elitism_ratio must be within [0, 1], got %f", c.ElitismRatio)
	}
	if c.ShofRatio < 0 || c.ShofRatio > 1 {
		return fmt.Errorf("constraints.shof_ratio must be within [0, 1], got %f", c.ShofRatio)
	}
	if c.ReEntryProbability < 0 || c.ReEntryProbability > 1 {
		return fmt.Errorf("constraints.re_entry_probability must be within [0, 1], got %f", c.ReEntryProbability)
	}
	if c.MaxGenerations <= 0 {
		return fmt.Errorf("constraints.max_generations must be positive, got %d", c.MaxGenerations)
	}
	if c.MaxFitnessStagnation <= 0 {
		return fmt.Errorf("constraints.max_fitness_stagnation must be positive, got %d", c.MaxFitnessStagnation)
	}
	if _, err := parseSelectionAlgorithm(c.SelectionAlgorithm); err != nil {
		return err
	}
	if _, err := parseHeredity(c.Heredity); err != nil {
		return err
	}
	if _, err := parseActivations(c.AllowedActivations); err != nil {
		return err
	}
	if _, err := parseAggregators(c.AllowedAggregators); err != nil {
		return err
	}
	if _, err := parsePlasticity(c.AllowedPlasticity); err != nil {
		return err
	}
	return nil
}

// ToMutationConstraints converts the TOML-friendly string fields into the
// enum/weighted-map form mutation.Constraints consumes.
func (c ExperimentConstraints) ToMutationConstraints() (mutation.Constraints, error) {
	activations, err := parseActivations(c.AllowedActivations)
	if err != nil {
		return mutation.Constraints{}, err
	}
	aggregators, err := parseAggregators(c.AllowedAggregators)
	if err != nil {
		return mutation.Constraints{}, err
	}
	plasticity, err := parsePlasticity(c.AllowedPlasticity)
	if err != nil {
		return mutation.Constraints{}, err
	}
	probs := make(map[mutation.Operator]float64, len(c.OperatorProbabilities))
	for name, p := range c.OperatorProbabilities {
		probs[mutation.Operator(name)] = p
	}
	return mutation.Constraints{
		AllowedActivations:    activations,
		AllowedAggregators:    aggregators,
		AllowedPlasticity:     plasticity,
		OperatorProbabilities: probs,
		PerturbationSpread:    c.PerturbationSpread,
		MaxAttempts:           c.MaxMutationAttempts,
	}, nil
}

// ToSelectionParams converts the selection-related fields into
// selection.Params.
func (c ExperimentConstraints) ToSelectionParams() (selection.Params, error) {
	algo, err := parseSelectionAlgorithm(c.SelectionAlgorithm)
	if err != nil {
		return selection.Params{}, err
	}
	return selection.Params{Algorithm: algo, TournamentSize: c.TournamentSize, ElitismRatio: c.ElitismRatio}, nil
}

// ToExoselfConfig converts the tuning-phase fields into agent.Config.
func (c ExperimentConstraints) ToExoselfConfig() (agent.Config, error) {
	heredity, err := parseHeredity(c.Heredity)
	if err != nil {
		return agent.Config{}, err
	}
	return agent.Config{
		Heredity: heredity,
		TuningAttempts: mutation.Duration{
			Kind: mutation.DurationKind(c.TuningDurationKind),
			K:    c.TuningDurationK,
			P:    c.TuningDurationP,
		},
		TuningSelection:      mutation.SelectionKind(c.TuningSelectionKind),
		PerturbationRange:    c.PerturbationRange,
		AnnealingParam:       c.AnnealingParam,
		MinPImprovement:      c.MinPImprovement,
		MaxFitnessStagnation: c.MaxFitnessStagnation,
	}, nil
}

// ToPopulationConfig assembles the full population.Config a Manager needs,
// delegating each sub-conversion to ToMutationConstraints/
// ToSelectionParams/ToExoselfConfig and filling in the remaining scalar
// fields directly.
func (c ExperimentConstraints) ToPopulationConfig(logger *log.Logger) (population.Config, error) {
	mutationConstraints, err := c.ToMutationConstraints()
	if err != nil {
		return population.Config{}, err
	}
	selectionParams, err := c.ToSelectionParams()
	if err != nil {
		return population.Config{}, err
	}
	exoselfConfig, err := c.ToExoselfConfig()
	if err != nil {
		return population.Config{}, err
	}
	return population.Config{
		TargetPopulationSize: c.TargetPopulationSize,
		Constraints:          mutationConstraints,
		SelectionParams:      selectionParams,
		SpeciationThreshold:  c.SpeciationThreshold,
		ShofRatio:            c.ShofRatio,
		ReEntryProbability:   c.ReEntryProbability,
		ExoselfConfig:        exoselfConfig,
		MaxGenerations:       c.MaxGenerations,
		MaxFitnessStagnation: c.MaxFitnessStagnation,
		FailureFitnessFloor:  c.FailureFitnessFloor,
		Logger:               logger,
	}, nil
}

func parseSelectionAlgorithm(name string) (selection.Algorithm, error) {
	switch selection.Algorithm(name) {
	case selection.AlgorithmTournament, selection.AlgorithmRank, selection.AlgorithmTruncation:
		return selection.Algorithm(name), nil
	default:
		return "", fmt.Errorf("config: unknown selection_algorithm %q", name)
	}
}

func parseHeredity(name string) (agent.Heredity, error) {
	switch name {
	case "darwinian":
		return agent.Darwinian, nil
	case "lamarckian":
		return agent.Lamarckian, nil
	default:
		return 0, fmt.Errorf("config: unknown heredity %q, want \"darwinian\" or \"lamarckian\"", name)
	}
}

func parseActivations(names []string) ([]neuromath.Activation, error) {
	out := make([]neuromath.Activation, len(names))
	for i, name := range names {
		a, ok := activationByName[name]
		if !ok {
			return nil, fmt.Errorf("config: unknown activation %q", name)
		}
		out[i] = a
	}
	return out, nil
}

func parseAggregators(names []string) ([]neuromath.Aggregator, error) {
	out := make([]neuromath.Aggregator, len(names))
	for i, name := range names {
		a, ok := aggregatorByName[name]
		if !ok {
			return nil, fmt.Errorf("config: unknown aggregator %q", name)
		}
		out[i] = a
	}
	return out, nil
}

func parsePlasticity(names []string) ([]neuromath.Rule, error) {
	out := make([]neuromath.Rule, len(names))
	for i, name := range names {
		r, ok := plasticityByName[name]
		if !ok {
			return nil, fmt.Errorf("config: unknown plasticity rule %q", name)
		}
		out[i] = r
	}
	return out, nil
}

var activationByName = func() map[string]neuromath.Activation {
	m := make(map[string]neuromath.Activation, len(neuromath.AllActivations))
	for _, a := range neuromath.AllActivations {
		m[a.String()] = a
	}
	return m
}()

var aggregatorByName = map[string]neuromath.Aggregator{
	"dot_product":  neuromath.DotProduct,
	"diff_product": neuromath.DiffProduct,
	"mult_product": neuromath.MultProduct,
}

var plasticityByName = map[string]neuromath.Rule{
	"none":                neuromath.None,
	"hebbian_w":           neuromath.HebbianW,
	"hebbian":             neuromath.Hebbian,
	"ojas_w":              neuromath.OjasW,
	"ojas":                neuromath.Ojas,
	"neuromodulation":     neuromath.Neuromodulation,
	"self_modulation_v1":  neuromath.SelfModulationV1,
	"self_modulation_v2":  neuromath.SelfModulationV2,
	"self_modulation_v3":  neuromath.SelfModulationV3,
	"self_modulation_v4":  neuromath.SelfModulationV4,
	"self_modulation_v5":  neuromath.SelfModulationV5,
	"self_modulation_v6":  neuromath.SelfModulationV6,
}
