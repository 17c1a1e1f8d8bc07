package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/hibernatus-hacker/bardo-sub002/selection"
)

func TestDefaultConstraintsIsValidOnceWrappedInAnAppConfig(t *testing.T) {
	ac := &AppConfig{
		Experiment:  ExperimentSettings{MorphologyName: "xor", ScapeName: "xor", TotalRuns: 1},
		Constraints: DefaultConstraints(),
	}
	if err := ac.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsMissingMorphologyName(t *testing.T) {
	ac := &AppConfig{
		Experiment:  ExperimentSettings{ScapeName: "xor", TotalRuns: 1},
		Constraints: DefaultConstraints(),
	}
	if err := ac.Validate(); err == nil {
		t.Fatalf("expected an error when morphology_name is unset")
	}
}

func TestValidateRejectsOutOfRangeRatios(t *testing.T) {
	ac := &AppConfig{
		Experiment:  ExperimentSettings{MorphologyName: "xor", ScapeName: "xor", TotalRuns: 1},
		Constraints: DefaultConstraints(),
	}
	ac.Constraints.ElitismRatio = 1.5
	if err := ac.Validate(); err == nil {
		t.Fatalf("expected an error for elitism_ratio > 1")
	}
}

func TestLoadWithEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned an error: %v", err)
	}
	if cfg.Constraints.TargetPopulationSize != DefaultConstraints().TargetPopulationSize {
		t.Fatalf("Load(\"\") did not return default constraints")
	}
}

func TestLoadDecodesATOMLFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiment.toml")
	contents := `
[experiment]
name = "xor-run"
morphology_name = "xor"
scape_name = "xor"
total_runs = 3

[constraints]
target_population_size = 50
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing test TOML file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) returned an error: %v", path, err)
	}
	if cfg.Experiment.Name != "xor-run" {
		t.Fatalf("Experiment.Name = %q, want %q", cfg.Experiment.Name, "xor-run")
	}
	if cfg.Constraints.TargetPopulationSize != 50 {
		t.Fatalf("Constraints.TargetPopulationSize = %d, want 50", cfg.Constraints.TargetPopulationSize)
	}
	// Fields the TOML file didn't mention keep their Go-side defaults.
	if cfg.Constraints.SelectionAlgorithm != "truncation" {
		t.Fatalf("Constraints.SelectionAlgorithm = %q, want it to keep its default", cfg.Constraints.SelectionAlgorithm)
	}
}

func TestBindFlagsLetsCLIOverrideFileDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned an error: %v", err)
	}
	fSet := flag.NewFlagSet("test", flag.ContinueOnError)
	BindFlags(fSet, cfg)

	if err := ParseArgs(fSet, cfg, []string{"-population", "42", "-morphology", "xor"}); err != nil {
		t.Fatalf("ParseArgs returned an error: %v", err)
	}
	if cfg.Constraints.TargetPopulationSize != 42 {
		t.Fatalf("TargetPopulationSize = %d, want 42 (flag override)", cfg.Constraints.TargetPopulationSize)
	}
	if cfg.Experiment.MorphologyName != "xor" {
		t.Fatalf("MorphologyName = %q, want %q", cfg.Experiment.MorphologyName, "xor")
	}
	if cfg.Experiment.Seed == 0 {
		t.Fatalf("expected a nonzero seed fallback when unset")
	}
}

func TestToSelectionParamsConvertsAlgorithmName(t *testing.T) {
	c := DefaultConstraints()
	c.SelectionAlgorithm = "tournament"
	c.TournamentSize = 5
	params, err := c.ToSelectionParams()
	if err != nil {
		t.Fatalf("ToSelectionParams returned an error: %v", err)
	}
	if params.Algorithm != selection.AlgorithmTournament || params.TournamentSize != 5 {
		t.Fatalf("params = %+v, want tournament/5", params)
	}
}

func TestToMutationConstraintsRejectsUnknownActivation(t *testing.T) {
	c := DefaultConstraints()
	c.AllowedActivations = []string{"not_a_real_activation"}
	if _, err := c.ToMutationConstraints(); err == nil {
		t.Fatalf("expected an error for an unknown activation name")
	}
}

func TestToPopulationConfigProducesAUsableConfig(t *testing.T) {
	c := DefaultConstraints()
	popCfg, err := c.ToPopulationConfig(nil)
	if err != nil {
		t.Fatalf("ToPopulationConfig returned an error: %v", err)
	}
	if popCfg.TargetPopulationSize != c.TargetPopulationSize {
		t.Fatalf("TargetPopulationSize = %d, want %d", popCfg.TargetPopulationSize, c.TargetPopulationSize)
	}
	if len(popCfg.Constraints.AllowedActivations) != len(c.AllowedActivations) {
		t.Fatalf("AllowedActivations length mismatch")
	}
}
