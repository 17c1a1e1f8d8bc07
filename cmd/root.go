// Package cmd implements the experiment-runner CLI of spec.md §4.6/§10:
// run/resume an experiment, render a report from a persisted one, and
// inspect whatever a store happens to hold. Grounded on the teacher's
// cmd/root.go Cobra root command, generalized from CrowNet's sim/observe/
// expose/logutil mode split to this domain's run/resume/report/inspect
// subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configFile is the one persistent flag every subcommand shares: the TOML
// file config.Load decodes ExperimentSettings/ExperimentConstraints
// defaults from, mirroring cmd/root.go's persistent "configFile" flag.
var configFile string

var rootCmd = &cobra.Command{
	Use:   "bardo",
	Short: "bardo: distributed actor-based neuroevolution runner",
	Long: `bardo drives TWEANN experiments: it seeds a population against a
registered morphology/scape, evolves it generation by generation across an
actor-based agent runtime, and persists progress so a long-running
experiment can survive a restart.

Use "bardo [command] --help" for details on a specific command.`,
}

// Execute runs the root command. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "configFile", "", "Path to a TOML experiment configuration file.")
}
