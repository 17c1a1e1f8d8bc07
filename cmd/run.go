package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
)

var runExperimentId string
var runFlags *experimentFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a new experiment from scratch.",
	Long: `run loads experiment settings from --configFile (if given) and CLI
flags, seeds a fresh population for the named morphology/scape, and drives
it to completion across the configured number of runs, persisting progress
after every run (spec.md §4.6) so an interrupted run can be continued with
"resume".`,
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := loadAppConfig(c, runFlags)
		if err != nil {
			return err
		}

		experimentId := ids.New(ids.KindExperiment)
		if runExperimentId != "" {
			experimentId, err = ids.Parse(runExperimentId)
			if err != nil {
				return fmt.Errorf("cmd: --id: %w", err)
			}
		}

		return driveExperiment(c.Context(), cfg, experimentId, false)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runFlags = bindExperimentFlags(runCmd)
	runCmd.Flags().StringVar(&runExperimentId, "id", "", "Experiment id to use (default: mint a fresh one).")
}
