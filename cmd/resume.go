package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
)

var resumeExperimentId string
var resumeFlags *experimentFlags

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume an experiment left in progress by a prior run.",
	Long: `resume loads experiment settings the same way run does, then
continues the --id experiment record from wherever it last persisted
progress, appending an interruption timestamp to the record (spec.md
§4.6) before picking back up. It refuses to start a new record from
scratch: the --id experiment must already exist in --store.`,
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := loadAppConfig(c, resumeFlags)
		if err != nil {
			return err
		}

		experimentId, err := ids.Parse(resumeExperimentId)
		if err != nil {
			return fmt.Errorf("cmd: --id: %w", err)
		}

		return driveExperiment(c.Context(), cfg, experimentId, true)
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeFlags = bindExperimentFlags(resumeCmd)
	resumeCmd.Flags().StringVar(&resumeExperimentId, "id", "", "Experiment id to resume (required).")
	_ = resumeCmd.MarkFlagRequired("id")
}
