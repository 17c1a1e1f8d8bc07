package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hibernatus-hacker/bardo-sub002/experiment"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/storage"
)

var (
	reportStorePath string
	reportId        string
	reportOutput    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a report file from a persisted experiment record.",
	Long: `report reads the experiment record named --id from the SQLite
store at --store and renders its accumulated per-run traces into --output,
the same report-file format run/resume produce on completion (spec.md
§6). Useful for regenerating a report after the fact, or for a different
--output than the one the original run used.`,
	RunE: func(c *cobra.Command, args []string) error {
		if reportStorePath == "" {
			return fmt.Errorf("cmd: --store is required (an in-memory experiment has nothing to read back)")
		}

		store, err := storage.NewSQLiteStore(reportStorePath)
		if err != nil {
			return fmt.Errorf("cmd: open store %s: %w", reportStorePath, err)
		}
		defer store.Close()

		experimentId, err := ids.Parse(reportId)
		if err != nil {
			return fmt.Errorf("cmd: --id: %w", err)
		}

		var rec experiment.Record
		found, err := store.Read(ids.KindExperiment, experimentId, &rec)
		if err != nil {
			return fmt.Errorf("cmd: read experiment %s: %w", experimentId, err)
		}
		if !found {
			return fmt.Errorf("cmd: no experiment record for id %s", experimentId)
		}

		if err := experiment.WriteReportFile(&rec, reportOutput); err != nil {
			return fmt.Errorf("cmd: write report: %w", err)
		}
		fmt.Printf("report written to %s\n", reportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportStorePath, "store", "", "SQLite store path (required).")
	reportCmd.Flags().StringVar(&reportId, "id", "", "Experiment id to render (required).")
	reportCmd.Flags().StringVar(&reportOutput, "output", "report.txt", "Report file output path.")
	_ = reportCmd.MarkFlagRequired("store")
	_ = reportCmd.MarkFlagRequired("id")
}
