package experiment

import (
	"fmt"
	"os"

	"github.com/hibernatus-hacker/bardo-sub002/report"
)

// WriteReportFile renders rec's accumulated per-run traces into path as
// the completed experiment's morphology report file (spec.md §4.6: "on
// completion... write structured report files suitable for plotting").
func WriteReportFile(rec *Record, path string) error {
	summaries := report.Summarize(rec.Traces)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("experiment: create report file %s: %w", path, err)
	}
	defer f.Close()

	if err := report.WriteMorphologyReport(f, rec.MorphologyName, summaries); err != nil {
		return fmt.Errorf("experiment: render report for %s: %w", rec.MorphologyName, err)
	}
	return nil
}
