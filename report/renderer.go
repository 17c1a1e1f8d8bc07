package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteMorphologyReport renders summaries as one morphology's report file
// (spec.md §6): a comment line naming the morphology, then one
// comment-delimited section per column group, each row whitespace-
// separated and led by the generation's evaluation index
// (500 * generationNumber).
func WriteMorphologyReport(w io.Writer, morphologyName string, summaries []GenerationSummary) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	if _, err := fmt.Fprintf(bw, "# morphology: %s\n", morphologyName); err != nil {
		return fmt.Errorf("report: write morphology header: %w", err)
	}

	sections := []struct {
		name string
		row  func(GenerationSummary) []float64
	}{
		{"fitness", func(s GenerationSummary) []float64 { return appendPairs(s.AvgFitness, s.StdFitness) }},
		{"neurons", func(s GenerationSummary) []float64 { return []float64{s.AvgNeurons, s.StdNeurons} }},
		{"diversity", func(s GenerationSummary) []float64 { return []float64{s.AvgDiversity, s.StdDiversity} }},
		{"max_fitness", func(s GenerationSummary) []float64 { return s.AvgMaxFitness }},
		{"avg_max", func(s GenerationSummary) []float64 { return []float64{scalarSum(s.AvgMaxFitness)} }},
		{"avg_min", func(s GenerationSummary) []float64 { return []float64{scalarSum(s.AvgMinFitness)} }},
		{"evaluations", func(s GenerationSummary) []float64 { return []float64{s.AvgEvaluations} }},
		{"validation_fitness", func(s GenerationSummary) []float64 {
			return appendPairs(s.AvgValidationFitness, s.StdValidationFitness)
		}},
	}

	for _, section := range sections {
		if err := writeSection(bw, section.name, summaries, section.row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeSection(w *bufio.Writer, name string, summaries []GenerationSummary, row func(GenerationSummary) []float64) error {
	if _, err := fmt.Fprintf(w, "# %s\n", name); err != nil {
		return fmt.Errorf("report: write section %s header: %w", name, err)
	}
	for _, s := range summaries {
		fields := row(s)
		if _, err := fmt.Fprintf(w, "%d", EvaluationIndex(s.Generation)); err != nil {
			return fmt.Errorf("report: write section %s row: %w", name, err)
		}
		for _, f := range fields {
			if _, err := w.WriteString(" " + formatFloat(f)); err != nil {
				return fmt.Errorf("report: write section %s row: %w", name, err)
			}
		}
		if _, err := w.WriteString("\n"); err != nil {
			return fmt.Errorf("report: write section %s row: %w", name, err)
		}
	}
	return nil
}

// appendPairs interleaves two equal-length per-objective vectors into
// [avg0, std0, avg1, std1, ...], the column order spec.md §6 describes for
// the fitness/validation-fitness sections.
func appendPairs(avg, std []float64) []float64 {
	out := make([]float64, 0, len(avg)*2)
	for i := range avg {
		out = append(out, avg[i])
		if i < len(std) {
			out = append(out, std[i])
		} else {
			out = append(out, 0)
		}
	}
	return out
}

func scalarSum(v []float64) float64 {
	var total float64
	for _, f := range v {
		total += f
	}
	return total
}

// formatFloat mirrors storage/log_exporter.go's floatToString helper:
// default-precision, shortest round-trip representation.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
