// Package report renders the experiment report files of spec.md §6: one
// textual, graphable file per morphology, whitespace-separated columns
// under comment-delimited sections.
//
// Grounded on storage/log_exporter.go's ExportLogData shape (open an
// output writer, write a header, iterate rows, write one record per row,
// via small numeric-to-string helpers), generalized here from a CSV
// export of two fixed SQLite tables to a whitespace-column render of the
// in-memory per-generation summaries this package computes from
// population.Trace.
package report

import (
	"github.com/hibernatus-hacker/bardo-sub002/population"
	"gonum.org/v1/gonum/stat"
)

// EvaluationIndex converts a generation number to the report file's
// x-axis convention (spec.md §6: "500 · generationNumber").
func EvaluationIndex(generation int) int {
	return 500 * generation
}

// GenerationSummary is one generation's report-file row, averaged across
// every run of an experiment (spec.md §4.6: "compute averages across all
// traces"). Per-objective fields keep the same []float64 shape as
// population.Trace.
type GenerationSummary struct {
	Generation int

	AvgFitness []float64
	StdFitness []float64

	AvgNeurons float64
	StdNeurons float64

	AvgDiversity float64
	StdDiversity float64

	// MaxFitness/MinFitness are themselves averaged across runs (one
	// scalar per objective), matching the report format's `avgMax`/
	// `avgMin` columns rather than each run's raw extremum.
	AvgMaxFitness []float64
	AvgMinFitness []float64

	AvgEvaluations float64

	AvgValidationFitness []float64
	StdValidationFitness []float64
}

// Summarize groups tracesByRun (one []Trace per run, aligned so
// tracesByRun[r][g] is run r's Trace for generation g) into one
// GenerationSummary per generation, averaging every field across runs.
// Runs of different lengths are tolerated: a generation missing from a
// shorter run is simply excluded from that generation's average.
func Summarize(tracesByRun [][]population.Trace) []GenerationSummary {
	maxGen := 0
	for _, run := range tracesByRun {
		if len(run) > maxGen {
			maxGen = len(run)
		}
	}

	summaries := make([]GenerationSummary, maxGen)
	for g := 0; g < maxGen; g++ {
		var atGen []population.Trace
		for _, run := range tracesByRun {
			if g < len(run) {
				atGen = append(atGen, run[g])
			}
		}
		summaries[g] = summarizeGeneration(g, atGen)
	}
	return summaries
}

func summarizeGeneration(generation int, traces []population.Trace) GenerationSummary {
	s := GenerationSummary{Generation: generation}
	if len(traces) == 0 {
		return s
	}

	width := 0
	for _, tr := range traces {
		if len(tr.AvgFitness) > width {
			width = len(tr.AvgFitness)
		}
	}

	s.AvgFitness = make([]float64, width)
	s.StdFitness = make([]float64, width)
	s.AvgMaxFitness = make([]float64, width)
	s.AvgMinFitness = make([]float64, width)
	s.AvgValidationFitness = make([]float64, width)
	s.StdValidationFitness = make([]float64, width)

	for d := 0; d < width; d++ {
		column := make([]float64, len(traces))
		maxColumn := make([]float64, len(traces))
		minColumn := make([]float64, len(traces))
		validationColumn := make([]float64, len(traces))
		for i, tr := range traces {
			column[i] = valueAt(tr.AvgFitness, d)
			maxColumn[i] = valueAt(tr.MaxFitness, d)
			minColumn[i] = valueAt(tr.MinFitness, d)
			validationColumn[i] = valueAt(tr.ValidationFitness, d)
		}
		mean, std := stat.MeanStdDev(column, nil)
		s.AvgFitness[d] = mean
		s.StdFitness[d] = std
		s.AvgMaxFitness[d], _ = stat.MeanStdDev(maxColumn, nil)
		s.AvgMinFitness[d], _ = stat.MeanStdDev(minColumn, nil)
		vmean, vstd := stat.MeanStdDev(validationColumn, nil)
		s.AvgValidationFitness[d] = vmean
		s.StdValidationFitness[d] = vstd
	}

	neurons := make([]float64, len(traces))
	diversity := make([]float64, len(traces))
	evaluations := make([]float64, len(traces))
	for i, tr := range traces {
		neurons[i] = tr.AvgNeurons
		diversity[i] = tr.Diversity
		evaluations[i] = float64(tr.Evaluations)
	}
	s.AvgNeurons, s.StdNeurons = stat.MeanStdDev(neurons, nil)
	s.AvgDiversity, s.StdDiversity = stat.MeanStdDev(diversity, nil)
	s.AvgEvaluations, _ = stat.MeanStdDev(evaluations, nil)

	return s
}

func valueAt(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}
