package report

import (
	"testing"

	"github.com/hibernatus-hacker/bardo-sub002/population"
)

func TestEvaluationIndexConvention(t *testing.T) {
	if got := EvaluationIndex(3); got != 1500 {
		t.Fatalf("EvaluationIndex(3) = %d, want 1500", got)
	}
}

func TestSummarizeAveragesAcrossRuns(t *testing.T) {
	run1 := []population.Trace{
		{Generation: 0, AvgFitness: []float64{1}, MaxFitness: []float64{2}, MinFitness: []float64{0}, AvgNeurons: 4, Diversity: 1, Evaluations: 10},
	}
	run2 := []population.Trace{
		{Generation: 0, AvgFitness: []float64{3}, MaxFitness: []float64{4}, MinFitness: []float64{1}, AvgNeurons: 6, Diversity: 2, Evaluations: 20},
	}

	summaries := Summarize([][]population.Trace{run1, run2})
	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d, want 1", len(summaries))
	}
	s := summaries[0]
	if s.AvgFitness[0] != 2 {
		t.Fatalf("AvgFitness[0] = %v, want 2", s.AvgFitness[0])
	}
	if s.AvgNeurons != 5 {
		t.Fatalf("AvgNeurons = %v, want 5", s.AvgNeurons)
	}
	if s.AvgEvaluations != 15 {
		t.Fatalf("AvgEvaluations = %v, want 15", s.AvgEvaluations)
	}
}

func TestSummarizeToleratesUnequalRunLengths(t *testing.T) {
	longRun := []population.Trace{
		{Generation: 0, AvgFitness: []float64{1}},
		{Generation: 1, AvgFitness: []float64{2}},
	}
	shortRun := []population.Trace{
		{Generation: 0, AvgFitness: []float64{3}},
	}

	summaries := Summarize([][]population.Trace{longRun, shortRun})
	if len(summaries) != 2 {
		t.Fatalf("len(summaries) = %d, want 2", len(summaries))
	}
	if summaries[0].AvgFitness[0] != 2 {
		t.Fatalf("gen 0 AvgFitness[0] = %v, want 2 (averaged across both runs)", summaries[0].AvgFitness[0])
	}
	if summaries[1].AvgFitness[0] != 2 {
		t.Fatalf("gen 1 AvgFitness[0] = %v, want 2 (only longRun reached gen 1)", summaries[1].AvgFitness[0])
	}
}

func TestSummarizeOnNoRunsReturnsEmpty(t *testing.T) {
	if got := Summarize(nil); len(got) != 0 {
		t.Fatalf("Summarize(nil) = %v, want empty", got)
	}
}
