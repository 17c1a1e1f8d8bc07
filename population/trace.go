// Package population implements the generation-driving control plane of
// spec.md §4.5: seeding an initial population from a morphology, evaluating
// every genotype's agent for one episode per generation, computing
// per-species statistics, applying selection and mutation, and reporting
// termination.
//
// Grounded on HD220-crownet/cli/orchestrator.go's mode-dispatch-and-
// drive-to-completion shape (Orchestrator.Run), generalized from "run one
// simulation to completion" to "run one generation of many agents and
// report a trace," and on network/network.go's rand.Rand-per-run
// construction pattern.
package population

import (
	"gonum.org/v1/gonum/stat"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/selection"
)

// Trace is one generation's worth of per-species statistics (spec.md §3's
// "Trace" entity): avg/max/min fitness, avg neuron count, diversity,
// evaluations used, and the validation fitness of the generation's best
// agent. max_fitness/min_fitness are stored per-objective ([]float64 of the
// fitness vector's length) per the §13 open-question decision.
type Trace struct {
	Generation int

	SpecieId ids.Id

	AvgFitness []float64
	MaxFitness []float64
	MinFitness []float64
	StdFitness []float64

	AvgNeurons float64
	Diversity  float64

	Evaluations int

	ValidationFitness []float64
}

// BuildTrace computes one species' Trace from its just-evaluated members.
// fitness is assumed to already be in the same fixed-length objective space
// across every member (the cortex's zero-padded accumulation in agent/cortex.go
// guarantees this within one agent, and morphologies are expected to keep a
// stable actuator vector length across a species).
func BuildTrace(generation int, specieId ids.Id, members []selection.Candidate, evaluations int) Trace {
	t := Trace{Generation: generation, SpecieId: specieId, Evaluations: evaluations}
	if len(members) == 0 {
		return t
	}

	width := 0
	for _, m := range members {
		if len(m.Fitness) > width {
			width = len(m.Fitness)
		}
	}

	t.AvgFitness = make([]float64, width)
	t.MaxFitness = make([]float64, width)
	t.MinFitness = make([]float64, width)
	t.StdFitness = make([]float64, width)

	totalNeurons := 0
	for d := 0; d < width; d++ {
		column := make([]float64, len(members))
		for i, m := range members {
			if d < len(m.Fitness) {
				column[i] = m.Fitness[d]
			}
		}
		mean, std := stat.MeanStdDev(column, nil)
		t.AvgFitness[d] = mean
		t.StdFitness[d] = std
		t.MaxFitness[d] = column[0]
		t.MinFitness[d] = column[0]
		for _, v := range column {
			if v > t.MaxFitness[d] {
				t.MaxFitness[d] = v
			}
			if v < t.MinFitness[d] {
				t.MinFitness[d] = v
			}
		}
	}

	for _, m := range members {
		totalNeurons += m.Genotype.NeuronCount()
	}
	t.AvgNeurons = float64(totalNeurons) / float64(len(members))
	t.Diversity = diversity(members)

	return t
}

// diversity approximates population topological spread as the standard
// deviation of the members' neuron counts — cheap to compute every generation and monotone
// in the same direction as the richer selection.Distance metric, which is
// too expensive to run O(n^2) times per generation across a whole species.
func diversity(members []selection.Candidate) float64 {
	if len(members) < 2 {
		return 0
	}
	counts := make([]float64, len(members))
	for i, m := range members {
		counts[i] = float64(m.Genotype.NeuronCount())
	}
	mean, std := stat.MeanStdDev(counts, nil)
	_ = mean
	return std
}
