package population

import (
	"testing"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/selection"
)

func candidateWithNeurons(fitness []float64, neurons int) selection.Candidate {
	g := genotype.New()
	for i := 0; i < neurons; i++ {
		n := &genotype.Neuron{Id: ids.New(ids.KindNeuron), CortexId: g.Cortex.Id}
		g.Neurons[n.Id] = n
	}
	return selection.Candidate{Genotype: g, Fitness: fitness}
}

func TestBuildTraceOnEmptyMembersReturnsZeroValueTrace(t *testing.T) {
	trace := BuildTrace(3, ids.New(ids.KindSpecie), nil, 0)
	if trace.Generation != 3 || trace.AvgFitness != nil {
		t.Fatalf("BuildTrace(nil) = %+v, want a near-zero Trace", trace)
	}
}

func TestBuildTraceComputesPerObjectiveStats(t *testing.T) {
	members := []selection.Candidate{
		candidateWithNeurons([]float64{1, 10}, 2),
		candidateWithNeurons([]float64{3, 20}, 4),
		candidateWithNeurons([]float64{2, 30}, 6),
	}
	trace := BuildTrace(0, ids.New(ids.KindSpecie), members, 3)

	if trace.MaxFitness[0] != 3 || trace.MinFitness[0] != 1 {
		t.Fatalf("objective-0 min/max = %v/%v, want 1/3", trace.MinFitness[0], trace.MaxFitness[0])
	}
	if trace.MaxFitness[1] != 30 || trace.MinFitness[1] != 10 {
		t.Fatalf("objective-1 min/max = %v/%v, want 10/30", trace.MinFitness[1], trace.MaxFitness[1])
	}
	if got, want := trace.AvgFitness[0], 2.0; got != want {
		t.Fatalf("AvgFitness[0] = %v, want %v", got, want)
	}
	if trace.AvgNeurons != 4 {
		t.Fatalf("AvgNeurons = %v, want 4", trace.AvgNeurons)
	}
	if trace.Evaluations != 3 {
		t.Fatalf("Evaluations = %d, want 3", trace.Evaluations)
	}
}

func TestBuildTraceToleratesRaggedFitnessVectors(t *testing.T) {
	members := []selection.Candidate{
		candidateWithNeurons([]float64{1}, 1),
		candidateWithNeurons([]float64{1, 5}, 1),
	}
	trace := BuildTrace(0, ids.New(ids.KindSpecie), members, 2)
	if len(trace.AvgFitness) != 2 {
		t.Fatalf("len(AvgFitness) = %d, want 2 (widest member)", len(trace.AvgFitness))
	}
	if trace.MinFitness[1] != 0 {
		t.Fatalf("MinFitness[1] = %v, want 0 (missing objective zero-pads)", trace.MinFitness[1])
	}
}

func TestDiversityIsZeroForASingleMember(t *testing.T) {
	members := []selection.Candidate{candidateWithNeurons([]float64{1}, 3)}
	if d := diversity(members); d != 0 {
		t.Fatalf("diversity(one member) = %v, want 0", d)
	}
}

func TestDiversityIsPositiveWhenNeuronCountsVary(t *testing.T) {
	members := []selection.Candidate{
		candidateWithNeurons([]float64{1}, 2),
		candidateWithNeurons([]float64{1}, 10),
	}
	if d := diversity(members); d <= 0 {
		t.Fatalf("diversity(varying neuron counts) = %v, want > 0", d)
	}
}
