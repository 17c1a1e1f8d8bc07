package selection

import (
	"testing"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/neuromath"
)

func sampleGenotype(weight float64, extraNeurons int) *genotype.Genotype {
	g := genotype.New()
	s1 := &genotype.Sensor{Id: ids.New(ids.KindSensor), CortexId: g.Cortex.Id, VL: 1}
	a1 := &genotype.Actuator{Id: ids.New(ids.KindActuator), CortexId: g.Cortex.Id, VL: 1}
	n1 := &genotype.Neuron{Id: ids.New(ids.KindNeuron), CortexId: g.Cortex.Id}
	g.Sensors[s1.Id] = s1
	g.Actuators[a1.Id] = a1
	g.Neurons[n1.Id] = n1
	must(g.Connect(s1.Id, n1.Id, []genotype.WeightedInput{{Weight: neuromath.Weight(weight)}}, false))
	must(g.Connect(n1.Id, a1.Id, nil, false))
	for i := 0; i < extraNeurons; i++ {
		n := &genotype.Neuron{Id: ids.New(ids.KindNeuron), CortexId: g.Cortex.Id}
		g.Neurons[n.Id] = n
	}
	return g
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func TestDistanceIsZeroForIdenticalGenotype(t *testing.T) {
	g := sampleGenotype(0.5, 0)
	if d := Distance(g, g); d != 0 {
		t.Fatalf("Distance(g, g) = %v, want 0", d)
	}
}

func TestDistanceGrowsWithNeuronCountDifference(t *testing.T) {
	a := sampleGenotype(0.5, 0)
	b := sampleGenotype(0.5, 5)
	if Distance(a, b) <= 0 {
		t.Fatalf("expected a positive distance between genotypes of different neuron counts")
	}
}

func TestSpeciateGroupsWithinThresholdTogether(t *testing.T) {
	g := sampleGenotype(0.5, 0)
	candidates := []Candidate{
		{Genotype: g, Fitness: []float64{1}},
		{Genotype: g, Fitness: []float64{1}},
	}
	species := Speciate(candidates, nil, 5.0)
	if len(species) != 1 {
		t.Fatalf("expected identical genotypes to share one specie, got %d", len(species))
	}
	if len(species[0].Members) != 2 {
		t.Fatalf("expected both candidates in the one specie, got %d members", len(species[0].Members))
	}
}

func TestSpeciateFoundsNewSpecieBeyondThreshold(t *testing.T) {
	a := sampleGenotype(0.5, 0)
	b := sampleGenotype(0.5, 20)
	candidates := []Candidate{
		{Genotype: a, Fitness: []float64{1}},
		{Genotype: b, Fitness: []float64{1}},
	}
	species := Speciate(candidates, nil, 1.0)
	if len(species) != 2 {
		t.Fatalf("expected topologically distant genotypes to found separate species, got %d", len(species))
	}
}
