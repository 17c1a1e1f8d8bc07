package mutation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
)

func TestDurationConst(t *testing.T) {
	d := Duration{Kind: DurationConst, K: 42}
	if got := d.Attempts(newFixture()); got != 42 {
		t.Fatalf("Attempts = %d, want 42", got)
	}
}

func TestDurationNSizeProportionalIsBoundedAndAtLeast20(t *testing.T) {
	g := newFixture()
	d := Duration{Kind: DurationNSizeProportional, P: 2}
	got := d.Attempts(g)
	if got < 20 || got > 120 {
		t.Fatalf("Attempts = %d, want within [20, 120]", got)
	}
}

func TestDurationWSizeProportionalIsBoundedAndAtLeast10(t *testing.T) {
	g := newFixture()
	d := Duration{Kind: DurationWSizeProportional, P: 2}
	got := d.Attempts(g)
	if got < 10 || got > 110 {
		t.Fatalf("Attempts = %d, want within [10, 110]", got)
	}
}

func TestSelectCurrentOnlyKeepsAgeZero(t *testing.T) {
	g := newFixture()
	for _, n := range g.Neurons {
		n.Generation = 5
	}
	rng := rand.New(rand.NewSource(1))
	got := Select(SelectionCurrent, g, 5, rng)
	if len(got) != len(g.Neurons) {
		t.Fatalf("expected every age-0 neuron selected, got %d of %d", len(got), len(g.Neurons))
	}

	got = Select(SelectionCurrent, g, 8, rng)
	if len(got) != 0 {
		t.Fatalf("expected no neuron selected once all are aged past 0, got %d", len(got))
	}
}

func TestSelectAllIgnoresAge(t *testing.T) {
	g := newFixture()
	for _, n := range g.Neurons {
		n.Generation = 0
	}
	rng := rand.New(rand.NewSource(2))
	got := Select(SelectionAll, g, 1000, rng)
	if len(got) != len(g.Neurons) {
		t.Fatalf("expected SelectionAll to ignore age, got %d of %d", len(got), len(g.Neurons))
	}
}

func TestSelectRandomVariantsNeverReturnEmptyPool(t *testing.T) {
	g := newFixture()
	// add more neurons so pool thinning has more than one candidate
	for i := 0; i < 10; i++ {
		n := *firstNeuron(g)
		n.Id = ids.New(ids.KindNeuron)
		g.Neurons[n.Id] = &n
	}
	rng := rand.New(rand.NewSource(3))
	for _, kind := range []SelectionKind{SelectionDynamicRandom, SelectionActiveRandom, SelectionCurrentRandom, SelectionAllRandom} {
		for i := 0; i < 50; i++ {
			got := Select(kind, g, 0, rng)
			if len(got) == 0 {
				t.Fatalf("Select(%q) returned an empty selection; force-keep should prevent this", kind)
			}
		}
	}
}

func firstNeuron(g *genotype.Genotype) *genotype.Neuron {
	for _, n := range g.Neurons {
		return n
	}
	return nil
}

func TestSpreadShrinksWithAgeWhenAnnealingBelowOne(t *testing.T) {
	young := Spread(1.0, 0.9, 0)
	old := Spread(1.0, 0.9, 10)
	if !(old < young) {
		t.Fatalf("expected Spread to shrink with age under annealing < 1: young=%v old=%v", young, old)
	}
	if math.Abs(young-math.Pi) > 1e-9 {
		t.Fatalf("Spread at age 0 = %v, want perturbationRange*pi = %v", young, math.Pi)
	}
}
