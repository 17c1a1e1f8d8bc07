package mutation

import (
	"math/rand"
	"testing"
)

func TestChooseRespectsZeroTable(t *testing.T) {
	c := Constraints{}
	rng := rand.New(rand.NewSource(1))
	if got := c.Choose(rng); got != OpModifyWeights {
		t.Fatalf("Choose with an empty probability table = %q, want %q", got, OpModifyWeights)
	}
}

func TestChooseOnlyReturnsConfiguredOperator(t *testing.T) {
	c := Constraints{OperatorProbabilities: map[Operator]float64{OpAddNeuron: 1}}
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		if got := c.Choose(rng); got != OpAddNeuron {
			t.Fatalf("Choose = %q, want %q", got, OpAddNeuron)
		}
	}
}

func TestDefaultConstraintsCoversEveryOperator(t *testing.T) {
	c := DefaultConstraints()
	seen := make(map[Operator]bool)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		seen[c.Choose(rng)] = true
	}
	for _, op := range []Operator{OpModifyWeights, OpAddNeuron, OpAddConnection, OpRemoveConnection, OpRemoveNeuron, OpEnableConnection, OpDisableConnection} {
		if !seen[op] {
			t.Errorf("operator %q was never chosen across 2000 draws", op)
		}
	}
}
