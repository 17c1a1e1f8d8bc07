package mutation

import (
	"math"
	"math/rand"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/neuromath"
)

// DurationKind names a tuning-phase duration selector (spec.md §4.2).
type DurationKind string

const (
	DurationConst             DurationKind = "const"
	DurationNSizeProportional DurationKind = "nsize_proportional"
	DurationWSizeProportional DurationKind = "wsize_proportional"
)

// Duration picks how many perturbation attempts a tuning phase runs, per
// spec.md §4.2. K is consulted only for DurationConst; P only for the two
// proportional kinds.
type Duration struct {
	Kind DurationKind
	K    int
	P    float64
}

// Attempts evaluates the duration selector against the current genotype.
func (d Duration) Attempts(g *genotype.Genotype) int {
	switch d.Kind {
	case DurationConst:
		return d.K
	case DurationNSizeProportional:
		return round(20 + neuromath.Sat(math.Pow(float64(g.NeuronCount()), d.P), 0, 100))
	case DurationWSizeProportional:
		return round(10 + neuromath.Sat(math.Pow(float64(g.TotalActiveWeights()), d.P), 0, 100))
	default:
		return 20
	}
}

func round(v float64) int {
	return int(math.Round(v))
}

// SelectionKind names a tuning-selection strategy (spec.md §4.2): which
// neurons are eligible for perturbation in a given attempt.
type SelectionKind string

const (
	SelectionDynamic       SelectionKind = "dynamic"
	SelectionDynamicRandom SelectionKind = "dynamic_random"
	SelectionActiveRandom  SelectionKind = "active_random"
	SelectionCurrentRandom SelectionKind = "current_random"
	SelectionAllRandom     SelectionKind = "all_random"
	SelectionActive        SelectionKind = "active"
	SelectionCurrent       SelectionKind = "current"
	SelectionAll           SelectionKind = "all"
)

// Select returns the ids of neurons eligible for perturbation this attempt,
// per the age-limit rules of spec.md §4.2. currentGeneration is the
// genotype's structural generation the tuning phase is operating within.
func Select(kind SelectionKind, g *genotype.Genotype, currentGeneration int, rng *rand.Rand) []ids.Id {
	var ageLimit int
	switch kind {
	case SelectionDynamic, SelectionDynamicRandom:
		u := rng.Float64()
		if u <= 0 {
			u = math.SmallestNonzeroFloat64
		}
		ageLimit = round(math.Sqrt(1 / u))
	case SelectionActive, SelectionActiveRandom:
		ageLimit = 3
	case SelectionCurrent, SelectionCurrentRandom:
		ageLimit = 0
	case SelectionAll, SelectionAllRandom:
		ageLimit = math.MaxInt32
	default:
		ageLimit = 3
	}

	var pool []ids.Id
	for id, n := range g.Neurons {
		if n.Age(currentGeneration) <= ageLimit {
			pool = append(pool, id)
		}
	}

	switch kind {
	case SelectionDynamicRandom, SelectionActiveRandom, SelectionCurrentRandom, SelectionAllRandom:
		return thinPool(pool, rng)
	default:
		return pool
	}
}

// thinPool keeps each pool member with probability 1/√|pool|, force-keeping
// one at random if the draw empties the pool (spec.md §4.2).
func thinPool(pool []ids.Id, rng *rand.Rand) []ids.Id {
	if len(pool) == 0 {
		return nil
	}
	keepProb := 1 / math.Sqrt(float64(len(pool)))
	kept := make([]ids.Id, 0, len(pool))
	for _, id := range pool {
		if rng.Float64() < keepProb {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, pool[rng.Intn(len(pool))])
	}
	return kept
}

// Spread computes the per-neuron perturbation spread for a tuning attempt:
// perturbationRange · π · annealingParam^age. annealingParam < 1 tightens
// perturbations for older neurons (spec.md §4.2).
func Spread(perturbationRange, annealingParam float64, age int) float64 {
	return perturbationRange * math.Pi * math.Pow(annealingParam, float64(age))
}
