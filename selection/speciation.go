package selection

import (
	"math"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
)

// Distance is spec.md §4.2's topological distance metric between two
// genotypes: a weighted combination of neuron-count difference, fraction of
// non-matching neuron ids, and average per-matching-neuron weight
// difference. Smaller is more similar.
func Distance(a, b *genotype.Genotype) float64 {
	neuronCountDelta := math.Abs(float64(len(a.Neurons) - len(b.Neurons)))

	shared := 0
	var weightDeltaSum float64
	for id, na := range a.Neurons {
		nb, ok := b.Neurons[id]
		if !ok {
			continue
		}
		shared++
		weightDeltaSum += averageWeightDistance(na, nb)
	}

	total := len(a.Neurons) + len(b.Neurons)
	var mismatchFraction float64
	if total > 0 {
		mismatchFraction = 1 - (2*float64(shared))/float64(total)
	}

	var avgWeightDelta float64
	if shared > 0 {
		avgWeightDelta = weightDeltaSum / float64(shared)
	}

	return neuronCountDelta + mismatchFraction*10 + avgWeightDelta
}

func averageWeightDistance(a, b *genotype.Neuron) float64 {
	byId := make(map[ids.Id]float64, len(a.Inputs))
	for _, edge := range a.Inputs {
		for _, w := range edge.Weights {
			byId[edge.Source] += float64(w.Weight)
		}
	}
	var total float64
	count := 0
	for _, edge := range b.Inputs {
		var bWeight float64
		for _, w := range edge.Weights {
			bWeight += float64(w.Weight)
		}
		total += math.Abs(byId[edge.Source] - bWeight)
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// Speciate clusters candidates into species by Distance against each
// specie's champion (or, absent one, its first member), per spec.md §4.2.
// A candidate joins the first specie within threshold; otherwise it founds
// a new one. existing is mutated in place and returned.
func Speciate(candidates []Candidate, existing []*Specie, threshold float64) []*Specie {
	for _, c := range candidates {
		placed := false
		for _, s := range existing {
			rep := representative(s)
			if rep == nil {
				continue
			}
			if Distance(c.Genotype, rep) <= threshold {
				s.Members = append(s.Members, c)
				placed = true
				break
			}
		}
		if !placed {
			existing = append(existing, &Specie{
				Id:      ids.New(ids.KindSpecie),
				Members: []Candidate{c},
			})
		}
	}
	return existing
}

func representative(s *Specie) *genotype.Genotype {
	if s.Champion != nil {
		return s.Champion.Genotype
	}
	if len(s.Members) > 0 {
		return s.Members[0].Genotype
	}
	return nil
}
