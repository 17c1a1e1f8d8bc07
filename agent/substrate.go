package agent

import (
	"hash/fnv"
	"math"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/neuromath"
)

// substrateWeightThreshold is the magnitude below which an expressed
// substrate connection is treated as absent, the usual HyperNEAT
// convention for keeping indirectly-encoded topologies sparse.
const substrateWeightThreshold = 0.2

// applySubstrate expresses g's declared CPP/CEP pairs into a cloned
// genotype's neuron-to-neuron input edges (SPEC_FULL.md §12's substrate
// lifecycle): for every ordered pair of distinct neurons and every CPP/CEP
// pair the cortex declares, the CPP aggregates a coordinate encoding of the
// pair's identities and the CEP's activation turns that aggregate into a
// connection weight; weights clearing substrateWeightThreshold become new
// input edges. The source neuron also gains the target as a recurrent
// output, so the target receives a reset value from it at startup instead
// of waiting on a forward the source cannot send before its own inputs
// arrive. A pair whose source already outputs to the target is skipped.
//
// The result is evaluation-only: substrate connectivity is a pure function
// of (cpp, cep, source, target) and is re-derived every episode rather than
// persisted, so Exoself.Run spawns actors from it but only ever returns the
// original g (or its Lamarckian write-back) to the population manager —
// the substrate layer never itself becomes stored genotype structure.
func applySubstrate(g *genotype.Genotype) *genotype.Genotype {
	if !g.HasSubstrate() {
		return g
	}
	clone := g.Clone()

	neuronIds := make([]ids.Id, 0, len(clone.Neurons))
	for id := range clone.Neurons {
		neuronIds = append(neuronIds, id)
	}

	pairs := len(clone.Cortex.SubstrateCPPIds)
	if n := len(clone.Cortex.SubstrateCEPIds); n < pairs {
		pairs = n
	}

	for i := 0; i < pairs; i++ {
		cpp := clone.SubstrateCPPs[clone.Cortex.SubstrateCPPIds[i]]
		cep := clone.SubstrateCEPs[clone.Cortex.SubstrateCEPIds[i]]
		if cpp == nil || cep == nil {
			continue
		}
		for _, source := range neuronIds {
			for _, target := range neuronIds {
				if source == target {
					continue
				}
				w := expressConnection(cpp, cep, source, target)
				if math.Abs(w) < substrateWeightThreshold {
					continue
				}
				src := clone.Neurons[source]
				already := false
				for _, out := range src.Outputs {
					if out == target {
						already = true
						break
					}
				}
				if already {
					continue
				}
				src.Outputs = append(src.Outputs, target)
				src.RecurrentOutputs = append(src.RecurrentOutputs, target)
				n := clone.Neurons[target]
				n.Inputs = append(n.Inputs, genotype.InputEdge{
					Source:  source,
					Weights: []genotype.WeightedInput{{Weight: neuromath.Weight(w)}},
					Enabled: true,
				})
			}
		}
	}
	return clone
}

// expressConnection runs one (source, target) pair through cpp's
// coordinate aggregation and cep's activation, scaling the result to
// neuromath's weight saturation bound so expressed weights are comparable
// in magnitude to directly-encoded connections.
func expressConnection(cpp *genotype.SubstrateCPP, cep *genotype.SubstrateCEP, source, target ids.Id) float64 {
	coords := []neuromath.Signal{idCoordinate(source), idCoordinate(target)}
	unitWeights := make([]neuromath.Weight, len(coords))
	for i := range unitWeights {
		unitWeights[i] = 1
	}
	sum, _ := cpp.Aggregator.Aggregate(coords, unitWeights, nil)
	return float64(cep.Activation.Apply(sum)) * neuromath.SaturationLimit
}

// idCoordinate derives a deterministic pseudo-coordinate in [-1, 1] from an
// id's token, standing in for the spatial coordinate a geometry-aware
// morphology would otherwise assign a neuron; this genotype model carries
// no such coordinate, so the id itself is the only stable per-neuron value
// a CPP can project from.
func idCoordinate(id ids.Id) neuromath.Signal {
	h := fnv.New32a()
	h.Write([]byte(id.Token))
	return neuromath.Signal(float64(h.Sum32())/float64(1<<32)*2 - 1)
}
