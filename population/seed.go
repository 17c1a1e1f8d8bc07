package population

import (
	"math/rand"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/mutation"
	"github.com/hibernatus-hacker/bardo-sub002/neuromath"
	"github.com/hibernatus-hacker/bardo-sub002/scape"
)

// Seed builds size fresh genotypes for morph against scapeName: one sensor
// per SensorSpec, one actuator per ActuatorSpec, and NeuronPattern's
// TotalNeuronCount hidden neurons, fully connected sensors->neurons->
// actuators with a bias edge on every neuron, per spec.md §3's "Genotype:
// created at population seeding." Activation/aggregator/plasticity are
// drawn the same way add_neuron draws them for a structurally new neuron
// (mutation.RandomNeuronFunctions).
func Seed(morph scape.Morphology, scapeName string, size int, c mutation.Constraints, rng *rand.Rand) []*genotype.Genotype {
	out := make([]*genotype.Genotype, size)
	for i := range out {
		out[i] = seedOne(morph, scapeName, c, rng)
	}
	return out
}

func seedOne(morph scape.Morphology, scapeName string, c mutation.Constraints, rng *rand.Rand) *genotype.Genotype {
	g := genotype.New()
	phys := morph.PhysConfig(g.Id, g.Cortex.Id, scapeName)
	pattern := morph.NeuronPattern(g.Id, g.Id, g.Cortex.Id)

	sensors := make([]*genotype.Sensor, 0, len(phys.Sensors))
	for _, spec := range phys.Sensors {
		s := &genotype.Sensor{Id: ids.New(ids.KindSensor), CortexId: g.Cortex.Id, Name: spec.Name, VL: spec.VL, Scape: spec.Scape}
		g.Sensors[s.Id] = s
		g.Cortex.SensorIds = append(g.Cortex.SensorIds, s.Id)
		sensors = append(sensors, s)
	}

	actuators := make([]*genotype.Actuator, 0, len(phys.Actuators))
	for _, spec := range phys.Actuators {
		a := &genotype.Actuator{Id: ids.New(ids.KindActuator), CortexId: g.Cortex.Id, Name: spec.Name, VL: spec.VL, Scape: spec.Scape}
		g.Actuators[a.Id] = a
		g.Cortex.ActuatorIds = append(g.Cortex.ActuatorIds, a.Id)
		actuators = append(actuators, a)
	}

	neuronCount := pattern.TotalNeuronCount
	if neuronCount < len(actuators) {
		neuronCount = len(actuators)
	}
	if neuronCount < 1 {
		neuronCount = 1
	}

	neurons := make([]*genotype.Neuron, 0, neuronCount)
	for i := 0; i < neuronCount; i++ {
		activation, aggregator, plasticity := mutation.RandomNeuronFunctions(c, rng)
		n := &genotype.Neuron{
			Id:         ids.New(ids.KindNeuron),
			CortexId:   g.Cortex.Id,
			Activation: activation,
			Aggregator: aggregator,
			Plasticity: plasticity,
		}
		g.Neurons[n.Id] = n
		g.Cortex.NeuronIds = append(g.Cortex.NeuronIds, n.Id)
		neurons = append(neurons, n)
	}

	for _, s := range sensors {
		for _, n := range neurons {
			weights := make([]genotype.WeightedInput, s.VL)
			for i := range weights {
				weights[i] = genotype.WeightedInput{Weight: randSmallWeight(rng)}
			}
			_ = g.Connect(s.Id, n.Id, weights, false)
		}
	}
	for _, n := range neurons {
		n.Inputs = append(n.Inputs, genotype.InputEdge{
			Source:  genotype.BiasSource,
			Weights: []genotype.WeightedInput{{Weight: randSmallWeight(rng)}},
			Enabled: true,
		})
	}
	for idx, a := range actuators {
		n := neurons[idx%len(neurons)]
		_ = g.Connect(n.Id, a.Id, nil, false)
	}

	if pattern.UsesSubstrate {
		seedSubstrate(g, c, rng)
	}

	return g
}

// seedSubstrate creates the one CPP/CEP pair a morphology's UsesSubstrate
// flag requests (SPEC_FULL.md §12): a coordinate-preprocessor/connectivity-
// expression-producer pair the agent runtime consults once per episode to
// express additional neuron-to-neuron connections before normal sense-
// think-act cycles begin.
func seedSubstrate(g *genotype.Genotype, c mutation.Constraints, rng *rand.Rand) {
	aggregator := c.AllowedAggregators[rng.Intn(len(c.AllowedAggregators))]
	activation := c.AllowedActivations[rng.Intn(len(c.AllowedActivations))]

	cpp := &genotype.SubstrateCPP{Id: ids.New(ids.KindSubstrateCPP), CortexId: g.Cortex.Id, Name: "cpp", Aggregator: aggregator}
	cep := &genotype.SubstrateCEP{Id: ids.New(ids.KindSubstrateCEP), CortexId: g.Cortex.Id, Name: "cep", Activation: activation}

	if g.SubstrateCPPs == nil {
		g.SubstrateCPPs = make(map[ids.Id]*genotype.SubstrateCPP)
	}
	if g.SubstrateCEPs == nil {
		g.SubstrateCEPs = make(map[ids.Id]*genotype.SubstrateCEP)
	}
	g.SubstrateCPPs[cpp.Id] = cpp
	g.SubstrateCEPs[cep.Id] = cep
	g.Cortex.SubstrateCPPIds = append(g.Cortex.SubstrateCPPIds, cpp.Id)
	g.Cortex.SubstrateCEPIds = append(g.Cortex.SubstrateCEPIds, cep.Id)
}

// randSmallWeight draws a seed weight uniformly from [-0.5, 0.5], the same
// near-zero starting scale mutation's AddNeuron uses for its spliced edges.
func randSmallWeight(rng *rand.Rand) neuromath.Weight {
	return neuromath.Weight((rng.Float64()*2 - 1) * 0.5)
}
