// Package genotype defines the evolvable, persisted description of a neural
// network: the typed graph of neurons, sensors, actuators, cortices and
// optional substrate CPP/CEP layers from spec.md §3, plus the six structural
// invariants every well-formed genotype must satisfy.
//
// Struct shapes here are grounded on neuron/neuron.go's per-entity value
// type (Id, owning collection, generation counter) generalized from one
// neuron struct to the full node/edge graph spec.md §3 describes; fields
// carry msgpack tags because the storage package round-trips genotypes
// through github.com/vmihailenco/msgpack/v5, the same codec
// qubicDB-qubicdb/pkg/persistence/codec.go uses for its own entities.
package genotype

import (
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/neuromath"
)

// BiasSource is the distinguished source id for a neuron's bias input.
// Per spec.md §3 invariant 6, it is never a member of a Cortex's
// Sensors/Neurons maps — it exists only as a well-known Source value inside
// an InputEdge, carrying a single-element weight vector.
var BiasSource = ids.Id{Kind: "bias", Token: "bias"}

// WeightedInput pairs one synaptic weight with its optional per-weight
// plasticity parameter (the "perWeightParams" of spec.md §3's neuron input
// tuple). H is stored with the genotype but is not read by the agent
// runtime; "_w" (per-weight) rules take their per-weight H values from
// Neuron.PlasticityParams.H.
type WeightedInput struct {
	Weight neuromath.Weight `msgpack:"weight"`
	H      float64          `msgpack:"h,omitempty"`
}

// InputEdge is one fan-in connection: a source id (sensor or neuron) and its
// ordered weight vector, one weight per element of the source's output
// vector (spec.md §3 invariant 3).
type InputEdge struct {
	Source  ids.Id          `msgpack:"source"`
	Weights []WeightedInput `msgpack:"weights"`

	// Enabled flips to false under enable_connection/disable_connection
	// mutations. A disabled edge stays in the genotype (so it can be
	// re-enabled later without losing the weights it accumulated) but is
	// skipped by both the neuron's forward-wait set and its aggregation.
	Enabled bool `msgpack:"enabled"`
}

// FlatWeights returns the flattened neuromath.Weight vector for this edge,
// in element order.
func (e InputEdge) FlatWeights() []neuromath.Weight {
	out := make([]neuromath.Weight, len(e.Weights))
	for i, w := range e.Weights {
		out[i] = w.Weight
	}
	return out
}

// Neuron is one computational node of the genotype graph.
type Neuron struct {
	Id       ids.Id `msgpack:"id"`
	CortexId ids.Id `msgpack:"cortex_id"`

	// Generation is the simulation/experiment generation in which this
	// neuron was created or last structurally mutated. Monotonically
	// non-decreasing along this id's history (invariant 4).
	Generation int `msgpack:"generation"`

	Activation neuromath.Activation `msgpack:"activation"`
	Aggregator neuromath.Aggregator `msgpack:"aggregator"`
	Plasticity neuromath.Rule       `msgpack:"plasticity"`

	// PlasticityParams are the parameters for Plasticity; for "_w" variants
	// PlasticityParams.H holds one H per weight (WeightedInput.H is not
	// consulted).
	PlasticityParams neuromath.Params `msgpack:"plasticity_params"`

	// Inputs is the ordered fan-in list. Order is preserved and
	// semantically significant (invariant 6): it defines where each
	// arriving `forward` message is placed in the flattened input vector,
	// independent of the order messages actually arrive in.
	Inputs []InputEdge `msgpack:"inputs"`

	// Outputs is the ordered fan-out list (neuron or actuator ids).
	Outputs []ids.Id `msgpack:"outputs"`

	// RecurrentOutputs is a subset of Outputs that receives the configured
	// reset-output signal at startup (init_phase2) and after each reset
	// (invariant 5).
	RecurrentOutputs []ids.Id `msgpack:"recurrent_outputs"`
}

// TotalWeights counts every synaptic weight across all input edges — the N
// in the "per-weight probability 1/sqrt(N)" mutation/tuning formulas.
func (n *Neuron) TotalWeights() int {
	total := 0
	for _, edge := range n.Inputs {
		total += len(edge.Weights)
	}
	return total
}

// Age is currentGeneration - n.Generation, used by tuning-phase age-limited
// neuron selection (spec.md §4.2).
func (n *Neuron) Age(currentGeneration int) int {
	age := currentGeneration - n.Generation
	if age < 0 {
		return 0
	}
	return age
}

// Clone deep-copies a Neuron so mutation operators can modify a candidate
// without aliasing the parent genotype's slices.
func (n *Neuron) Clone() *Neuron {
	clone := *n
	clone.Inputs = make([]InputEdge, len(n.Inputs))
	for i, edge := range n.Inputs {
		clone.Inputs[i] = InputEdge{Source: edge.Source, Weights: append([]WeightedInput(nil), edge.Weights...), Enabled: edge.Enabled}
	}
	clone.Outputs = append([]ids.Id(nil), n.Outputs...)
	clone.RecurrentOutputs = append([]ids.Id(nil), n.RecurrentOutputs...)
	clone.PlasticityParams.H = append([]float64(nil), n.PlasticityParams.H...)
	clone.PlasticityParams.ModulatoryWeights = append([]neuromath.Weight(nil), n.PlasticityParams.ModulatoryWeights...)
	return &clone
}

// Sensor is a percept source: a leaf input node of the graph. Outputs is the
// ordered set of neurons it fans a produced percept out to — the agent
// runtime's sensor actor needs this list directly rather than scanning
// every neuron's Inputs for a matching source on every cycle.
type Sensor struct {
	Id         ids.Id   `msgpack:"id"`
	CortexId   ids.Id   `msgpack:"cortex_id"`
	Name       string   `msgpack:"name"`
	VL         int      `msgpack:"vl"`
	Scape      string   `msgpack:"scape"`
	Generation int      `msgpack:"generation"`
	Outputs    []ids.Id `msgpack:"outputs"`
}

// Actuator is an action sink: a leaf output node of the graph. Inputs is the
// ordered set of neuron ids it waits on and concatenates, in this order,
// before invoking its scape's actuate callback.
type Actuator struct {
	Id         ids.Id   `msgpack:"id"`
	CortexId   ids.Id   `msgpack:"cortex_id"`
	Name       string   `msgpack:"name"`
	VL         int      `msgpack:"vl"`
	Scape      string   `msgpack:"scape"`
	Generation int      `msgpack:"generation"`
	Inputs     []ids.Id `msgpack:"inputs"`
}

// Cortex is the per-agent synchronizer's genotype-level description: the
// sets of sensor/neuron/actuator (and optional substrate CPP/CEP) ids it
// owns.
type Cortex struct {
	Id               ids.Id   `msgpack:"id"`
	SensorIds        []ids.Id `msgpack:"sensor_ids"`
	NeuronIds        []ids.Id `msgpack:"neuron_ids"`
	ActuatorIds      []ids.Id `msgpack:"actuator_ids"`
	SubstrateCPPIds  []ids.Id `msgpack:"substrate_cpp_ids,omitempty"`
	SubstrateCEPIds  []ids.Id `msgpack:"substrate_cep_ids,omitempty"`
}

// Genotype is the complete evolvable description of one agent's neural
// network: a cortex and the full set of entities it owns.
type Genotype struct {
	Id         ids.Id `msgpack:"id"`
	Generation int    `msgpack:"generation"`

	Cortex    Cortex                    `msgpack:"cortex"`
	Neurons   map[ids.Id]*Neuron        `msgpack:"neurons"`
	Sensors   map[ids.Id]*Sensor        `msgpack:"sensors"`
	Actuators map[ids.Id]*Actuator      `msgpack:"actuators"`

	SubstrateCPPs map[ids.Id]*SubstrateCPP `msgpack:"substrate_cpps,omitempty"`
	SubstrateCEPs map[ids.Id]*SubstrateCEP `msgpack:"substrate_ceps,omitempty"`
}

// New creates an empty genotype with a fresh cortex id, ready for a
// morphology's seeding routine to populate.
func New() *Genotype {
	cortexId := ids.New(ids.KindCortex)
	return &Genotype{
		Id:         ids.New(ids.KindAgent),
		Generation: 0,
		Cortex:     Cortex{Id: cortexId},
		Neurons:    make(map[ids.Id]*Neuron),
		Sensors:    make(map[ids.Id]*Sensor),
		Actuators:  make(map[ids.Id]*Actuator),
	}
}

// Clone deep-copies the genotype. Mutation operators always operate on a
// Clone of the current generation's genotype, never in place, so a rejected
// mutation (one that would violate an invariant) can simply be discarded.
func (g *Genotype) Clone() *Genotype {
	clone := &Genotype{
		Id:         g.Id,
		Generation: g.Generation,
		Cortex: Cortex{
			Id:              g.Cortex.Id,
			SensorIds:       append([]ids.Id(nil), g.Cortex.SensorIds...),
			NeuronIds:       append([]ids.Id(nil), g.Cortex.NeuronIds...),
			ActuatorIds:     append([]ids.Id(nil), g.Cortex.ActuatorIds...),
			SubstrateCPPIds: append([]ids.Id(nil), g.Cortex.SubstrateCPPIds...),
			SubstrateCEPIds: append([]ids.Id(nil), g.Cortex.SubstrateCEPIds...),
		},
		Neurons:   make(map[ids.Id]*Neuron, len(g.Neurons)),
		Sensors:   make(map[ids.Id]*Sensor, len(g.Sensors)),
		Actuators: make(map[ids.Id]*Actuator, len(g.Actuators)),
	}
	for id, n := range g.Neurons {
		clone.Neurons[id] = n.Clone()
	}
	for id, s := range g.Sensors {
		copied := *s
		copied.Outputs = append([]ids.Id(nil), s.Outputs...)
		clone.Sensors[id] = &copied
	}
	for id, a := range g.Actuators {
		copied := *a
		copied.Inputs = append([]ids.Id(nil), a.Inputs...)
		clone.Actuators[id] = &copied
	}
	if g.SubstrateCPPs != nil {
		clone.SubstrateCPPs = make(map[ids.Id]*SubstrateCPP, len(g.SubstrateCPPs))
		for id, c := range g.SubstrateCPPs {
			copied := *c
			clone.SubstrateCPPs[id] = &copied
		}
	}
	if g.SubstrateCEPs != nil {
		clone.SubstrateCEPs = make(map[ids.Id]*SubstrateCEP, len(g.SubstrateCEPs))
		for id, c := range g.SubstrateCEPs {
			copied := *c
			clone.SubstrateCEPs[id] = &copied
		}
	}
	return clone
}

// NeuronCount, used by selection's topological-distance metric and by
// tuning-duration selectors that need |activeNeurons|.
func (g *Genotype) NeuronCount() int {
	return len(g.Neurons)
}

// TotalActiveWeights sums TotalWeights() over every neuron, used by the
// wsize_proportional tuning-duration selector.
func (g *Genotype) TotalActiveWeights() int {
	total := 0
	for _, n := range g.Neurons {
		total += n.TotalWeights()
	}
	return total
}
