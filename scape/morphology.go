package scape

import "github.com/hibernatus-hacker/bardo-sub002/ids"

// SensorSpec and ActuatorSpec describe one entry in a morphology's palette
// of available sensors/actuators (spec.md §6), from which initial genotypes
// draw their concrete sensor/actuator set.
type SensorSpec struct {
	Name  string
	VL    int
	Scape string
}

type ActuatorSpec struct {
	Name  string
	VL    int
	Scape string
}

// PhysicalConfig is the concrete spawn spec a morphology hands back for one
// agent: the subset (and count) of sensors/actuators it should be built
// with for a given scape.
type PhysicalConfig struct {
	Sensors   []SensorSpec
	Actuators []ActuatorSpec
}

// NeuralInterface is the seeding geometry a morphology derives for a fresh
// genotype: how many hidden neurons to create and how sensors/actuators
// map onto them.
type NeuralInterface struct {
	SensorIdxMap      map[string]int
	ActuatorIdxMap    map[string]int
	TotalNeuronCount  int
	OutputNeuronCount int
	BiasAsNeuron      bool

	// UsesSubstrate requests a HyperNEAT-style indirect-encoding layer: one
	// CPP/CEP pair seeded alongside the direct neuron graph, expressing
	// additional connections at evaluation time (SPEC_FULL.md §12).
	UsesSubstrate bool
}

// Morphology is the species-physical-configuration contract of spec.md §6:
// it defines what a species' agents can sense and do, and how a fresh
// genotype's topology should be seeded for it.
type Morphology interface {
	Name() string
	Sensors() []SensorSpec
	Actuators() []ActuatorSpec
	PhysConfig(ownerId, cortexId ids.Id, scapeName string) PhysicalConfig
	NeuronPattern(ownerId, agentId, cortexId ids.Id) NeuralInterface
}
