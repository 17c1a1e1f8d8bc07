// Package xor implements spec.md §8's S1 benchmark scenario: a private
// scape that presents the four XOR truth-table rows in a fixed order within
// one episode and grades the network by total squared error, plus the
// 2-input/1-output morphology it is scored against. It exists so the cmd
// package's default experiment runs out of the box without any external
// scape/morphology configuration.
package xor

import (
	"sync"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/scape"
)

// Name is the registered scape/morphology name.
const Name = "xor"

// goalFitness is spec.md §8 S1's target: "a run must reach fitness >= 0.95".
const goalFitness = 0.95

var truthTable = []struct {
	in  []float64
	out float64
}{
	{[]float64{-1, -1}, -1},
	{[]float64{-1, 1}, 1},
	{[]float64{1, -1}, 1},
	{[]float64{1, 1}, -1},
}

type episodeState struct {
	step       int
	squaredErr float64
}

// Scape implements scape.Scape for the XOR benchmark. One episode presents
// all four truth-table rows in order; spec.md §4.3 accumulates an
// episode's per-cycle fitness additively across cycles, so reporting 0 on
// every row but the last and the combined score on the last leaves that
// final report as the episode's total.
type Scape struct {
	mu    sync.Mutex
	state map[ids.Id]*episodeState
}

// New builds a Scape with no agents in flight.
func New() *Scape {
	return &Scape{state: make(map[ids.Id]*episodeState)}
}

func (s *Scape) Init(agentId ids.Id, _ map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[agentId] = &episodeState{}
	return nil
}

func (s *Scape) Sense(agentId ids.Id, _ string, _ map[string]any) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stateFor(agentId)
	row := truthTable[st.step%len(truthTable)].in
	return append([]float64(nil), row...), nil
}

func (s *Scape) Actuate(agentId ids.Id, _ string, _ map[string]any, action []float64) (scape.ActuateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stateFor(agentId)

	want := truthTable[st.step%len(truthTable)].out
	var got float64
	if len(action) > 0 {
		got = action[0]
	}
	diff := want - got
	st.squaredErr += diff * diff
	st.step++

	if st.step < len(truthTable) {
		return scape.ActuateResult{Fitness: []float64{0}, Halt: scape.HaltNone}, nil
	}

	fitness := 1 / (1 + st.squaredErr)
	halt := scape.Halt
	if fitness >= goalFitness {
		halt = scape.GoalReached
	}
	delete(s.state, agentId)
	return scape.ActuateResult{Fitness: []float64{fitness}, Halt: halt}, nil
}

func (s *Scape) Terminate(agentId ids.Id, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state, agentId)
}

func (s *Scape) stateFor(agentId ids.Id) *episodeState {
	st, ok := s.state[agentId]
	if !ok {
		st = &episodeState{}
		s.state[agentId] = st
	}
	return st
}

// Morphology implements scape.Morphology for the XOR benchmark: 2 sensor
// inputs, 1 actuator output, tanh/dot_product/no-plasticity neurons per
// spec.md §8 S1 (the activation/aggregator/plasticity mix itself is a
// config.ExperimentConstraints concern, not something the morphology
// dictates).
type Morphology struct{}

func (Morphology) Name() string { return Name }

func (Morphology) Sensors() []scape.SensorSpec {
	return []scape.SensorSpec{{Name: "truth_table_in", VL: 2, Scape: Name}}
}

func (Morphology) Actuators() []scape.ActuatorSpec {
	return []scape.ActuatorSpec{{Name: "truth_table_out", VL: 1, Scape: Name}}
}

func (m Morphology) PhysConfig(ownerId, cortexId ids.Id, scapeName string) scape.PhysicalConfig {
	return scape.PhysicalConfig{Sensors: m.Sensors(), Actuators: m.Actuators()}
}

func (Morphology) NeuronPattern(ownerId, agentId, cortexId ids.Id) scape.NeuralInterface {
	return scape.NeuralInterface{TotalNeuronCount: 3}
}
