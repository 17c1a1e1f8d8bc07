package xor

import (
	"testing"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/scape"
)

func TestSensePresentsEveryTruthTableRowInOrder(t *testing.T) {
	s := New()
	agentId := ids.New(ids.KindAgent)
	if err := s.Init(agentId, nil); err != nil {
		t.Fatalf("Init returned an error: %v", err)
	}
	for i, row := range truthTable {
		got, err := s.Sense(agentId, "truth_table_in", nil)
		if err != nil {
			t.Fatalf("Sense returned an error: %v", err)
		}
		if len(got) != 2 || got[0] != row.in[0] || got[1] != row.in[1] {
			t.Fatalf("row %d: Sense() = %v, want %v", i, got, row.in)
		}
		if _, err := s.Actuate(agentId, "truth_table_out", nil, []float64{row.out}); err != nil {
			t.Fatalf("Actuate returned an error: %v", err)
		}
	}
}

func TestActuateHaltsOnlyAfterFourRows(t *testing.T) {
	s := New()
	agentId := ids.New(ids.KindAgent)
	_ = s.Init(agentId, nil)

	for i := 0; i < 3; i++ {
		result, err := s.Actuate(agentId, "truth_table_out", nil, []float64{0})
		if err != nil {
			t.Fatalf("Actuate returned an error: %v", err)
		}
		if result.Halt != scape.HaltNone {
			t.Fatalf("row %d: Halt = %v, want HaltNone before the episode's last row", i, result.Halt)
		}
	}
	result, err := s.Actuate(agentId, "truth_table_out", nil, []float64{0})
	if err != nil {
		t.Fatalf("Actuate returned an error: %v", err)
	}
	if result.Halt == scape.HaltNone {
		t.Fatalf("expected a halt flag on the fourth row, got HaltNone")
	}
}

func TestActuatePerfectOutputsReachGoalFitness(t *testing.T) {
	s := New()
	agentId := ids.New(ids.KindAgent)
	_ = s.Init(agentId, nil)

	var last scape.ActuateResult
	for _, row := range truthTable {
		var err error
		last, err = s.Actuate(agentId, "truth_table_out", nil, []float64{row.out})
		if err != nil {
			t.Fatalf("Actuate returned an error: %v", err)
		}
	}
	if last.Halt != scape.GoalReached {
		t.Fatalf("Halt = %v, want GoalReached for a perfect run", last.Halt)
	}
	if last.Fitness[0] != 1 {
		t.Fatalf("Fitness = %v, want 1 for zero total squared error", last.Fitness)
	}
}

func TestActuateWrongOutputsNeverReachGoalFitness(t *testing.T) {
	s := New()
	agentId := ids.New(ids.KindAgent)
	_ = s.Init(agentId, nil)

	var last scape.ActuateResult
	for _, row := range truthTable {
		var err error
		last, err = s.Actuate(agentId, "truth_table_out", nil, []float64{-row.out})
		if err != nil {
			t.Fatalf("Actuate returned an error: %v", err)
		}
	}
	if last.Halt != scape.Halt {
		t.Fatalf("Halt = %v, want plain Halt for a maximally wrong run", last.Halt)
	}
}

func TestTerminateClearsAgentState(t *testing.T) {
	s := New()
	agentId := ids.New(ids.KindAgent)
	_ = s.Init(agentId, nil)
	_, _ = s.Actuate(agentId, "truth_table_out", nil, []float64{0})
	s.Terminate(agentId, "stop")

	got, err := s.Sense(agentId, "truth_table_in", nil)
	if err != nil {
		t.Fatalf("Sense returned an error: %v", err)
	}
	if got[0] != truthTable[0].in[0] || got[1] != truthTable[0].in[1] {
		t.Fatalf("Sense() after Terminate = %v, want the first truth-table row %v", got, truthTable[0].in)
	}
}

func TestMorphologyDescribesTwoInputsOneOutput(t *testing.T) {
	m := Morphology{}
	if m.Name() != Name {
		t.Fatalf("Name() = %q, want %q", m.Name(), Name)
	}
	if len(m.Sensors()) != 1 || m.Sensors()[0].VL != 2 {
		t.Fatalf("Sensors() = %v, want one VL=2 sensor", m.Sensors())
	}
	if len(m.Actuators()) != 1 || m.Actuators()[0].VL != 1 {
		t.Fatalf("Actuators() = %v, want one VL=1 actuator", m.Actuators())
	}
	pattern := m.NeuronPattern(ids.Id{}, ids.Id{}, ids.Id{})
	if pattern.TotalNeuronCount < 1 {
		t.Fatalf("NeuronPattern().TotalNeuronCount = %d, want at least 1", pattern.TotalNeuronCount)
	}
}
