package genotype

import (
	"fmt"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
)

// Validate checks structural invariants 1, 2, 3 and 5 of spec.md §3, plus
// cortex membership of sensors/actuators and that no actuator is orphaned;
// invariants 4 and 6 are not checked here. It returns
// the first violation found, wrapped with enough context to identify the
// offending neuron/edge; mutation operators treat any non-nil return as
// "reject this mutation, try another."
func (g *Genotype) Validate() error {
	exists := func(id ids.Id) bool {
		if id == BiasSource {
			return true
		}
		if _, ok := g.Neurons[id]; ok {
			return true
		}
		if _, ok := g.Sensors[id]; ok {
			return true
		}
		if _, ok := g.Actuators[id]; ok {
			return true
		}
		return false
	}

	sourceVL := func(id ids.Id) (int, bool) {
		if id == BiasSource {
			return 1, true
		}
		if s, ok := g.Sensors[id]; ok {
			return s.VL, true
		}
		if _, ok := g.Neurons[id]; ok {
			return 1, true // neurons emit a length-1 vector (spec.md §4.3)
		}
		return 0, false
	}

	for id, n := range g.Neurons {
		// Invariant 1: every input reference points to an existing sensor
		// or neuron in the same cortex.
		for _, edge := range n.Inputs {
			if edge.Source != BiasSource {
				if _, isNeuron := g.Neurons[edge.Source]; !isNeuron {
					if _, isSensor := g.Sensors[edge.Source]; !isSensor {
						return fmt.Errorf("genotype: neuron %s has input from nonexistent source %s", id, edge.Source)
					}
				}
			}

			// Invariant 3: per-input weight list length equals the
			// source's vl.
			vl, ok := sourceVL(edge.Source)
			if !ok {
				return fmt.Errorf("genotype: neuron %s input source %s has no known vl", id, edge.Source)
			}
			if len(edge.Weights) != vl {
				return fmt.Errorf("genotype: neuron %s input from %s has %d weights, want %d (source vl)", id, edge.Source, len(edge.Weights), vl)
			}
		}

		// Invariant 2: every output reference points to an existing
		// neuron or actuator.
		for _, out := range n.Outputs {
			if !exists(out) {
				return fmt.Errorf("genotype: neuron %s has output to nonexistent target %s", id, out)
			}
			if _, isSensor := g.Sensors[out]; isSensor {
				return fmt.Errorf("genotype: neuron %s outputs into sensor %s, which is never a valid output target", id, out)
			}
		}

		// Invariant 5: recurrent outputs are a subset of outputs.
		outputSet := make(map[ids.Id]bool, len(n.Outputs))
		for _, out := range n.Outputs {
			outputSet[out] = true
		}
		for _, rec := range n.RecurrentOutputs {
			if !outputSet[rec] {
				return fmt.Errorf("genotype: neuron %s recurrent output %s is not a member of its outputs", id, rec)
			}
		}

		// Plasticity per-weight parameter consistency: only "_w" variants
		// may carry more than one H in PlasticityParams.H.

		if n.PlasticityParams.H != nil && !n.Plasticity.PerWeight() && len(n.PlasticityParams.H) > 1 {
			return fmt.Errorf("genotype: neuron %s plasticity rule %s is not per-weight but has %d H params", id, n.Plasticity, len(n.PlasticityParams.H))
		}
	}

	for id, s := range g.Sensors {
		if s.CortexId != g.Cortex.Id {
			return fmt.Errorf("genotype: sensor %s belongs to cortex %s, not %s", id, s.CortexId, g.Cortex.Id)
		}
	}
	for id, a := range g.Actuators {
		if a.CortexId != g.Cortex.Id {
			return fmt.Errorf("genotype: actuator %s belongs to cortex %s, not %s", id, a.CortexId, g.Cortex.Id)
		}
	}

	// No output may be orphaned: every actuator must receive from at least
	// one neuron, otherwise a structural mutation (e.g. remove_neuron) left
	// a dead output with nothing ever feeding it.
	fedActuators := make(map[ids.Id]bool)
	for _, n := range g.Neurons {
		for _, out := range n.Outputs {
			if _, ok := g.Actuators[out]; ok {
				fedActuators[out] = true
			}
		}
	}
	for id := range g.Actuators {
		if !fedActuators[id] {
			return fmt.Errorf("genotype: actuator %s has no feeding neuron (orphaned output)", id)
		}
	}

	return nil
}

// WouldOrphanOutput reports whether removing the given neuron would leave some actuator with zero feeding neurons. Mutation operators
// that remove structure call this before committing, per spec.md §4.2's
// "reject if removal would orphan an output."
func (g *Genotype) WouldOrphanOutput(removedNeuron ids.Id) bool {
	fedActuators := make(map[ids.Id]bool)
	for id, n := range g.Neurons {
		if id == removedNeuron {
			continue
		}
		for _, out := range n.Outputs {
			if _, ok := g.Actuators[out]; ok {
				fedActuators[out] = true
			}
		}
	}
	for id := range g.Actuators {
		if !fedActuators[id] {
			return true
		}
	}
	return false
}
