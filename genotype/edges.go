package genotype

import (
	"fmt"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
)

// Connect wires source -> target, updating every mirrored list the agent
// runtime relies on: the target neuron's weighted Inputs (when target is a
// neuron), the source's fan-out list (Sensor.Outputs or Neuron.Outputs),
// and the target actuator's Inputs (when target is an actuator). weights
// must already be sized to the source's output vl (1 for a neuron or bias,
// source.VL for a sensor). recurrent marks the edge as one of the target
// neuron's RecurrentOutputs-from-the-source's-perspective — i.e. the
// *source* neuron records target in its RecurrentOutputs.
func (g *Genotype) Connect(source, target ids.Id, weights []WeightedInput, recurrent bool) error {
	switch {
	case g.Neurons[target] != nil:
		n := g.Neurons[target]
		n.Inputs = append(n.Inputs, InputEdge{Source: source, Weights: weights, Enabled: true})
	case g.Actuators[target] != nil:
		a := g.Actuators[target]
		a.Inputs = append(a.Inputs, source)
	default:
		return fmt.Errorf("genotype: connect target %s does not exist", target)
	}

	switch {
	case g.Sensors[source] != nil:
		s := g.Sensors[source]
		s.Outputs = append(s.Outputs, target)
	case g.Neurons[source] != nil:
		n := g.Neurons[source]
		n.Outputs = append(n.Outputs, target)
		if recurrent {
			n.RecurrentOutputs = append(n.RecurrentOutputs, target)
		}
	default:
		return fmt.Errorf("genotype: connect source %s does not exist", source)
	}
	return nil
}

// Disconnect removes the edge source -> target from every mirrored list.
// It is a no-op (returns false) if no such edge exists.
func (g *Genotype) Disconnect(source, target ids.Id) bool {
	removed := false

	if n := g.Neurons[target]; n != nil {
		for i, edge := range n.Inputs {
			if edge.Source == source {
				n.Inputs = append(n.Inputs[:i], n.Inputs[i+1:]...)
				removed = true
				break
			}
		}
	} else if a := g.Actuators[target]; a != nil {
		for i, id := range a.Inputs {
			if id == source {
				a.Inputs = append(a.Inputs[:i], a.Inputs[i+1:]...)
				removed = true
				break
			}
		}
	}

	if !removed {
		return false
	}

	if s := g.Sensors[source]; s != nil {
		s.Outputs = removeId(s.Outputs, target)
	} else if n := g.Neurons[source]; n != nil {
		n.Outputs = removeId(n.Outputs, target)
		n.RecurrentOutputs = removeId(n.RecurrentOutputs, target)
	}
	return true
}

func removeId(list []ids.Id, target ids.Id) []ids.Id {
	for i, id := range list {
		if id == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Connected reports whether an edge source -> target already exists,
// used by add_connection to refuse duplicate edges.
func (g *Genotype) Connected(source, target ids.Id) bool {
	if n := g.Neurons[target]; n != nil {
		for _, edge := range n.Inputs {
			if edge.Source == source {
				return true
			}
		}
		return false
	}
	if a := g.Actuators[target]; a != nil {
		for _, id := range a.Inputs {
			if id == source {
				return true
			}
		}
	}
	return false
}
