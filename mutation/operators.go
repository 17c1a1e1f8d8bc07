package mutation

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/neuromath"
)

// Apply draws one operator from c and applies it to a clone of g, retrying
// up to c.MaxAttempts times whenever the result fails Validate or the
// operator itself refuses (e.g. removing the only feeding neuron of an
// actuator). It returns the mutated clone and the operator that succeeded,
// or the original genotype and an error if every attempt was rejected.
func Apply(g *genotype.Genotype, c Constraints, rng *rand.Rand) (*genotype.Genotype, Operator, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts(c); attempt++ {
		op := c.Choose(rng)
		candidate := g.Clone()

		var err error
		switch op {
		case OpModifyWeights:
			err = ModifyWeights(candidate, c.PerturbationSpread, rng)
		case OpAddNeuron:
			err = AddNeuron(candidate, c, rng)
		case OpAddConnection:
			err = AddConnection(candidate, rng)
		case OpRemoveConnection:
			err = RemoveConnection(candidate, rng)
		case OpRemoveNeuron:
			err = RemoveNeuron(candidate, rng)
		case OpEnableConnection:
			err = EnableConnection(candidate, rng)
		case OpDisableConnection:
			err = DisableConnection(candidate, rng)
		default:
			err = fmt.Errorf("mutation: unknown operator %q", op)
		}
		if err != nil {
			lastErr = err
			continue
		}
		if err := candidate.Validate(); err != nil {
			lastErr = err
			continue
		}
		candidate.Generation = g.Generation + 1
		return candidate, op, nil
	}
	return g, "", fmt.Errorf("mutation: no operator succeeded after %d attempts, last error: %w", maxAttempts(c), lastErr)
}

func maxAttempts(c Constraints) int {
	if c.MaxAttempts <= 0 {
		return 20
	}
	return c.MaxAttempts
}

// ModifyWeights perturbs every enabled weight with probability 1/sqrt(N), N
// the neuron's TotalWeights, by a uniform random delta in [-spread, spread],
// saturating to neuromath.SaturationLimit — spec.md §4.2's parametric
// mutation operator. Plasticity parameters are left unchanged.
func ModifyWeights(g *genotype.Genotype, spread float64, rng *rand.Rand) error {
	touched := false
	for _, n := range g.Neurons {
		total := n.TotalWeights()
		if total == 0 {
			continue
		}
		perWeightProb := 1 / math.Sqrt(float64(total))
		for i := range n.Inputs {
			if !n.Inputs[i].Enabled {
				continue
			}
			for j := range n.Inputs[i].Weights {
				if rng.Float64() >= perWeightProb {
					continue
				}
				delta := (rng.Float64()*2 - 1) * spread
				w := n.Inputs[i].Weights[j].Weight + neuromath.Weight(delta)
				n.Inputs[i].Weights[j].Weight = neuromath.SaturateWeight(w)
				touched = true
			}
		}
	}
	if !touched {
		return fmt.Errorf("mutation: modify_weights found no enabled weight to perturb")
	}
	return nil
}

// AddNeuron splices a new neuron into an existing source -> target edge:
// picks a random neuron-to-neuron-or-actuator edge, disconnects it, and
// reconnects source -> new -> target, per spec.md §4.2's "insert node between
// a random pair" construction. The new neuron's weights start at the
// perturbation spread's scale around zero rather than copying the spliced
// edge's weight, so the new structure starts near-identity but not exactly
// so.
func AddNeuron(g *genotype.Genotype, c Constraints, rng *rand.Rand) error {
	neuronIds := neuronIdList(g)
	if len(neuronIds) == 0 {
		return fmt.Errorf("mutation: add_neuron requires at least one existing neuron to splice from")
	}
	source := neuronIds[rng.Intn(len(neuronIds))]
	sourceNeuron := g.Neurons[source]
	if len(sourceNeuron.Outputs) == 0 {
		return fmt.Errorf("mutation: neuron %s has no outputs to splice into", source)
	}
	target := sourceNeuron.Outputs[rng.Intn(len(sourceNeuron.Outputs))]

	if !g.Disconnect(source, target) {
		return fmt.Errorf("mutation: add_neuron could not disconnect %s -> %s", source, target)
	}

	n := &genotype.Neuron{
		Id:         ids.New(ids.KindNeuron),
		CortexId:   g.Cortex.Id,
		Generation: g.Generation + 1,
		Activation: randActivation(c, rng),
		Aggregator: randAggregator(c, rng),
		Plasticity: randPlasticity(c, rng),
	}
	g.Neurons[n.Id] = n
	g.Cortex.NeuronIds = append(g.Cortex.NeuronIds, n.Id)

	initialWeight := neuromath.Weight((rng.Float64()*2 - 1) * c.PerturbationSpread)
	if err := g.Connect(source, n.Id, []genotype.WeightedInput{{Weight: initialWeight}}, false); err != nil {
		return err
	}
	if err := g.Connect(n.Id, target, []genotype.WeightedInput{{Weight: initialWeight}}, false); err != nil {
		return err
	}
	return nil
}

// AddConnection wires a new edge between a random existing (source, target)
// pair that isn't already connected: source is any sensor or neuron, target
// is any neuron or actuator in the same cortex; self-loops are never drawn,
// and about one new edge in ten is marked recurrent. New weights start at
// zero, the neutral starting point
// spec.md §4.2 specifies for newly formed connections.
func AddConnection(g *genotype.Genotype, rng *rand.Rand) error {
	sources := sourceIdList(g)
	targets := targetIdList(g)
	if len(sources) == 0 || len(targets) == 0 {
		return fmt.Errorf("mutation: add_connection requires at least one source and one target")
	}

	for attempt := 0; attempt < 20; attempt++ {
		source := sources[rng.Intn(len(sources))]
		target := targets[rng.Intn(len(targets))]
		if source == target {
			continue
		}
		if g.Connected(source, target) {
			continue
		}
		vl := 1
		if s, ok := g.Sensors[source]; ok {
			vl = s.VL
		}
		weights := make([]genotype.WeightedInput, vl)
		recurrent := rng.Float64() < 0.1
		if err := g.Connect(source, target, weights, recurrent); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("mutation: add_connection found no unconnected (source, target) pair after 20 attempts")
}

// RemoveConnection deletes a random existing neuron input edge (from a
// sensor, neuron or bias). Edges into actuators are never drawn, so the
// removal cannot orphan an actuator.
func RemoveConnection(g *genotype.Genotype, rng *rand.Rand) error {
	type edge struct{ source, target ids.Id }
	var edges []edge
	for id, n := range g.Neurons {
		for _, in := range n.Inputs {
			edges = append(edges, edge{in.Source, id})
		}
	}
	if len(edges) == 0 {
		return fmt.Errorf("mutation: remove_connection found no edge to remove")
	}
	e := edges[rng.Intn(len(edges))]
	if !g.Disconnect(e.source, e.target) {
		return fmt.Errorf("mutation: remove_connection could not disconnect %s -> %s", e.source, e.target)
	}
	return nil
}

// RemoveNeuron deletes a random neuron and every edge touching it, rejecting
// up front any neuron whose removal would orphan an actuator (spec.md §4.2).
func RemoveNeuron(g *genotype.Genotype, rng *rand.Rand) error {
	candidates := neuronIdList(g)
	if len(candidates) == 0 {
		return fmt.Errorf("mutation: remove_neuron found no neuron to remove")
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	for _, target := range candidates {
		if g.WouldOrphanOutput(target) {
			continue
		}
		n := g.Neurons[target]
		for _, in := range append([]ids.Id(nil), n.Outputs...) {
			g.Disconnect(target, in)
		}
		for _, in := range append([]genotype.InputEdge(nil), n.Inputs...) {
			g.Disconnect(in.Source, target)
		}
		delete(g.Neurons, target)
		g.Cortex.NeuronIds = removeId(g.Cortex.NeuronIds, target)
		return nil
	}
	return fmt.Errorf("mutation: remove_neuron found no neuron whose removal would not orphan an actuator")
}

// EnableConnection flips a random disabled edge back to enabled.
func EnableConnection(g *genotype.Genotype, rng *rand.Rand) error {
	return toggleConnection(g, rng, false)
}

// DisableConnection flips a random enabled edge to disabled, rejecting
// (letting Apply retry) if doing so would leave a neuron with no enabled
// inputs at all.
func DisableConnection(g *genotype.Genotype, rng *rand.Rand) error {
	return toggleConnection(g, rng, true)
}

func toggleConnection(g *genotype.Genotype, rng *rand.Rand, wantEnabled bool) error {
	type ref struct {
		neuron ids.Id
		index  int
	}
	var matches []ref
	for id, n := range g.Neurons {
		enabled := 0
		for _, edge := range n.Inputs {
			if edge.Enabled {
				enabled++
			}
		}
		if wantEnabled && enabled <= 1 {
			continue
		}
		for i, edge := range n.Inputs {
			if edge.Enabled == wantEnabled {
				matches = append(matches, ref{id, i})
			}
		}
	}
	if len(matches) == 0 {
		verb := "enable"
		if wantEnabled {
			verb = "disable"
		}
		return fmt.Errorf("mutation: %s_connection found no eligible edge", verb)
	}
	m := matches[rng.Intn(len(matches))]
	g.Neurons[m.neuron].Inputs[m.index].Enabled = !wantEnabled
	return nil
}

func neuronIdList(g *genotype.Genotype) []ids.Id {
	out := make([]ids.Id, 0, len(g.Neurons))
	for id := range g.Neurons {
		out = append(out, id)
	}
	return out
}

func sourceIdList(g *genotype.Genotype) []ids.Id {
	out := make([]ids.Id, 0, len(g.Sensors)+len(g.Neurons))
	for id := range g.Sensors {
		out = append(out, id)
	}
	for id := range g.Neurons {
		out = append(out, id)
	}
	return out
}

func targetIdList(g *genotype.Genotype) []ids.Id {
	out := make([]ids.Id, 0, len(g.Neurons)+len(g.Actuators))
	for id := range g.Neurons {
		out = append(out, id)
	}
	for id := range g.Actuators {
		out = append(out, id)
	}
	return out
}

func removeId(list []ids.Id, target ids.Id) []ids.Id {
	for i, id := range list {
		if id == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
