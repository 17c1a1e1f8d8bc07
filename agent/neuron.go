package agent

import (
	"context"
	"math"
	"math/rand"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/neuromath"
)

// neuronState is one neuron actor's private, mutable state. Reachable only
// from the goroutine running neuronActor — every field here is unsafe to
// touch from any other goroutine, which is exactly why nothing but
// messages crosses this boundary.
type neuronState struct {
	id ids.Id

	inputs           []genotype.InputEdge
	outputs          []ids.Id
	recurrentOutputs []ids.Id
	activation       neuromath.Activation
	aggregator       neuromath.Aggregator
	plasticity       neuromath.Rule
	plasticityParams neuromath.Params

	// current is the live, working weight set; baseline is its value as of
	// the last perturbation; backup is the best-known set under whichever
	// heredity mode is active (spec.md §4.3).
	current  []genotype.InputEdge
	baseline []genotype.InputEdge
	backup   []genotype.InputEdge

	plasticityCurrent  neuromath.Params
	plasticityBaseline neuromath.Params
	plasticityBackup   neuromath.Params

	aggregatorMemory []neuromath.Signal

	rng *rand.Rand

	outbox map[ids.Id]Mailbox
	inbox  Mailbox
}

// neuronActor runs one neuron's full lifecycle: await init_phase2, then
// alternate cycles of "wait for one forward per input, fire, propagate"
// until a stop message arrives, servicing tuning-protocol messages
// (weight_backup/restore/perturb, reset_prep, get_backup) whenever they
// interleave between cycles. It suspends only at the top of this loop, so a
// weight set is never observed half-updated (spec.md §5).
func neuronActor(ctx context.Context, id ids.Id, inbox Mailbox, seed int64) {
	n := &neuronState{id: id, inbox: inbox, rng: rand.New(rand.NewSource(seed))}

	init := awaitInitPhase2(ctx, inbox)
	if init == nil {
		return
	}
	n.applyInit(*init)
	n.emitResetOutputs()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-inbox:
			switch msg.Kind {
			case KindStop:
				return
			case KindForward:
				n.handleCycle(msg)
			case KindWeightBackup:
				if msg.Darwinian {
					n.backupDarwinian()
				} else {
					n.backupLamarckian()
				}
			case KindWeightRestore:
				n.weightRestore()
			case KindWeightPerturb:
				n.weightPerturb(msg.Spread)
			case KindResetPrep:
				n.resetPrep(ctx, inbox, msg)
			case KindGetBackup:
				n.replyBackup(msg)
			}
		}
	}
}

func (n *neuronState) applyInit(init InitPhase2) {
	n.inputs = init.Inputs
	n.outputs = init.Outputs
	n.recurrentOutputs = init.RecurrentOutputs
	n.activation = init.Activation
	n.aggregator = init.Aggregator
	n.plasticity = init.Plasticity
	n.plasticityParams = init.PlasticityParams
	n.outbox = init.PeerMailboxes

	n.current = cloneEdges(n.inputs)
	n.baseline = cloneEdges(n.inputs)
	n.backup = cloneEdges(n.inputs)
	n.plasticityCurrent = n.plasticityParams
	n.plasticityBaseline = n.plasticityParams
	n.plasticityBackup = n.plasticityParams
}

// emitResetOutputs sends the configured reset-output signal (zero) to every
// recurrent output so a downstream neuron whose only first-cycle input is a
// recurrent edge has a defined value (spec.md §4.3 step 3).
func (n *neuronState) emitResetOutputs() {
	for _, out := range n.recurrentOutputs {
		if mb, ok := n.outbox[out]; ok {
			mb.Send(Message{Kind: KindForward, From: n.id, Vector: []neuromath.Signal{0}})
		}
	}
}

// handleCycle waits for one forward message from every input id (in
// arrival order, placed into the configured position regardless), then
// aggregates, activates, propagates, and applies plasticity.
func (n *neuronState) handleCycle(first Message) {
	received := make(map[ids.Id][]neuromath.Signal, len(n.current))
	// The bias source is a constant, not an actor: no sensor or neuron ever
	// emits a forward for it, so it is satisfied immediately rather than
	// waited on.
	received[genotype.BiasSource] = []neuromath.Signal{1}
	received[first.From] = first.Vector

	for !n.haveAll(received) {
		msg := <-n.inbox
		if msg.Kind == KindForward {
			received[msg.From] = msg.Vector
		}
	}

	inputVectors := make([][]neuromath.Signal, len(n.current))
	weightVectors := make([][]neuromath.Weight, len(n.current))
	for i, edge := range n.current {
		if !edge.Enabled {
			inputVectors[i] = nil
			weightVectors[i] = nil
			continue
		}
		inputVectors[i] = received[edge.Source]
		weightVectors[i] = edge.FlatWeights()
	}

	flatInput := neuromath.FlattenInputs(inputVectors)
	flatWeight := neuromath.FlattenWeights(weightVectors)

	out, newMemory := n.aggregator.Aggregate(flatInput, flatWeight, n.aggregatorMemory)
	n.aggregatorMemory = newMemory

	output := n.activation.Apply(out)
	saturated := neuromath.Signal(neuromath.Sat(float64(output), -neuromath.SaturationLimit, neuromath.SaturationLimit))

	n.applyPlasticity(flatInput, flatWeight, saturated)

	for _, out := range n.outputs {
		if mb, ok := n.outbox[out]; ok {
			mb.Send(Message{Kind: KindForward, From: n.id, Vector: []neuromath.Signal{saturated}})
		}
	}
}

func (n *neuronState) haveAll(received map[ids.Id][]neuromath.Signal) bool {
	for _, edge := range n.current {
		if !edge.Enabled {
			continue
		}
		if _, ok := received[edge.Source]; !ok {
			return false
		}
	}
	return true
}

func (n *neuronState) applyPlasticity(input []neuromath.Signal, weight []neuromath.Weight, output neuromath.Signal) {
	if n.plasticity == neuromath.None {
		return
	}
	updated := n.plasticity.Update(n.plasticityCurrent, input, weight, output)
	idx := 0
	for i := range n.current {
		if !n.current[i].Enabled {
			continue
		}
		for j := range n.current[i].Weights {
			if idx < len(updated) {
				n.current[i].Weights[j].Weight = neuromath.SaturateWeight(n.current[i].Weights[j].Weight + updated[idx])
			}
			idx++
		}
	}
}

func (n *neuronState) backupDarwinian() {
	n.backup = cloneEdges(n.baseline)
	n.plasticityBackup = n.plasticityBaseline
}

func (n *neuronState) backupLamarckian() {
	n.backup = cloneEdges(n.current)
	n.plasticityBackup = n.plasticityCurrent
}

func (n *neuronState) weightRestore() {
	n.current = cloneEdges(n.backup)
	n.baseline = cloneEdges(n.backup)
	n.plasticityCurrent = n.plasticityBackup
	n.plasticityBaseline = n.plasticityBackup
}

func (n *neuronState) weightPerturb(spread float64) {
	n.current = perturbEdges(n.backup, spread, n.rng)
	n.baseline = cloneEdges(n.current)

	paramCount := len(n.plasticityBackup.H)
	if paramCount == 0 {
		paramCount = 1
	}
	n.plasticityCurrent = perturbParams(n.plasticityBackup, paramCount, n.rng)
	n.plasticityBaseline = n.plasticityCurrent
}

func (n *neuronState) resetPrep(ctx context.Context, inbox Mailbox, msg Message) {
	for {
		select {
		case pending := <-inbox:
			if pending.Kind == KindForward {
				continue
			}
			if pending.Kind == KindStop {
				return
			}
		default:
			goto drained
		}
	}
drained:
	if msg.Reply != nil {
		msg.Reply <- Message{Kind: KindResetPrep, From: n.id}
	}
	for {
		select {
		case <-ctx.Done():
			return
		case next := <-inbox:
			switch next.Kind {
			case KindStop:
				return
			case KindReset:
				n.emitResetOutputs()
				return
			}
		}
	}
}

func (n *neuronState) replyBackup(msg Message) {
	if msg.Reply != nil {
		msg.Reply <- Message{Kind: KindBackupReply, From: n.id, Backup: cloneEdges(n.backup)}
	}
}

func cloneEdges(edges []genotype.InputEdge) []genotype.InputEdge {
	out := make([]genotype.InputEdge, len(edges))
	for i, e := range edges {
		out[i] = genotype.InputEdge{
			Source:  e.Source,
			Weights: append([]genotype.WeightedInput(nil), e.Weights...),
			Enabled: e.Enabled,
		}
	}
	return out
}

// perturbEdges implements spec.md §4.3's perturb(backup, spread): with
// per-weight probability 1/√totalWeights, add a uniform delta in
// [-spread, spread], saturated.
func perturbEdges(edges []genotype.InputEdge, spread float64, rng *rand.Rand) []genotype.InputEdge {
	out := cloneEdges(edges)
	total := 0
	for _, e := range out {
		total += len(e.Weights)
	}
	if total == 0 {
		return out
	}
	prob := 1 / math.Sqrt(float64(total))
	for i := range out {
		for j := range out[i].Weights {
			if rng.Float64() >= prob {
				continue
			}
			delta := (rng.Float64()*2 - 1) * spread
			out[i].Weights[j].Weight = neuromath.SaturateWeight(out[i].Weights[j].Weight + neuromath.Weight(delta))
		}
	}
	return out
}

// perturbParams perturbs plasticity parameters with the same per-parameter
// rule but a 10x saturation-limit spread (spec.md §4.3).
func perturbParams(p neuromath.Params, paramCount int, rng *rand.Rand) neuromath.Params {
	out := p
	out.H = append([]float64(nil), p.H...)
	prob := 1 / math.Sqrt(float64(paramCount))
	spread := neuromath.PlasticityParamSaturationLimit

	perturbOne := func(v float64) float64 {
		if rng.Float64() >= prob {
			return v
		}
		delta := (rng.Float64()*2 - 1) * spread
		return neuromath.SaturateParam(v + delta)
	}
	for i := range out.H {
		out.H[i] = perturbOne(out.H[i])
	}
	out.A = perturbOne(out.A)
	out.B = perturbOne(out.B)
	out.C = perturbOne(out.C)
	out.D = perturbOne(out.D)
	return out
}

