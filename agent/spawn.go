package agent

import (
	"context"
	"fmt"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/scape"
)

// spawn builds the full actor tree for g: one goroutine per sensor, neuron
// and actuator plus a cortex, wires their mailboxes per the genotype's
// fan-in/fan-out lists, and runs the startup protocol of spec.md §4.3
// before returning. Actors register implicitly by way of the returned
// actorTree's maps — there is no separate supervisor-registration message,
// since a Go goroutine's channel reference already is its registration.
func (e *Exoself) spawn(parent context.Context, g *genotype.Genotype) (*actorTree, error) {
	sc, err := e.resolveScape(g)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	tree := &actorTree{
		ctx:         ctx,
		cancel:      cancel,
		cortexInbox: newMailbox(),
		sensors:     make(map[ids.Id]Mailbox, len(g.Sensors)),
		neurons:     make(map[ids.Id]Mailbox, len(g.Neurons)),
		actuators:   make(map[ids.Id]Mailbox, len(g.Actuators)),
		report:      make(chan CycleResult, 1),
		reactivate:  make(chan struct{}),
		g:           g,
	}

	for id := range g.Sensors {
		tree.sensors[id] = newMailbox()
	}
	for id := range g.Neurons {
		tree.neurons[id] = newMailbox()
	}
	for id := range g.Actuators {
		tree.actuators[id] = newMailbox()
	}

	peerMailboxFor := func(id ids.Id) (Mailbox, bool) {
		if mb, ok := tree.neurons[id]; ok {
			return mb, true
		}
		if mb, ok := tree.actuators[id]; ok {
			return mb, true
		}
		if mb, ok := tree.sensors[id]; ok {
			return mb, true
		}
		return nil, false
	}

	seed := e.seed
	nextSeed := func() int64 {
		seed++
		return seed
	}

	for id, s := range g.Sensors {
		go sensorActor(ctx, id, tree.sensors[id], sc)
		peers := make(map[ids.Id]Mailbox, len(s.Outputs))
		for _, out := range s.Outputs {
			if mb, ok := peerMailboxFor(out); ok {
				peers[out] = mb
			}
		}
		tree.sensors[id] <- Message{Kind: KindInitPhase2, Init: InitPhase2{
			CortexId: g.Cortex.Id, Mode: ModeActive,
			Name: s.Name, VL: s.VL, Peers: append([]ids.Id(nil), s.Outputs...),
			PeerMailboxes: peers,
		}}
	}

	for id, n := range g.Neurons {
		go neuronActor(ctx, id, tree.neurons[id], nextSeed())
		peers := make(map[ids.Id]Mailbox, len(n.Outputs))
		for _, out := range n.Outputs {
			if mb, ok := peerMailboxFor(out); ok {
				peers[out] = mb
			}
		}
		tree.neurons[id] <- Message{Kind: KindInitPhase2, Init: InitPhase2{
			CortexId:         g.Cortex.Id,
			Mode:             ModeActive,
			Inputs:           n.Inputs,
			Outputs:          n.Outputs,
			RecurrentOutputs: n.RecurrentOutputs,
			Activation:       n.Activation,
			Aggregator:       n.Aggregator,
			Plasticity:       n.Plasticity,
			PlasticityParams: n.PlasticityParams,
			PeerMailboxes:    peers,
		}}
	}

	for id, a := range g.Actuators {
		go actuatorActor(ctx, id, tree.actuators[id], sc)
		tree.actuators[id] <- Message{Kind: KindInitPhase2, Init: InitPhase2{
			CortexId: g.Cortex.Id, Mode: ModeActive,
			Name: a.Name, VL: a.VL, Peers: append([]ids.Id(nil), a.Inputs...),
			CortexMailbox: tree.cortexInbox,
		}}
	}

	go cortexActor(ctx, tree.cortexInbox, g.Cortex.SensorIds, tree.sensors, len(g.Actuators), tree.report, tree.reactivate)
	tree.cortexInbox <- Message{Kind: KindInitPhase2, Init: InitPhase2{CortexId: g.Cortex.Id, Mode: ModeActive}}

	return tree, nil
}

// resolveScape looks up the single scape this agent's sensors/actuators all
// share. A morphology's sensors/actuators are expected to name one common
// scape per spec.md §4.4 (the private scape is created once per agent);
// mixed scape names within one genotype are a configuration error.
func (e *Exoself) resolveScape(g *genotype.Genotype) (scape.Scape, error) {
	name := ""
	for _, s := range g.Sensors {
		name = s.Scape
		break
	}
	if name == "" {
		for _, a := range g.Actuators {
			name = a.Scape
			break
		}
	}
	sc, ok := e.scapes.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("agent: no scape registered under name %q", name)
	}
	return sc, nil
}
