package agent

import (
	"context"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/neuromath"
	"github.com/hibernatus-hacker/bardo-sub002/scape"
)

// sensorActor awaits init_phase2, then on every {sync} produces one percept
// from its scape and forwards it to every downstream neuron (spec.md §4.3).
func sensorActor(ctx context.Context, id ids.Id, inbox Mailbox, sc scape.Scape) {
	init := awaitInitPhase2(ctx, inbox)
	if init == nil {
		return
	}
	name := init.Name

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-inbox:
			switch msg.Kind {
			case KindStop:
				return
			case KindSync:
				percept, err := sc.Sense(id, name, nil)
				if err != nil {
					percept = make([]float64, init.VL)
				}
				vector := toSignals(percept, init.VL)
				for _, peer := range init.Peers {
					if mb, ok := init.PeerMailboxes[peer]; ok {
						mb.Send(Message{Kind: KindForward, From: id, Vector: vector})
					}
				}
			}
		}
	}
}

func toSignals(percept []float64, vl int) []neuromath.Signal {
	out := make([]neuromath.Signal, vl)
	for i := 0; i < vl && i < len(percept); i++ {
		out[i] = neuromath.Signal(percept[i])
	}
	return out
}
