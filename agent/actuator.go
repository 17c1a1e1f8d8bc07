package agent

import (
	"context"
	"log"
	"time"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/scape"
)

// fitnessWaitTimeout is the soft timeout spec.md §4.3/§5 recommend for an
// actuator's wait on a scape's fitness reply: expiration logs and returns
// to the wait state without exiting.
const fitnessWaitTimeout = 30 * time.Second

// actuatorActor awaits init_phase2, then on every cycle waits for a forward
// from each input neuron (concatenated in configured order), invokes its
// scape's actuate callback, and reports the resulting (fitness, haltFlag)
// to the cortex as a sync.
func actuatorActor(ctx context.Context, id ids.Id, inbox Mailbox, sc scape.Scape) {
	init := awaitInitPhase2(ctx, inbox)
	if init == nil {
		return
	}
	name := init.Name
	cortex := init.CortexMailbox

	for {
		received := make(map[ids.Id][]float64, len(init.Peers))
		if !awaitAllInputs(ctx, inbox, init.Peers, received) {
			return
		}

		action := make([]float64, 0, init.VL*len(init.Peers))
		for _, peer := range init.Peers {
			for _, v := range received[peer] {
				action = append(action, float64(v))
			}
		}

		result := actuateWithTimeout(sc, id, name, action)
		cortex.Send(Message{Kind: KindSync, From: id, Fitness: result.Fitness, Halt: result.Halt})
	}
}

// actuateWithTimeout invokes sc.Actuate off the actor goroutine so a slow or
// hung scape can't stall the mailbox loop past fitnessWaitTimeout. On
// timeout it logs a warning through the standard logger, returns a zero
// result, and the actuator returns to its wait state for the next cycle —
// the call is not retried or cancelled, just abandoned from the actuator's
// point of view.
func actuateWithTimeout(sc scape.Scape, id ids.Id, name string, action []float64) scape.ActuateResult {
	done := make(chan scape.ActuateResult, 1)
	go func() {
		result, err := sc.Actuate(id, name, nil, action)
		if err != nil {
			result = scape.ActuateResult{Halt: scape.HaltNone}
		}
		done <- result
	}()
	select {
	case result := <-done:
		return result
	case <-time.After(fitnessWaitTimeout):
		log.Printf("agent: actuator %s: no fitness reply from scape within %s", id, fitnessWaitTimeout)
		return scape.ActuateResult{Halt: scape.HaltNone}
	}
}

// awaitAllInputs blocks until exactly one forward message has been
// received from every id in peers (in whatever order they arrive), or a
// stop/ctx-cancel interrupts it. Returns false if the actuator should exit.
func awaitAllInputs(ctx context.Context, inbox Mailbox, peers []ids.Id, received map[ids.Id][]float64) bool {
	want := make(map[ids.Id]bool, len(peers))
	for _, p := range peers {
		want[p] = true
	}
	for len(received) < len(want) {
		select {
		case <-ctx.Done():
			return false
		case msg := <-inbox:
			switch msg.Kind {
			case KindStop:
				return false
			case KindForward:
				if want[msg.From] {
					v := make([]float64, len(msg.Vector))
					for i, s := range msg.Vector {
						v[i] = float64(s)
					}
					received[msg.From] = v
				}
			}
		}
	}
	return true
}
