package agent

import (
	"context"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/scape"
)

// CycleResult is what a cortex reports to the exoself once every actuator
// has synced within a cycle and the accumulated halt flag is non-zero
// (spec.md §4.3 step 4's "report (totalFitness, totalCycles, ...)").
type CycleResult struct {
	Fitness     []float64
	Cycles      int
	HaltReached scape.HaltFlag
}

// cortexActor synchronizes one evaluation episode: on init_phase2 it
// signals every sensor to begin a cycle, then accumulates per-cycle fitness
// (element-wise sum, zero-padded to the longer vector) and the combined
// halt flag from every actuator sync. When halted, it reports to the
// exoself via report and awaits a reactivate-or-stop instruction.
func cortexActor(ctx context.Context, inbox Mailbox, sensors []ids.Id, sensorMailboxes map[ids.Id]Mailbox, actuatorCount int, report chan<- CycleResult, reactivate <-chan struct{}) {
	init := awaitInitPhase2(ctx, inbox)
	if init == nil {
		return
	}

	for {
		result, ok := runEpisode(ctx, inbox, sensors, sensorMailboxes, actuatorCount)
		if !ok {
			return
		}
		select {
		case report <- result:
		case <-ctx.Done():
			return
		}
		if result.HaltReached == scape.GoalReached {
			// goal reached: the exoself decides whether to terminate or
			// start a fresh episode (e.g. during a tuning-phase
			// re-evaluation); either way we wait for its decision.
		}
		select {
		case <-ctx.Done():
			return
		case _, open := <-reactivate:
			if !open {
				return
			}
		}
	}
}

// runEpisode drives sensors through cycles until some actuator halts,
// returning the accumulated fitness vector, cycle count, and combined halt
// flag.
func runEpisode(ctx context.Context, inbox Mailbox, sensors []ids.Id, sensorMailboxes map[ids.Id]Mailbox, actuatorCount int) (CycleResult, bool) {
	var totalFitness []float64
	cycles := 0

	for {
		for _, s := range sensors {
			if mb, ok := sensorMailboxes[s]; ok {
				mb.Send(Message{Kind: KindSync})
			}
		}
		cycles++

		var cycleFitness []float64
		var halt scape.HaltFlag
		synced := 0
		for synced < actuatorCount {
			select {
			case <-ctx.Done():
				return CycleResult{}, false
			case msg := <-inbox:
				switch msg.Kind {
				case KindStop:
					return CycleResult{}, false
				case KindSync:
					cycleFitness = addElementwise(cycleFitness, msg.Fitness)
					halt = halt.Combine(msg.Halt)
					synced++
				}
			}
		}

		totalFitness = addElementwise(totalFitness, cycleFitness)
		if halt != scape.HaltNone {
			return CycleResult{Fitness: totalFitness, Cycles: cycles, HaltReached: halt}, true
		}
	}
}

// addElementwise sums two fitness vectors, zero-padding the shorter to the
// longer's length (spec.md §8 testable property 7).
func addElementwise(a, b []float64) []float64 {
	if len(b) > len(a) {
		a, b = b, a
	}
	out := append([]float64(nil), a...)
	for i, v := range b {
		out[i] += v
	}
	return out
}
