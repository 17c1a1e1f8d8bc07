package agent

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/mutation"
	"github.com/hibernatus-hacker/bardo-sub002/scape"
)

// Heredity selects which weight set becomes the neuron's backup at the end
// of an evaluation episode (spec.md §4.3/§4.2).
type Heredity int

const (
	Darwinian Heredity = iota
	Lamarckian
)

// Config bundles everything an Exoself needs that isn't carried by the
// genotype itself: which heredity mode to apply, the tuning-phase schedule,
// and the termination limits spec.md §4.3 names.
type Config struct {
	Heredity Heredity

	TuningAttempts    mutation.Duration
	TuningSelection   mutation.SelectionKind
	PerturbationRange float64
	AnnealingParam    float64
	MinPImprovement   float64

	MaxFitnessStagnation int
}

// EvaluationResult is what one Exoself.Run call reports back to the
// population manager: the final fitness, whether the scape signaled goal
// reached, and the (possibly Lamarckian-updated) genotype.
type EvaluationResult struct {
	Fitness     []float64
	GoalReached bool
	Genotype    *genotype.Genotype
}

// Exoself supervises one agent's full actor tree for the duration of one
// generation's evaluation (plus optional tuning phase), per spec.md §4.3's
// "Exoself responsibilities."
type Exoself struct {
	cfg    Config
	scapes scape.Registry
	seed   int64
	rng    *rand.Rand
}

// NewExoself constructs a supervisor for one agent. seed drives every actor
// goroutine's private RNG (spec.md §5: "the random-number generator is
// per-actor; each actor re-seeds on start") as well as the exoself's own
// tuning-selection draws.
func NewExoself(cfg Config, scapes scape.Registry, seed int64) *Exoself {
	return &Exoself{cfg: cfg, scapes: scapes, seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// actorTree holds every spawned actor's mailbox plus the machinery needed
// to run repeated episodes and the tuning protocol against them.
type actorTree struct {
	ctx    context.Context
	cancel context.CancelFunc

	cortexInbox Mailbox
	sensors     map[ids.Id]Mailbox
	neurons     map[ids.Id]Mailbox
	actuators   map[ids.Id]Mailbox

	report     chan CycleResult
	reactivate chan struct{}

	g *genotype.Genotype
}

// Run executes the full exoself lifecycle against g: spawn, wire, run
// init_phase2, evaluate (with an optional tuning phase), tear down, and
// apply heredity. g is never mutated in place; under Darwinian heredity the
// returned EvaluationResult.Genotype is g itself, and under Lamarckian
// heredity it is a clone of g carrying the tuned weights.
func (e *Exoself) Run(ctx context.Context, g *genotype.Genotype) (EvaluationResult, error) {
	tree, err := e.spawn(ctx, applySubstrate(g))
	if err != nil {
		return EvaluationResult{}, err
	}
	defer tree.stopAll()

	cycle, ok := tree.runEpisode()
	if !ok {
		return EvaluationResult{}, fmt.Errorf("agent: evaluation episode for genotype %s did not complete", g.Id)
	}
	bestFitness := cycle.Fitness
	goalReached := cycle.HaltReached == scape.GoalReached

	if e.cfg.TuningAttempts.K > 0 || e.cfg.TuningAttempts.Kind != mutation.DurationConst {
		bestFitness, goalReached = e.runTuningPhase(tree, bestFitness, goalReached)
	}

	result := g
	if e.cfg.Heredity == Lamarckian {
		result = e.writeBackWeights(tree, g)
	}

	return EvaluationResult{Fitness: bestFitness, GoalReached: goalReached, Genotype: result}, nil
}

func (t *actorTree) stopAll() {
	stop := Message{Kind: KindStop}
	for _, mb := range t.neurons {
		nonBlockingSend(mb, stop)
	}
	for _, mb := range t.sensors {
		nonBlockingSend(mb, stop)
	}
	for _, mb := range t.actuators {
		nonBlockingSend(mb, stop)
	}
	nonBlockingSend(t.cortexInbox, stop)
	t.cancel()
}

func nonBlockingSend(mb Mailbox, msg Message) {
	select {
	case mb <- msg:
	default:
	}
}

func (t *actorTree) runEpisode() (CycleResult, bool) {
	select {
	case result := <-t.report:
		return result, true
	case <-t.ctx.Done():
		return CycleResult{}, false
	}
}

// runTuningPhase drives spec.md §4.2/§4.3's tuning protocol: for N attempts
// (per e.cfg.TuningAttempts), back up, perturb a selected set of neurons,
// re-evaluate, and keep the perturbation only if fitness improved by at
// least MinPImprovement.
func (e *Exoself) runTuningPhase(tree *actorTree, bestFitness []float64, goalReached bool) ([]float64, bool) {
	attempts := e.cfg.TuningAttempts.Attempts(tree.g)
	darwinian := e.cfg.Heredity == Darwinian

	backupAll := func() {
		for _, mb := range tree.neurons {
			mb.Send(Message{Kind: KindWeightBackup, Darwinian: darwinian})
		}
	}
	restoreAll := func() {
		for _, mb := range tree.neurons {
			mb.Send(Message{Kind: KindWeightRestore})
		}
	}

	backupAll()

	for attempt := 0; attempt < attempts && !goalReached; attempt++ {
		selected := mutation.Select(e.cfg.TuningSelection, tree.g, tree.g.Generation, e.rng)
		for _, nid := range selected {
			n := tree.g.Neurons[nid]
			if n == nil {
				continue
			}
			spread := mutation.Spread(e.cfg.PerturbationRange, e.cfg.AnnealingParam, n.Age(tree.g.Generation))
			if mb, ok := tree.neurons[nid]; ok {
				mb.Send(Message{Kind: KindWeightPerturb, Spread: spread})
			}
		}

		tree.reactivate <- struct{}{}
		cycle, ok := tree.runEpisode()
		if !ok {
			break
		}

		improved := sumFitness(cycle.Fitness) >= sumFitness(bestFitness)+e.cfg.MinPImprovement
		if improved {
			bestFitness = cycle.Fitness
			goalReached = cycle.HaltReached == scape.GoalReached
			backupAll()
		} else {
			restoreAll()
		}
	}
	return bestFitness, goalReached
}

func sumFitness(f []float64) float64 {
	var total float64
	for _, v := range f {
		total += v
	}
	return total
}

// writeBackWeights collects each neuron's final backup weight set via
// get_backup and returns a clone of g with those weights applied — the
// Lamarckian inheritance path of spec.md §4.3. When g.HasSubstrate(), the
// actor tree was spawned from a substrate-expanded clone (applySubstrate)
// whose neurons carry extra trailing input edges beyond g's own; those are
// evaluation-only (see applySubstrate) and are dropped here by truncating
// each backup to g's original edge count, so Lamarckian inheritance only
// ever writes back weight changes to edges g already declared.
func (e *Exoself) writeBackWeights(tree *actorTree, g *genotype.Genotype) *genotype.Genotype {
	clone := g.Clone()
	for nid, mb := range tree.neurons {
		reply := make(chan Message, 1)
		mb.Send(Message{Kind: KindGetBackup, Reply: reply})
		select {
		case resp := <-reply:
			n := clone.Neurons[nid]
			if n == nil {
				continue
			}
			backup := resp.Backup
			if len(backup) > len(n.Inputs) {
				backup = backup[:len(n.Inputs)]
			}
			n.Inputs = backup
		case <-time.After(2 * time.Second):
		}
	}
	return clone
}
