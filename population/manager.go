package population

import (
	"context"
	"log"
	"math/rand"
	"sync"

	"github.com/hibernatus-hacker/bardo-sub002/agent"
	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/mutation"
	"github.com/hibernatus-hacker/bardo-sub002/scape"
	"github.com/hibernatus-hacker/bardo-sub002/selection"
)

// Config bundles everything a Manager needs beyond the population itself:
// target size, the constraints mutation/selection/speciation draw from, and
// the termination limits of spec.md §4.5.
type Config struct {
	TargetPopulationSize int
	Constraints          mutation.Constraints
	SelectionParams      selection.Params
	SpeciationThreshold  float64
	ShofRatio            float64

	// ReEntryProbability: the chance a specie member displaced by truncation
	// is nonetheless kept as a non-reproducing member for one more
	// generation rather than dropped immediately (§13 open-question
	// decision — see DESIGN.md).
	ReEntryProbability float64

	ExoselfConfig agent.Config

	MaxGenerations       int
	MaxFitnessStagnation int

	// FailureFitnessFloor is substituted for a genotype's fitness when its
	// agent crashes mid-episode (spec.md §7/§8 S4).
	FailureFitnessFloor float64

	Logger *log.Logger
}

// Manager drives one experiment run's generations: seeding, evaluation,
// tuning (delegated into each agent.Exoself.Run call), selection and
// reproduction. It does not re-speciate: species are carried over from one
// generation to the next unchanged, selection.Speciate is never called, and
// SpeciationThreshold has no effect. Grounded on HD220-crownet/cli/orchestrator.go's
// Run/error-wrapping shape, generalized from "one simulation" to "one
// generation."
type Manager struct {
	cfg    Config
	scapes scape.Registry
	rng    *rand.Rand
}

func NewManager(cfg Config, scapes scape.Registry, seed int64) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Manager{cfg: cfg, scapes: scapes, rng: rand.New(rand.NewSource(seed))}
}

// Population is the manager's in-memory view of the current generation: a
// set of species, each owning its members and a hall-of-fame (spec.md §3's
// "Population" entity).
type Population struct {
	Generation int
	Species    []*selection.Specie
	HallOfFames map[ids.Id]*selection.HallOfFame

	bestFitnessSoFar float64
	stagnantGens     int
}

// Seed builds an initial single-species population of cfg.TargetPopulationSize
// fresh genotypes from morph.
func (m *Manager) Seed(morph scape.Morphology, scapeName string) *Population {
	genotypes := Seed(morph, scapeName, m.cfg.TargetPopulationSize, m.cfg.Constraints, m.rng)
	members := make([]selection.Candidate, len(genotypes))
	for i, g := range genotypes {
		members[i] = selection.Candidate{Genotype: g}
	}
	specie := &selection.Specie{Id: ids.New(ids.KindSpecie), Members: members, Generation: 0}
	return &Population{
		Species:     []*selection.Specie{specie},
		HallOfFames: map[ids.Id]*selection.HallOfFame{specie.Id: selection.NewHallOfFame(m.cfg.ShofRatio, m.cfg.TargetPopulationSize)},
	}
}

// RunGeneration evaluates every member of pop, computes a Trace per specie,
// and returns the next generation's Population plus a termination decision.
// Termination fires on goal-reached, max generations, or fitness stagnation
// beyond cfg.MaxFitnessStagnation (spec.md §4.5).
func (m *Manager) RunGeneration(ctx context.Context, pop *Population) (*Population, []Trace, bool, string, error) {
	var traces []Trace
	nextSpecies := make([]*selection.Specie, 0, len(pop.Species))
	goalReached := false
	bestThisGen := pop.bestFitnessSoFar

	for _, specie := range pop.Species {
		evaluated, evaluations := m.evaluateSpecie(ctx, specie)
		trace := BuildTrace(pop.Generation, specie.Id, evaluated, evaluations)
		traces = append(traces, trace)

		for _, c := range evaluated {
			if c.GoalReached {
				goalReached = true
			}
			if s := c.Scalar(); s > bestThisGen {
				bestThisGen = s
			}
		}

		hof := pop.HallOfFames[specie.Id]
		if hof == nil {
			hof = selection.NewHallOfFame(m.cfg.ShofRatio, m.cfg.TargetPopulationSize)
			pop.HallOfFames[specie.Id] = hof
		}
		for _, c := range evaluated {
			hof.Consider(c)
		}

		specie.Members = evaluated
		specie.Rank()

		if goalReached {
			nextSpecies = append(nextSpecies, specie)
			continue
		}

		nextMembers := m.reproduce(specie, evaluated)
		nextSpecies = append(nextSpecies, &selection.Specie{
			Id:      specie.Id,
			Members: nextMembers,
			Generation: specie.Generation + 1,
			StagnationCounter: specie.StagnationCounter,
		})
	}

	nextGenNumber := pop.Generation + 1
	stagnantGens := pop.stagnantGens
	if bestThisGen > pop.bestFitnessSoFar {
		stagnantGens = 0
	} else {
		stagnantGens++
	}

	next := &Population{
		Generation:       nextGenNumber,
		Species:          nextSpecies,
		HallOfFames:      pop.HallOfFames,
		bestFitnessSoFar: bestThisGen,
		stagnantGens:     stagnantGens,
	}

	done, reason := m.checkTermination(next, goalReached)
	return next, traces, done, reason, nil
}

func (m *Manager) checkTermination(pop *Population, goalReached bool) (bool, string) {
	if goalReached {
		return true, "goal_reached"
	}
	if m.cfg.MaxGenerations > 0 && pop.Generation >= m.cfg.MaxGenerations {
		return true, "max_generations"
	}
	if m.cfg.MaxFitnessStagnation > 0 && pop.stagnantGens >= m.cfg.MaxFitnessStagnation {
		return true, "fitness_stagnation"
	}
	return false, ""
}

// evaluateSpecie spawns one agent.Exoself per member genotype, in parallel
// per spec.md §5's "parallel tasks with cooperative message passing, no
// shared mutable state" scheduling model, and collects each one's
// EvaluationResult. A panicking agent (spec.md §8 S4) is recovered and
// recorded at the configured failure floor rather than aborting the whole
// generation.
func (m *Manager) evaluateSpecie(ctx context.Context, specie *selection.Specie) ([]selection.Candidate, int) {
	out := make([]selection.Candidate, len(specie.Members))

	// Seeds are drawn synchronously here, one per member, rather than from
	// inside the spawned goroutines below: m.rng is a single *rand.Rand and
	// is not safe for concurrent use, and drawing it in parallel would race
	// on its internal state and break spec.md §5's one-RNG-per-actor model.
	seeds := make([]int64, len(specie.Members))
	for i := range specie.Members {
		seeds[i] = m.rng.Int63()
	}

	var wg sync.WaitGroup
	for i, member := range specie.Members {
		wg.Add(1)
		go func(i int, g *genotype.Genotype, seed int64) {
			defer wg.Done()
			out[i] = m.evaluateOne(ctx, g, seed)
		}(i, member.Genotype, seeds[i])
	}
	wg.Wait()
	return out, len(out)
}

func (m *Manager) evaluateOne(ctx context.Context, g *genotype.Genotype, seed int64) (result selection.Candidate) {
	result = selection.Candidate{Genotype: g, Fitness: []float64{m.cfg.FailureFitnessFloor}}
	defer func() {
		if r := recover(); r != nil {
			m.cfg.Logger.Printf("population: agent %s crashed during evaluation, recording floor fitness: %v", g.Id, r)
			result = selection.Candidate{Genotype: g, Fitness: []float64{m.cfg.FailureFitnessFloor}}
		}
	}()

	ex := agent.NewExoself(m.cfg.ExoselfConfig, m.scapes, seed)
	eval, err := ex.Run(ctx, g)
	if err != nil {
		m.cfg.Logger.Printf("population: agent %s evaluation failed, recording floor fitness: %v", g.Id, err)
		return selection.Candidate{Genotype: g, Fitness: []float64{m.cfg.FailureFitnessFloor}}
	}
	return selection.Candidate{Genotype: eval.Genotype, Fitness: eval.Fitness, GoalReached: eval.GoalReached}
}

// reproduce runs spec.md §4.5 step 4: fill the next generation via
// selection.Select, keep the first eliteCount selected members unchanged,
// and run mutation.Apply on each remaining slot. Then each just-displaced
// member is independently re-admitted, with probability
// ReEntryProbability, in place of a freshly mutated offspring. Hall-of-fame
// entries are not put back into the population.
func (m *Manager) reproduce(specie *selection.Specie, evaluated []selection.Candidate) []selection.Candidate {
	targetSize := m.cfg.TargetPopulationSize
	if targetSize <= 0 {
		targetSize = len(evaluated)
	}
	selected := selection.Select(evaluated, targetSize, m.cfg.SelectionParams, m.rng)

	eliteCount := int(float64(targetSize) * m.cfg.SelectionParams.ElitismRatio)
	next := make([]selection.Candidate, len(selected))
	copy(next, selected)

	for i := eliteCount; i < len(next); i++ {
		child, _, err := mutation.Apply(next[i].Genotype, m.cfg.Constraints, m.rng)
		if err != nil {
			m.cfg.Logger.Printf("population: mutation skipped for genotype %s: %v", next[i].Genotype.Id, err)
			continue
		}
		next[i] = selection.Candidate{Genotype: child}
	}

	evictedSet := make(map[ids.Id]selection.Candidate)
	selectedSet := make(map[ids.Id]bool, len(selected))
	for _, c := range selected {
		selectedSet[c.Genotype.Id] = true
	}
	for _, c := range evaluated {
		if !selectedSet[c.Genotype.Id] {
			evictedSet[c.Genotype.Id] = c
		}
	}
	if m.cfg.ReEntryProbability > 0 {
		slot := eliteCount
		for _, evicted := range evictedSet {
			if slot >= len(next) {
				break
			}
			if m.rng.Float64() < m.cfg.ReEntryProbability {
				next[slot] = selection.Candidate{Genotype: evicted.Genotype}
				slot++
			}
		}
	}

	return next
}
