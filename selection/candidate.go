// Package selection implements spec.md §4.2's fitness-based reproduction:
// tournament/rank-proportional/truncation-with-elitism selection,
// topological-distance speciation, and a per-species hall-of-fame.
//
// Grounded on network/learning.go's Hebbian-style weighting of candidate
// synapses by past reinforcement, generalized here from weighting
// individual synapses to weighting (and choosing among) whole genotypes by
// fitness; gonum.org/v1/gonum/stat supplies the mean/stddev used by
// truncation thresholds and trace aggregation, the same dependency
// qubicDB-qubicdb and the emer repos pull in for aggregate statistics.
package selection

import (
	"sort"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
)

// Candidate pairs one evaluated genotype with the fitness vector its
// evaluation episode produced. Fitness is a vector (§13/SPEC_FULL.md open
// question decision) so multi-objective scapes are representable without a
// second type; single-objective scapes simply produce a length-1 slice.
type Candidate struct {
	Genotype    *genotype.Genotype
	Fitness     []float64
	GoalReached bool
}

// Scalar reduces a fitness vector to a single comparable value: the sum of
// its elements. Tournament/rank/truncation all compare on this, matching
// the S1 scenario's single-objective `fitness = 1/(1+error)` convention
// while still accepting multi-objective vectors.
func (c Candidate) Scalar() float64 {
	var total float64
	for _, f := range c.Fitness {
		total += f
	}
	return total
}

// Specie is a cluster of candidates sharing topological similarity
// (spec.md §3's Population.species). Members is ordered by descending
// Scalar() fitness after Specie.Rank is called.
type Specie struct {
	Id                ids.Id
	Members           []Candidate
	Champion          *Candidate
	Generation        int
	StagnationCounter int
}

// Rank sorts Members by descending fitness and refreshes Champion. Called
// once per generation after evaluation, before selection runs.
func (s *Specie) Rank() {
	sortByFitnessDesc(s.Members)
	if len(s.Members) == 0 {
		return
	}
	best := s.Members[0]
	if s.Champion == nil || best.Scalar() > s.Champion.Scalar() {
		s.Champion = &best
		s.StagnationCounter = 0
	} else {
		s.StagnationCounter++
	}
}

func sortByFitnessDesc(members []Candidate) {
	sort.Slice(members, func(i, j int) bool {
		return members[i].Scalar() > members[j].Scalar()
	})
}
