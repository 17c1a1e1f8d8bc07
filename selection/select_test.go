package selection

import (
	"math/rand"
	"testing"

	"github.com/hibernatus-hacker/bardo-sub002/genotype"
)

func fixtureCandidates(fitnesses ...float64) []Candidate {
	out := make([]Candidate, len(fitnesses))
	for i, f := range fitnesses {
		out[i] = Candidate{Genotype: genotype.New(), Fitness: []float64{f}}
	}
	return out
}

func TestScalarSumsFitnessVector(t *testing.T) {
	c := Candidate{Fitness: []float64{0.3, 0.4, 0.1}}
	if got := c.Scalar(); got < 0.79 || got > 0.81 {
		t.Fatalf("Scalar = %v, want ~0.8", got)
	}
}

func TestRankSortsDescendingAndTracksChampion(t *testing.T) {
	s := &Specie{Members: fixtureCandidates(0.2, 0.9, 0.5)}
	s.Rank()
	if s.Members[0].Scalar() != 0.9 || s.Members[2].Scalar() != 0.2 {
		t.Fatalf("Rank did not sort descending: %+v", s.Members)
	}
	if s.Champion == nil || s.Champion.Scalar() != 0.9 {
		t.Fatalf("expected champion to be the fittest member")
	}
	if s.StagnationCounter != 0 {
		t.Fatalf("expected stagnation counter reset on new champion, got %d", s.StagnationCounter)
	}
}

func TestRankIncrementsStagnationWhenNoImprovement(t *testing.T) {
	s := &Specie{Members: fixtureCandidates(0.9)}
	s.Rank()
	s.Members = fixtureCandidates(0.5)
	s.Rank()
	if s.StagnationCounter != 1 {
		t.Fatalf("StagnationCounter = %d, want 1", s.StagnationCounter)
	}
}

func TestSelectReturnsExactlyTargetSize(t *testing.T) {
	members := fixtureCandidates(0.1, 0.9, 0.4, 0.2, 0.7)
	rng := rand.New(rand.NewSource(1))
	for _, alg := range []Algorithm{AlgorithmTournament, AlgorithmRank, AlgorithmTruncation} {
		got := Select(members, 8, Params{Algorithm: alg, TournamentSize: 3, ElitismRatio: 0.2}, rng)
		if len(got) != 8 {
			t.Errorf("Select(%q) returned %d candidates, want 8", alg, len(got))
		}
	}
}

func TestSelectElitismCarriesOverFittestFirst(t *testing.T) {
	members := fixtureCandidates(0.1, 0.9, 0.4)
	rng := rand.New(rand.NewSource(2))
	got := Select(members, 3, Params{Algorithm: AlgorithmTruncation, ElitismRatio: 1.0}, rng)
	if got[0].Scalar() != 0.9 {
		t.Fatalf("expected the fittest member to be selected first under full elitism, got %v", got[0].Scalar())
	}
}

func TestSelectOnEmptyMembersReturnsNil(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	if got := Select(nil, 5, Params{Algorithm: AlgorithmTournament}, rng); got != nil {
		t.Fatalf("expected nil for an empty member list, got %v", got)
	}
}

func TestTournamentPickPrefersFitterCandidatesOverManyDraws(t *testing.T) {
	members := fixtureCandidates(0.01, 0.02, 0.99)
	rng := rand.New(rand.NewSource(4))
	wins := 0
	for i := 0; i < 200; i++ {
		picked := tournamentPick(members, 3, rng)
		if picked.Scalar() == 0.99 {
			wins++
		}
	}
	if wins < 100 {
		t.Fatalf("expected the dominant candidate to win most tournaments with size=3, won %d/200", wins)
	}
}
