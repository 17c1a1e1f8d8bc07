// Package mutation implements the structural and parametric genotype
// mutation operators of spec.md §4.2 (modify_weights, add_neuron,
// add_connection, remove_connection, remove_neuron, enable/disable
// connection) plus the tuning-phase duration/selection/annealing functions
// used between structural generations.
//
// Grounded on network/synaptogenesis.go's probabilistic per-element
// perturbation-with-spread style and network/synaptogenesis_strategy.go's
// weighted-operator-selection pattern, generalized from spatial movement
// mutation to genotype graph mutation.
package mutation

import (
	"math/rand"

	"github.com/hibernatus-hacker/bardo-sub002/neuromath"
)

// Constraints bounds what a mutation operator is allowed to produce: which
// activation/aggregator/plasticity functions it may assign to a newly
// created neuron, how often each operator is chosen, and the perturbation
// spread used by modify_weights and add_neuron's initial weights.
type Constraints struct {
	AllowedActivations []neuromath.Activation
	AllowedAggregators []neuromath.Aggregator
	AllowedPlasticity  []neuromath.Rule

	// OperatorProbabilities need not sum to 1 — an operator is chosen by
	// weighted sample (spec.md §4.2).
	OperatorProbabilities map[Operator]float64

	PerturbationSpread float64

	// MaxAttempts bounds how many times a rejected mutation (one that
	// would violate a genotype invariant) is retried before the operator
	// gives up and logs a skip (spec.md §7).
	MaxAttempts int
}

// DefaultConstraints mirrors the S1 (XOR) scenario's operator mix from
// spec.md §8, a reasonable starting point for experiments that don't
// override it via config.
func DefaultConstraints() Constraints {
	return Constraints{
		AllowedActivations: []neuromath.Activation{neuromath.Tanh, neuromath.Sigmoid, neuromath.Sin, neuromath.Gaussian, neuromath.Linear},
		AllowedAggregators: []neuromath.Aggregator{neuromath.DotProduct},
		AllowedPlasticity:  []neuromath.Rule{neuromath.None},
		OperatorProbabilities: map[Operator]float64{
			OpModifyWeights:     0.8,
			OpAddNeuron:         0.03,
			OpAddConnection:     0.05,
			OpRemoveConnection:  0.02,
			OpRemoveNeuron:      0.01,
			OpEnableConnection:  0.02,
			OpDisableConnection: 0.02,
		},
		PerturbationSpread: 1.0,
		MaxAttempts:        20,
	}
}

// Operator names one mutation operator for weighted-sample selection.
type Operator string

const (
	OpModifyWeights     Operator = "modify_weights"
	OpAddNeuron         Operator = "add_neuron"
	OpAddConnection     Operator = "add_connection"
	OpRemoveConnection  Operator = "remove_connection"
	OpRemoveNeuron      Operator = "remove_neuron"
	OpEnableConnection  Operator = "enable_connection"
	OpDisableConnection Operator = "disable_connection"
)

// Choose samples one operator from c.OperatorProbabilities, weighted. Ties
// and a zero-probability table both fall back to OpModifyWeights, the
// always-safe operator.
func (c Constraints) Choose(rng *rand.Rand) Operator {
	var total float64
	for _, p := range c.OperatorProbabilities {
		total += p
	}
	if total <= 0 {
		return OpModifyWeights
	}

	r := rng.Float64() * total
	var acc float64
	// Map iteration order is randomized by Go at runtime; that's fine here
	// since the choice is itself a weighted random draw and every operator
	// is still reached with its configured probability over many draws.
	for op, p := range c.OperatorProbabilities {
		acc += p
		if r < acc {
			return op
		}
	}
	return OpModifyWeights
}

func randActivation(c Constraints, rng *rand.Rand) neuromath.Activation {
	if len(c.AllowedActivations) == 0 {
		return neuromath.Tanh
	}
	return c.AllowedActivations[rng.Intn(len(c.AllowedActivations))]
}

func randAggregator(c Constraints, rng *rand.Rand) neuromath.Aggregator {
	if len(c.AllowedAggregators) == 0 {
		return neuromath.DotProduct
	}
	return c.AllowedAggregators[rng.Intn(len(c.AllowedAggregators))]
}

func randPlasticity(c Constraints, rng *rand.Rand) neuromath.Rule {
	if len(c.AllowedPlasticity) == 0 {
		return neuromath.None
	}
	return c.AllowedPlasticity[rng.Intn(len(c.AllowedPlasticity))]
}

// RandomNeuronFunctions draws one allowed activation/aggregator/plasticity
// triple, uniformly at random from c's allowed sets. Exported so both
// AddNeuron and the population package's initial-genotype seeding draw a
// new neuron's functions the same way.
func RandomNeuronFunctions(c Constraints, rng *rand.Rand) (neuromath.Activation, neuromath.Aggregator, neuromath.Rule) {
	return randActivation(c, rng), randAggregator(c, rng), randPlasticity(c, rng)
}
