package genotype

import (
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/neuromath"
)

// SubstrateCPP (coordinate preprocessor) maps a pair of substrate
// coordinates to an input vector for a SubstrateCEP, for hypercube-encoded
// (HyperNEAT-style) agents. Spec.md §3/§4.2 gives CPPs/CEPs "the same
// lifecycle as sensors/actuators" without detailing their runtime role
// further; SPEC_FULL.md §12 fixes a minimal concrete shape here: a CPP
// projects a (source, target) neuron id pair to a scalar via Aggregator,
// and a paired CEP turns that scalar into a connection weight via
// Activation.
type SubstrateCPP struct {
	Id         ids.Id               `msgpack:"id"`
	CortexId   ids.Id               `msgpack:"cortex_id"`
	Name       string               `msgpack:"name"`
	Generation int                  `msgpack:"generation"`
	Aggregator neuromath.Aggregator `msgpack:"aggregator"`
}

// SubstrateCEP (connectivity-expression producer) consumes a CPP's output
// vector and produces a connection weight between two substrate neurodes.
type SubstrateCEP struct {
	Id         ids.Id                `msgpack:"id"`
	CortexId   ids.Id                `msgpack:"cortex_id"`
	Name       string                `msgpack:"name"`
	Generation int                   `msgpack:"generation"`
	Activation neuromath.Activation  `msgpack:"activation"`
}

// HasSubstrate reports whether this genotype declares a substrate encoding
// layer. The agent runtime spawns no CPP/CEP actors; when this is true the
// exoself expresses extra neuron-to-neuron edges on a clone before spawning.
func (g *Genotype) HasSubstrate() bool {
	return len(g.Cortex.SubstrateCPPIds) > 0 || len(g.Cortex.SubstrateCEPIds) > 0
}
