// Package ids defines the identity scheme shared by every entity in the
// system: genotypes, their neurons/sensors/actuators/cortices, populations,
// species, experiments and traces. An Id is a (Kind, UniqueToken) pair, so
// that a bare token is never ambiguous about what kind of thing it names —
// the same discipline common/types.go applies with its named float64/int
// wrappers (NeuronID, PulseValue, SynapticWeight, ...), generalized here to
// a single identity type shared across the whole graph instead of one
// bespoke integer type per entity.
package ids

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind distinguishes the entity an Id refers to. The set is closed and
// matches the `kind` enumeration of the persistence store contract.
type Kind string

const (
	KindExperiment Kind = "experiment"
	KindPopulation Kind = "population"
	KindSpecie     Kind = "specie"
	KindAgent      Kind = "agent"
	KindCortex     Kind = "cortex"
	KindNeuron     Kind = "neuron"
	KindSensor     Kind = "sensor"
	KindActuator   Kind = "actuator"
	KindSubstrateCPP Kind = "substrate_cpp"
	KindSubstrateCEP Kind = "substrate_cep"
	KindMorphology Kind = "morphology"
	KindTrace      Kind = "trace"
	KindStat       Kind = "stat"
	KindChampion   Kind = "champion"
)

// Id is a stable, globally unique identity for an entity of a given Kind.
// Zero value is the invalid Id (empty Kind, empty Token) — callers must
// construct Ids via New or Parse, never by struct literal with a bare token.
type Id struct {
	Kind  Kind
	Token string
}

// New mints a fresh Id of the given Kind with a random v4 UUID token.
func New(kind Kind) Id {
	return Id{Kind: kind, Token: uuid.NewString()}
}

// Derive mints a fresh Id of the given Kind, deterministic given seed bytes.
// Used when reproduction needs offspring ids that are stable across a replay
// of the same mutation sequence (e.g. in tests asserting determinism).
func Derive(kind Kind, seed string) Id {
	return Id{Kind: kind, Token: uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()}
}

// Valid reports whether the Id was properly constructed.
func (id Id) Valid() bool {
	return id.Kind != "" && id.Token != ""
}

func (id Id) String() string {
	return fmt.Sprintf("%s:%s", id.Kind, id.Token)
}

// Parse reverses String. It is used by storage implementations that key a
// flat namespace (e.g. SQLite primary keys) by the combined form.
func Parse(s string) (Id, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return Id{Kind: Kind(s[:i]), Token: s[i+1:]}, nil
		}
	}
	return Id{}, fmt.Errorf("ids: malformed id %q: missing kind separator", s)
}
