// Package agent implements the live agent runtime of spec.md §4.3: one
// goroutine per sensor/neuron/actuator/cortex, wired and supervised by an
// exoself, communicating exclusively by message passing over per-actor
// mailboxes with no shared mutable state (spec.md §5).
//
// Grounded on qubicDB-qubicdb/pkg/concurrency/brain_worker.go's
// goroutine-per-worker + buffered-operation-channel +
// context.Context-driven shutdown pattern, adapted from one worker per
// storage index to one goroutine per actor, and on pkg/concurrency/pool.go's
// spawn/evict/shutdown bookkeeping for the exoself's actor-tree lifecycle.
package agent

import (
	"github.com/hibernatus-hacker/bardo-sub002/genotype"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/neuromath"
	"github.com/hibernatus-hacker/bardo-sub002/scape"
)

// Kind distinguishes the purpose of a Message, so dispatch inside an
// actor's receive loop is a closed switch rather than a type assertion
// chain on some Payload `any`.
type Kind int

const (
	KindInitPhase2 Kind = iota
	KindSync
	KindForward
	KindFitness
	KindReset
	KindStop

	// Tuning protocol (spec.md §4.3).
	KindWeightBackup
	KindWeightRestore
	KindWeightPerturb
	KindResetPrep
	KindGetBackup
	KindBackupReply
)

// Message is the one envelope type every actor mailbox carries. Only the
// fields relevant to Kind are populated; this mirrors the
// qubicDB-qubicdb Operation envelope (Type + Payload + reply channels)
// generalized to a fixed set of named fields instead of an `any` payload,
// since every message shape here is known up front.
type Message struct {
	Kind Kind
	From ids.Id

	// KindInitPhase2
	Init InitPhase2

	// KindForward
	Vector []neuromath.Signal

	// KindSync (actuator -> cortex)
	Fitness []float64
	Halt    scape.HaltFlag

	// KindWeightPerturb
	Spread float64

	// KindWeightBackup: true selects Darwinian heredity (backup := baseline),
	// false selects Lamarckian (backup := current).
	Darwinian bool

	// KindBackupReply
	Backup []genotype.InputEdge

	// Reply is closed-over by the sender when it needs a synchronous
	// acknowledgement (get_backup, reset_prep's ready signal). nil for
	// fire-and-forget sends.
	Reply chan Message
}

// InitPhase2 carries the startup-protocol payload of spec.md §4.3 step 2:
// an actor's peer identities and operating mode, delivered once before any
// sense-think-act cycle begins.
type InitPhase2 struct {
	CortexId ids.Id
	Mode     OperatingMode

	// Neuron-specific.
	Inputs           []genotype.InputEdge
	Outputs          []ids.Id
	RecurrentOutputs []ids.Id
	Activation       neuromath.Activation
	Aggregator       neuromath.Aggregator
	Plasticity       neuromath.Rule
	PlasticityParams neuromath.Params

	// Sensor/actuator-specific.
	Name    string
	VL      int
	Peers   []ids.Id // sensor's Outputs, or actuator's Inputs
	ScapeId string

	// PeerMailboxes resolves every peer id this actor sends to (a neuron's
	// Outputs, a sensor's Outputs) to the channel to send on. Built once by
	// the exoself at spawn time, since mailboxes are in-process channels
	// with no identity beyond the running goroutine — there is nothing to
	// look up by id at runtime the way a distributed system would need a
	// directory service.
	PeerMailboxes map[ids.Id]Mailbox

	// CortexMailbox is every non-cortex actor's direct line to the cortex,
	// used by actuators to report (fitness, haltFlag) as a sync.
	CortexMailbox Mailbox
}

// OperatingMode is the activation mode an actor is initialized into
// (spec.md §4.3 step 2).
type OperatingMode int

const (
	ModeActive OperatingMode = iota
	ModeInactiveValidation
)

// Mailbox is a FIFO, per-actor inbox. Buffered generously so a fast
// upstream actor never blocks on a slower downstream one mid-cycle —
// ordering between any two actors is still preserved because Go channels
// are FIFO per sender-receiver pair.
type Mailbox chan Message

func newMailbox() Mailbox {
	return make(Mailbox, 64)
}

// Send delivers msg to the actor's mailbox, blocking until the mailbox has
// room. It does not check whether the actor has exited; the exoself sends
// its stop messages with a non-blocking select instead (see exoself.go).
func (m Mailbox) Send(msg Message) {
	m <- msg
}
