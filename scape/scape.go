// Package scape defines the environment contract of spec.md §4.4/§6: the
// callback interface every private or public scape implements, invoked by
// an agent's sensor/actuator actors (never directly by the population
// manager or experiment controller, which only ever hold a scape by name).
//
// Grounded on qubicDB-qubicdb/pkg/engine's callback-object-around-shared-
// state shape (MatrixEngine wraps a *core.Matrix and exposes named
// operations), generalized from a storage engine's read/write surface to an
// environment's sense/actuate surface.
package scape

import "github.com/hibernatus-hacker/bardo-sub002/ids"

// HaltFlag is the tri-state halt signal an actuate call may return. Only a
// Scape may ever produce GoalReached; it dominates over Halt when a cortex
// combines flags from multiple actuators (spec.md §4.3).
type HaltFlag int

const (
	HaltNone HaltFlag = iota
	Halt
	GoalReached
)

// Combine implements the cortex's OR-with-goal-reached-dominant rule for
// merging per-actuator halt flags within one cycle.
func (h HaltFlag) Combine(other HaltFlag) HaltFlag {
	if h == GoalReached || other == GoalReached {
		return GoalReached
	}
	if h == Halt || other == Halt {
		return Halt
	}
	return HaltNone
}

// ActuateResult is the outcome of one actuate call: the fitness delta
// earned this cycle and whether the episode should halt.
type ActuateResult struct {
	Fitness []float64
	Halt    HaltFlag
}

// Scape is the private-scape contract of spec.md §4.4: created on agent
// start, destroyed on agent end, invoked only by that agent's own
// sensors/actuators.
type Scape interface {
	// Init prepares per-episode state for agentId, e.g. resetting a
	// simulated environment to its initial conditions.
	Init(agentId ids.Id, params map[string]any) error

	// Sense produces one percept vector for the named sensor function.
	Sense(agentId ids.Id, sensorName string, params map[string]any) ([]float64, error)

	// Actuate applies an action vector via the named actuator function and
	// grades it.
	Actuate(agentId ids.Id, actuatorName string, params map[string]any, action []float64) (ActuateResult, error)

	// Terminate releases any per-agentId state; reason is a short
	// human-readable cause ("goal_reached", "stagnation", "stop").
	Terminate(agentId ids.Id, reason string)
}

// PublicScape additionally supports the shared, persistent lifecycle of
// spec.md §4.4: many agents may enter and leave over the scape's lifetime,
// and state changes may be broadcast to subscribed sensors.
type PublicScape interface {
	Scape

	Enter(agentId ids.Id, params map[string]any) error
	Leave(agentId ids.Id, params map[string]any) error

	// Subscribe registers a channel to receive broadcast percept updates;
	// returns an unsubscribe function.
	Subscribe(agentId ids.Id, sensorName string, updates chan<- []float64) (unsubscribe func())
}

// Registry resolves a scape by the name a Sensor/Actuator's Scape field
// carries, so an agent's exoself never needs compile-time knowledge of
// which scape implementation backs a given morphology.
type Registry interface {
	Lookup(name string) (Scape, bool)
}

// MapRegistry is the simplest Registry: a fixed name -> Scape table, built
// once at experiment configuration time.
type MapRegistry map[string]Scape

func (r MapRegistry) Lookup(name string) (Scape, bool) {
	s, ok := r[name]
	return s, ok
}
