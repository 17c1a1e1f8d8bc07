package cmd

import (
	"fmt"

	"github.com/hibernatus-hacker/bardo-sub002/scape"
	"github.com/hibernatus-hacker/bardo-sub002/scape/xor"
)

// builtinDefaultName is the morphology/scape name run/resume fall back to
// when neither a config file nor a CLI flag names one, so the bundled
// XOR benchmark (spec.md §8 S1) is runnable with zero configuration.
const builtinDefaultName = xor.Name

var builtinMorphologies = map[string]scape.Morphology{
	xor.Name: xor.Morphology{},
}

// builtinScapeRegistry builds a fresh scape.Registry for one command
// invocation. Scapes carry per-agent episode state (xor.Scape's step
// counters), so each run/resume gets its own rather than sharing a
// package-level instance across invocations.
func builtinScapeRegistry() scape.Registry {
	return scape.MapRegistry{
		xor.Name: xor.New(),
	}
}

func resolveMorphology(name string) (scape.Morphology, error) {
	m, ok := builtinMorphologies[name]
	if !ok {
		return nil, fmt.Errorf("cmd: unknown morphology %q (known: xor)", name)
	}
	return m, nil
}
