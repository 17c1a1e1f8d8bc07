package agent

import (
	"testing"
	"time"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/scape"
)

type fixedScape struct {
	result scape.ActuateResult
	err    error
	delay  time.Duration
}

func (s *fixedScape) Init(ids.Id, map[string]any) error { return nil }
func (s *fixedScape) Sense(_ ids.Id, _ string, _ map[string]any) ([]float64, error) {
	return nil, nil
}
func (s *fixedScape) Actuate(_ ids.Id, _ string, _ map[string]any, _ []float64) (scape.ActuateResult, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.result, s.err
}
func (s *fixedScape) Terminate(ids.Id, string) {}

func TestActuateWithTimeoutReturnsScapeResult(t *testing.T) {
	sc := &fixedScape{result: scape.ActuateResult{Fitness: []float64{1, 2}, Halt: scape.GoalReached}}
	got := actuateWithTimeout(sc, ids.New(ids.KindActuator), "out", []float64{0})
	if got.Halt != scape.GoalReached || len(got.Fitness) != 2 {
		t.Fatalf("actuateWithTimeout result = %+v, want the scape's own result", got)
	}
}

func TestActuateWithTimeoutFallsBackToHaltNoneOnError(t *testing.T) {
	sc := &fixedScape{err: errBoom}
	got := actuateWithTimeout(sc, ids.New(ids.KindActuator), "out", nil)
	if got.Halt != scape.HaltNone || got.Fitness != nil {
		t.Fatalf("actuateWithTimeout on error = %+v, want the zero ActuateResult", got)
	}
}

var errBoom = fmtError("boom")

type fmtError string

func (e fmtError) Error() string { return string(e) }
