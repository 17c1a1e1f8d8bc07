// Package experiment implements the experiment controller of spec.md §4.6:
// multi-run orchestration over the population manager, persisted progress
// that survives a process restart, and report-file generation on
// completion.
//
// Grounded on HD220-crownet/cli/orchestrator.go's top-level Run method:
// print-plan, run-to-completion, wrap every stage error with
// fmt.Errorf("...: %w", err), report total duration — generalized here
// from "one simulation run" to "total_runs generations-to-termination
// runs, persisted and resumable."
package experiment

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/population"
	"github.com/hibernatus-hacker/bardo-sub002/scape"
	"github.com/hibernatus-hacker/bardo-sub002/storage"
)

// ProgressFlag tracks an experiment record's lifecycle (spec.md §4.6).
type ProgressFlag string

const (
	NotStarted ProgressFlag = "not_started"
	InProgress ProgressFlag = "in_progress"
	Completed  ProgressFlag = "completed"
)

// Record is the persisted experiment entity (spec.md §3/§6, kind
// "experiment"): enough state that a controller restarted from scratch
// can resume exactly where it left off.
type Record struct {
	Id   ids.Id `msgpack:"id"`
	Name string `msgpack:"name"`

	MorphologyName string `msgpack:"morphology_name"`
	ScapeName      string `msgpack:"scape_name"`

	TotalRuns int `msgpack:"total_runs"`
	RunIndex  int `msgpack:"run_index"`

	ProgressFlag ProgressFlag `msgpack:"progress_flag"`

	// InterruptionTimestamps records one Unix timestamp per resume, per
	// spec.md §4.6's "append a new interruption timestamp."
	InterruptionTimestamps []int64 `msgpack:"interruption_timestamps"`

	// TerminationReasons[r] is the reason run r stopped (goal_reached,
	// max_generations, fitness_stagnation), recorded for the final report.
	TerminationReasons []string `msgpack:"termination_reasons"`

	// Traces[r] is run r's full generation-by-generation trace history.
	// Persisting it alongside the rest of the record (rather than as
	// separate kind=trace entries) keeps resume and report-rendering
	// working from one store read, at the cost of one larger record.
	Traces [][]population.Trace `msgpack:"traces"`
}

// Controller drives one experiment's runs. Each run reseeds a fresh
// Population and calls RunGeneration until population.Manager reports
// termination; runs are numbered from Record.RunIndex so a resumed
// controller continues rather than restarting run 0.
type Controller struct {
	Store     storage.Store
	Manager   *population.Manager
	Morph     scape.Morphology
	ScapeName string
	Logger    *log.Logger
}

// NewController wires a Controller's dependencies, defaulting Logger to
// log.Default() the way population.NewManager defaults its own Logger.
func NewController(store storage.Store, manager *population.Manager, morph scape.Morphology, scapeName string, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{Store: store, Manager: manager, Morph: morph, ScapeName: scapeName, Logger: logger}
}

// Run executes spec.md §4.6: load-or-create the experiment record, refuse
// if already completed, resume from RunIndex if interrupted mid-flight,
// run every remaining run to termination, then mark the record completed.
func (c *Controller) Run(ctx context.Context, experimentId ids.Id, name string, totalRuns int) (*Record, error) {
	rec, found, err := c.load(experimentId)
	if err != nil {
		return nil, fmt.Errorf("experiment: load record %s: %w", experimentId, err)
	}

	if found && rec.ProgressFlag == Completed {
		return nil, fmt.Errorf("experiment: %q is already completed, refusing to re-run", rec.Name)
	}

	if !found {
		rec = &Record{Id: experimentId, Name: name, MorphologyName: c.Morph.Name(), ScapeName: c.ScapeName, TotalRuns: totalRuns}
	}

	if rec.ProgressFlag == InProgress {
		rec.InterruptionTimestamps = append(rec.InterruptionTimestamps, time.Now().Unix())
		c.Logger.Printf("experiment: resuming %q from run %d/%d", rec.Name, rec.RunIndex, rec.TotalRuns)
	}
	rec.ProgressFlag = InProgress
	if err := c.save(rec); err != nil {
		return nil, err
	}

	startTime := time.Now()

	for rec.RunIndex < rec.TotalRuns {
		runTraces, reason, err := c.runOne(ctx)
		if err != nil {
			return rec, fmt.Errorf("experiment: run %d failed: %w", rec.RunIndex, err)
		}

		rec.Traces = append(rec.Traces, runTraces)
		rec.TerminationReasons = append(rec.TerminationReasons, reason)
		rec.RunIndex++
		if err := c.save(rec); err != nil {
			return rec, err
		}
	}

	rec.ProgressFlag = Completed
	if err := c.save(rec); err != nil {
		return rec, err
	}

	c.Logger.Printf("experiment %q completed %d runs in %s", rec.Name, rec.TotalRuns, time.Since(startTime))
	return rec, nil
}

// runOne seeds a fresh Population and drives population.Manager.RunGeneration
// to termination, returning every generation's Trace and the termination
// reason.
func (c *Controller) runOne(ctx context.Context) ([]population.Trace, string, error) {
	pop := c.Manager.Seed(c.Morph, c.ScapeName)

	var all []population.Trace
	for {
		next, traces, done, reason, err := c.Manager.RunGeneration(ctx, pop)
		if err != nil {
			return all, "", fmt.Errorf("generation %d: %w", pop.Generation, err)
		}
		all = append(all, traces...)
		pop = next
		if done {
			return all, reason, nil
		}
		if err := ctx.Err(); err != nil {
			return all, "", fmt.Errorf("generation %d: %w", pop.Generation, err)
		}
	}
}

func (c *Controller) load(id ids.Id) (*Record, bool, error) {
	var rec Record
	found, err := c.Store.Read(ids.KindExperiment, id, &rec)
	if err != nil || !found {
		return nil, found, err
	}
	return &rec, true, nil
}

func (c *Controller) save(rec *Record) error {
	if err := c.Store.Store(ids.KindExperiment, rec.Id, rec); err != nil {
		return fmt.Errorf("experiment: persist record %s: %w", rec.Id, err)
	}
	return nil
}
