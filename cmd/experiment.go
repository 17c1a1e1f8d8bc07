package cmd

import (
	"context"
	"fmt"

	"github.com/hibernatus-hacker/bardo-sub002/config"
	"github.com/hibernatus-hacker/bardo-sub002/experiment"
	"github.com/hibernatus-hacker/bardo-sub002/ids"
	"github.com/hibernatus-hacker/bardo-sub002/population"
	"github.com/hibernatus-hacker/bardo-sub002/storage"
)

// openStore opens a storage.Store for path, or an in-memory one if path is
// empty. The returned close func is always safe to defer.
func openStore(path string) (storage.Store, func() error, error) {
	if path == "" {
		return storage.NewMemStore(), func() error { return nil }, nil
	}
	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cmd: open store %s: %w", path, err)
	}
	return store, store.Close, nil
}

// driveExperiment wires cfg's settings into a population.Manager and
// experiment.Controller and runs it to completion, this package's
// equivalent of cli/orchestrator.go's NewOrchestrator(appCfg).Run(). When
// requireExisting is true (the resume command), it errors out rather than
// silently starting a fresh record if experimentId isn't already in store.
func driveExperiment(ctx context.Context, cfg *config.AppConfig, experimentId ids.Id, requireExisting bool) error {
	morph, err := resolveMorphology(cfg.Experiment.MorphologyName)
	if err != nil {
		return err
	}
	registry := builtinScapeRegistry()
	if _, ok := registry.Lookup(cfg.Experiment.ScapeName); !ok {
		return fmt.Errorf("cmd: unknown scape %q (known: xor)", cfg.Experiment.ScapeName)
	}

	store, closeStore, err := openStore(cfg.Experiment.StorePath)
	if err != nil {
		return err
	}
	defer closeStore()

	if requireExisting {
		var rec experiment.Record
		found, err := store.Read(ids.KindExperiment, experimentId, &rec)
		if err != nil {
			return fmt.Errorf("cmd: read experiment %s: %w", experimentId, err)
		}
		if !found {
			return fmt.Errorf("cmd: no experiment record for id %s found in store; use \"run\" to start one", experimentId)
		}
	}

	logger := loggerFor(cfg.Experiment.Name)
	popCfg, err := cfg.Constraints.ToPopulationConfig(logger)
	if err != nil {
		return err
	}

	manager := population.NewManager(popCfg, registry, cfg.Experiment.Seed)
	controller := experiment.NewController(store, manager, morph, cfg.Experiment.ScapeName, logger)

	rec, err := controller.Run(ctx, experimentId, cfg.Experiment.Name, cfg.Experiment.TotalRuns)
	if err != nil {
		return err
	}
	logger.Printf("experiment %s (%s) finished %d/%d runs", rec.Id, rec.Name, rec.RunIndex, rec.TotalRuns)

	if cfg.Experiment.ReportPath == "" {
		return nil
	}
	if err := experiment.WriteReportFile(rec, cfg.Experiment.ReportPath); err != nil {
		return fmt.Errorf("cmd: write report: %w", err)
	}
	logger.Printf("report written to %s", cfg.Experiment.ReportPath)
	return nil
}
