package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/ChenchengLiang/tf2-gnn/internal/ctxlog"
	"github.com/ChenchengLiang/tf2-gnn/internal/fsutil"
	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/resolver"
	"github.com/ChenchengLiang/tf2-gnn/internal/runlog"
	"github.com/ChenchengLiang/tf2-gnn/internal/tracking"
	"github.com/ChenchengLiang/tf2-gnn/internal/trainer"
)

// Run executes one full training invocation: resolve collaborators, train
// with early stopping, and optionally evaluate the best checkpoint on the
// test fold. It returns the best checkpoint stem.
func (a *App) Run(ctx context.Context, cfg *Config) (string, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if tunedFiles, err := fsutil.FindFilesByExtension(cfg.TunedDefaultsDir, ".json"); err == nil {
		a.logger.Debug("Tuned default hyperparameter files available.", "files", tunedFiles)
	}

	if err := fsutil.EnsureDir(cfg.SaveDir); err != nil {
		return "", err
	}
	runID := MakeRunID(cfg.Model, cfg.Task, cfg.RunName)
	log, err := runlog.New(filepath.Join(cfg.SaveDir, runID+".log"), a.outW)
	if err != nil {
		return "", err
	}
	defer log.Close()

	// One explicitly seeded generator, created before any stochastic
	// component, is the only source of randomness for the whole run.
	log.Logf("Setting random seed %d.", cfg.Seed)
	rng := rand.New(rand.NewSource(cfg.Seed))

	resolved, err := resolver.ModelAndDataset(ctx, a.registry, resolver.Options{
		TaskName:             cfg.Task,
		MessagePassing:       cfg.Model,
		DataPath:             cfg.DataPath,
		TrainedModelStem:     cfg.LoadSavedModel,
		DatasetOverridesJSON: cfg.DataParamOverride,
		ModelOverridesJSON:   cfg.ModelParamOverride,
		SearchOverrides:      cfg.SearchOverrides,
		TunedDefaultsDir:     cfg.TunedDefaultsDir,
		FoldsToLoad:          []gnn.DataFold{gnn.TrainFold, gnn.ValidationFold},
		RNG:                  rng,
	})
	if err != nil {
		return "", err
	}
	log.Logf("Dataset parameters: %s", mustJSON(resolved.Dataset.Params()))
	log.Logf("Model parameters: %s", mustJSON(resolved.Model.Params()))

	if err := resolved.Model.Build(resolved.Dataset.BatchDescription()); err != nil {
		return "", fmt.Errorf("failed to build model: %w", err)
	}
	if cfg.LoadSavedModel != "" {
		log.Logf("Restoring model weights from %s.", cfg.LoadSavedModel)
		if err := resolved.Model.LoadWeights(cfg.LoadSavedModel); err != nil {
			return "", fmt.Errorf("failed to load saved model weights: %w", err)
		}
	}

	var reporter tracking.Reporter = tracking.Nop{}
	if cfg.TrackingURL != "" {
		restReporter := tracking.NewRestReporter(cfg.TrackingURL, runID)
		defer restReporter.Close()
		reporter = restReporter
	}

	opts := trainer.Options{
		RunID:        runID,
		MaxEpochs:    cfg.MaxEpochs,
		Patience:     cfg.Patience,
		SaveDir:      cfg.SaveDir,
		Quiet:        cfg.Quiet,
		DatasetClass: resolved.DatasetClass,
		ModelClass:   resolved.ModelClass,
	}
	bestStem, err := trainer.Train(ctx, resolved.Model, resolved.Dataset, log, reporter, opts)
	if err != nil {
		return "", err
	}

	if cfg.RunTest {
		log.Logf("Loading test data from %s.", cfg.DataPath)
		if err := resolved.Dataset.LoadData(ctx, cfg.DataPath, []gnn.DataFold{gnn.TestFold}); err != nil {
			return "", fmt.Errorf("failed to load test fold: %w", err)
		}
		if _, err := trainer.Test(ctx, resolved.Model, resolved.Dataset, log, reporter, opts, bestStem); err != nil {
			return "", err
		}
	}

	a.logger.Debug("App.Run method finished.", "best_checkpoint", bestStem)
	return bestStem, nil
}

// mustJSON renders params for the run record. Params are JSON-decodable by
// construction, so a marshal failure is a programmer error.
func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("failed to marshal params for logging: %w", err))
	}
	return string(data)
}
