package app

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/ChenchengLiang/tf2-gnn/internal/ctxlog"
	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/resolver"
	"github.com/ChenchengLiang/tf2-gnn/internal/runlog"
	"github.com/ChenchengLiang/tf2-gnn/internal/tracking"
	"github.com/ChenchengLiang/tf2-gnn/internal/trainer"
)

// EvalConfig holds the configuration for evaluating a stored checkpoint on
// the test fold.
type EvalConfig struct {
	TrainedModelStem string
	DataPath         string
	Quiet            bool
	TrackingURL      string

	LogFormat string
	LogLevel  string
}

// NewEvalConfig validates an EvalConfig and returns it.
func NewEvalConfig(cfg EvalConfig) (*EvalConfig, error) {
	if cfg.TrainedModelStem == "" {
		return nil, errors.New("trained model is a required configuration field and cannot be empty")
	}
	if cfg.DataPath == "" {
		return nil, errors.New("data path is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}

// Evaluate restores a stored checkpoint and runs one read-only pass over the
// test fold, returning the test metric. The checkpoint header supplies class
// identities and hyperparameters verbatim.
func (a *App) Evaluate(ctx context.Context, cfg *EvalConfig) (float64, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Evaluate method started.", "stem", cfg.TrainedModelStem)

	// Evaluation does not draw from the generator, but constructors require
	// one. Seed zero keeps repeated evaluations identical.
	rng := rand.New(rand.NewSource(0))

	resolved, err := resolver.ModelAndDataset(ctx, a.registry, resolver.Options{
		DataPath:         cfg.DataPath,
		TrainedModelStem: cfg.TrainedModelStem,
		FoldsToLoad:      []gnn.DataFold{gnn.TestFold},
		RNG:              rng,
	})
	if err != nil {
		return 0, err
	}
	if err := resolved.Model.Build(resolved.Dataset.BatchDescription()); err != nil {
		return 0, err
	}

	var reporter tracking.Reporter = tracking.Nop{}
	if cfg.TrackingURL != "" {
		runID := strings.TrimSuffix(filepath.Base(cfg.TrainedModelStem), "_best")
		restReporter := tracking.NewRestReporter(cfg.TrackingURL, runID)
		defer restReporter.Close()
		reporter = restReporter
	}

	sink := runlog.WriterSink{W: a.outW}
	opts := trainer.Options{
		Quiet:        cfg.Quiet,
		DatasetClass: resolved.DatasetClass,
		ModelClass:   resolved.ModelClass,
	}
	metric, err := trainer.Test(ctx, resolved.Model, resolved.Dataset, sink, reporter, opts, cfg.TrainedModelStem)
	if err != nil {
		return 0, err
	}

	a.logger.Debug("App.Evaluate method finished.", "test_metric", metric)
	return metric, nil
}
