// Package trainer drives the epoch loop: alternate training and validation
// passes, persist a checkpoint whenever the validation metric improves, and
// stop once the patience budget or the epoch budget is exhausted.
package trainer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ChenchengLiang/tf2-gnn/internal/checkpoint"
	"github.com/ChenchengLiang/tf2-gnn/internal/ctxlog"
	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/runlog"
	"github.com/ChenchengLiang/tf2-gnn/internal/tracking"
)

// Options configures one training run.
type Options struct {
	RunID     string
	MaxEpochs int
	Patience  int
	SaveDir   string
	Quiet     bool

	// Class identifiers persisted in every checkpoint header.
	DatasetClass string
	ModelClass   string
}

func (o Options) validate() error {
	if o.MaxEpochs < 1 {
		return fmt.Errorf("max epochs must be positive, got %d", o.MaxEpochs)
	}
	if o.Patience < 1 {
		return fmt.Errorf("patience must be at least 1, got %d", o.Patience)
	}
	return nil
}

// Stem returns the checkpoint file stem for this run.
func (o Options) Stem() string {
	return filepath.Join(o.SaveDir, o.RunID+"_best")
}

// Train runs the early-stopping loop and returns the stem of the best
// checkpoint. A baseline validation pass runs before any training and is
// always persisted, so the returned stem is valid even if no epoch improves.
// Improvement is strictly less-than: a tie neither writes a checkpoint nor
// resets the patience counter.
func Train(
	ctx context.Context,
	model gnn.Model,
	dataset gnn.Dataset,
	sink runlog.Sink,
	reporter tracking.Reporter,
	opts Options,
) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	logger := ctxlog.FromContext(ctx)

	trainBatches := dataset.Batches(gnn.TrainFold)
	validBatches := dataset.Batches(gnn.ValidationFold)
	stem := opts.Stem()

	_, _, initialResults, err := model.RunOneEpoch(ctx, validBatches, false, opts.Quiet)
	if err != nil {
		return "", fmt.Errorf("initial validation pass failed: %w", err)
	}
	bestValidMetric, bestValidStr := model.ComputeEpochMetrics(initialResults)
	sink.Logf("Initial valid metric: %s.", bestValidStr)
	if err := saveCheckpoint(stem, sink, model, dataset, opts); err != nil {
		return "", err
	}
	bestValidEpoch := 0
	trainStart := time.Now()

	for epoch := 1; epoch <= opts.MaxEpochs; epoch++ {
		sink.Logf("== Epoch %d", epoch)

		trainLoss, trainSpeed, trainResults, err := model.RunOneEpoch(ctx, trainBatches, true, opts.Quiet)
		if err != nil {
			return "", fmt.Errorf("training pass of epoch %d failed: %w", epoch, err)
		}
		trainMetric, trainMetricStr := model.ComputeEpochMetrics(trainResults)
		sink.Logf(" Train:  %.4f loss | %s | %.2f graphs/s", trainLoss, trainMetricStr, trainSpeed)

		validLoss, validSpeed, validResults, err := model.RunOneEpoch(ctx, validBatches, false, opts.Quiet)
		if err != nil {
			return "", fmt.Errorf("validation pass of epoch %d failed: %w", epoch, err)
		}
		validMetric, validMetricStr := model.ComputeEpochMetrics(validResults)
		sink.Logf(" Valid:  %.4f loss | %s | %.2f graphs/s", validLoss, validMetricStr, validSpeed)

		reporter.ReportMetric(ctx, "task_train_metric", trainMetric)
		reporter.ReportMetric(ctx, "train_speed", trainSpeed)
		reporter.ReportMetric(ctx, "task_valid_metric", validMetric)
		reporter.ReportMetric(ctx, "valid_speed", validSpeed)

		if validMetric < bestValidMetric {
			sink.Logf("  (Best epoch so far, target metric decreased to %.5f from %.5f.)", validMetric, bestValidMetric)
			if err := saveCheckpoint(stem, sink, model, dataset, opts); err != nil {
				return "", err
			}
			bestValidMetric = validMetric
			bestValidEpoch = epoch
		} else if epoch-bestValidEpoch >= opts.Patience {
			totalTime := time.Since(trainStart)
			sink.Logf("Stopping training after %d epochs without improvement on validation metric.", opts.Patience)
			sink.Logf("Training took %.2fs. Best validation metric: %.5f", totalTime.Seconds(), bestValidMetric)
			break
		}
	}

	logger.Debug("Training loop finished.", "best_epoch", bestValidEpoch, "best_valid_metric", bestValidMetric)
	return stem, nil
}

func saveCheckpoint(stem string, sink runlog.Sink, model gnn.Model, dataset gnn.Dataset, opts Options) error {
	if err := checkpoint.Save(stem, opts.ModelClass, opts.DatasetClass, model, dataset); err != nil {
		return err
	}
	sink.Logf("   (Stored model to %s)", checkpoint.HeaderPath(stem))
	return nil
}

// Test restores the best weights and runs one read-only pass over the test
// fold. It is a continuation of a finished run: no checkpoint is written.
func Test(
	ctx context.Context,
	model gnn.Model,
	dataset gnn.Dataset,
	sink runlog.Sink,
	reporter tracking.Reporter,
	opts Options,
	bestStem string,
) (float64, error) {
	sink.Logf("== Running on test dataset")
	sink.Logf("Restoring best model state from %s.", checkpoint.HeaderPath(bestStem))
	if err := model.LoadWeights(bestStem); err != nil {
		return 0, fmt.Errorf("failed to restore weights from %s: %w", bestStem, err)
	}

	_, _, testResults, err := model.RunOneEpoch(ctx, dataset.Batches(gnn.TestFold), false, opts.Quiet)
	if err != nil {
		return 0, fmt.Errorf("test pass failed: %w", err)
	}
	testMetric, testMetricStr := model.ComputeEpochMetrics(testResults)
	sink.Logf("%s", testMetricStr)
	reporter.ReportMetric(ctx, "task_test_metric", testMetric)
	return testMetric, nil
}
