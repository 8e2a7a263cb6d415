package trainer_test

import (
	"context"
	"testing"

	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
	"github.com/ChenchengLiang/tf2-gnn/internal/testutil"
	"github.com/ChenchengLiang/tf2-gnn/internal/tracking"
	"github.com/ChenchengLiang/tf2-gnn/internal/trainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollaborators(validMetrics []float64) (*testutil.FakeModel, *testutil.FakeDataset) {
	model := &testutil.FakeModel{
		ParamsValue:  hyper.Params{"hidden_dim": 64},
		TrainMetric:  0.5,
		ValidMetrics: validMetrics,
	}
	dataset := &testutil.FakeDataset{
		ParamsValue: hyper.Params{"max_nodes_per_batch": 8000},
		EdgeTypes:   3,
	}
	return model, dataset
}

func options(t *testing.T, maxEpochs, patience int) trainer.Options {
	t.Helper()
	return trainer.Options{
		RunID:        "ggnn_ppi__2024-01-01_00-00-00",
		MaxEpochs:    maxEpochs,
		Patience:     patience,
		SaveDir:      t.TempDir(),
		DatasetClass: "FakeDataset",
		ModelClass:   "FakeModel",
	}
}

// With patience 3 and validation metrics [1.0 baseline, 0.9, 0.95, 0.95,
// 0.95], training stops after epoch 4: epoch 1 improved, epochs 2-4 did not.
func TestEarlyStoppingAfterPatienceExhausted(t *testing.T) {
	model, dataset := newCollaborators([]float64{1.0, 0.9, 0.95, 0.95, 0.95})
	sink := &testutil.MemorySink{}

	stem, err := trainer.Train(context.Background(), model, dataset, sink, tracking.Nop{}, options(t, 100, 3))
	require.NoError(t, err)

	assert.Equal(t, 5, model.ValidPasses, "baseline plus four epochs")
	assert.Equal(t, 4, model.TrainPasses)
	// Checkpoints: baseline plus the epoch-1 improvement.
	assert.Equal(t, []string{stem, stem}, model.SaveStems)
	assert.True(t, sink.Contains("Stopping training after 3 epochs"))
	assert.True(t, sink.Contains("Best validation metric: 0.90000"))
}

// A validation metric equal to the current best is not an improvement: no
// checkpoint write, no best-epoch update.
func TestTieDoesNotCheckpoint(t *testing.T) {
	model, dataset := newCollaborators([]float64{1.0, 1.0, 1.0})
	sink := &testutil.MemorySink{}

	_, err := trainer.Train(context.Background(), model, dataset, sink, tracking.Nop{}, options(t, 100, 2))
	require.NoError(t, err)

	assert.Len(t, model.SaveStems, 1, "only the baseline checkpoint")
	assert.Equal(t, 3, model.ValidPasses, "ties count against patience, stop after epoch 2")
}

func TestStopsAtMaxEpochs(t *testing.T) {
	model, dataset := newCollaborators([]float64{1.0, 0.9, 0.8})
	sink := &testutil.MemorySink{}

	_, err := trainer.Train(context.Background(), model, dataset, sink, tracking.Nop{}, options(t, 2, 25))
	require.NoError(t, err)

	assert.Equal(t, 2, model.TrainPasses)
	assert.Len(t, model.SaveStems, 3, "baseline plus two improving epochs")
	assert.False(t, sink.Contains("Stopping training"), "epoch budget, not patience, ended the run")
}

// End-to-end scenario from the contract: max epochs 2, patience 1, metrics
// [2.0 baseline, 2.5]. The loop stops after epoch 1 and the returned stem is
// the baseline's checkpoint.
func TestPatienceOneStopsAfterFirstStaleEpoch(t *testing.T) {
	model, dataset := newCollaborators([]float64{2.0, 2.5})
	sink := &testutil.MemorySink{}

	stem, err := trainer.Train(context.Background(), model, dataset, sink, tracking.Nop{}, options(t, 2, 1))
	require.NoError(t, err)

	assert.Equal(t, []string{stem}, model.SaveStems, "baseline checkpoint only")
	assert.Equal(t, 2, model.ValidPasses)
	assert.Equal(t, 1, model.TrainPasses)
	assert.True(t, sink.Contains("Stopping training after 1 epochs"))
}

func TestBaselineCheckpointAlwaysWritten(t *testing.T) {
	model, dataset := newCollaborators([]float64{1.0})
	sink := &testutil.MemorySink{}
	opts := options(t, 1, 1)

	stem, err := trainer.Train(context.Background(), model, dataset, sink, tracking.Nop{}, opts)
	require.NoError(t, err)
	assert.Equal(t, opts.Stem(), stem)
	assert.True(t, sink.Contains("Initial valid metric"))
	require.NotEmpty(t, model.SaveStems)
}

func TestMetricsReported(t *testing.T) {
	model, dataset := newCollaborators([]float64{1.0, 0.9, 0.95})
	reporter := &testutil.CaptureReporter{}

	_, err := trainer.Train(context.Background(), model, dataset, &testutil.MemorySink{}, reporter, options(t, 100, 1))
	require.NoError(t, err)

	assert.Equal(t, []float64{0.9, 0.95}, reporter.Values("task_valid_metric"))
	assert.Equal(t, []float64{0.5, 0.5}, reporter.Values("task_train_metric"))
	assert.NotEmpty(t, reporter.Values("train_speed"))
}

func TestOptionValidation(t *testing.T) {
	model, dataset := newCollaborators([]float64{1.0})

	_, err := trainer.Train(context.Background(), model, dataset, &testutil.MemorySink{}, tracking.Nop{},
		trainer.Options{RunID: "r", MaxEpochs: 0, Patience: 1, SaveDir: t.TempDir()})
	require.Error(t, err)

	_, err = trainer.Train(context.Background(), model, dataset, &testutil.MemorySink{}, tracking.Nop{},
		trainer.Options{RunID: "r", MaxEpochs: 1, Patience: 0, SaveDir: t.TempDir()})
	require.Error(t, err)
}

func TestTestRestoresBestWeights(t *testing.T) {
	model, dataset := newCollaborators([]float64{1.0, 0.7})
	sink := &testutil.MemorySink{}
	reporter := &testutil.CaptureReporter{}
	opts := options(t, 1, 25)

	// Script one extra validation metric for the read-only test pass.
	model.ValidMetrics = append(model.ValidMetrics, 0.75)

	stem, err := trainer.Train(context.Background(), model, dataset, sink, reporter, opts)
	require.NoError(t, err)

	metric, err := trainer.Test(context.Background(), model, dataset, sink, reporter, opts, stem)
	require.NoError(t, err)

	assert.Equal(t, []string{stem}, model.LoadStems)
	assert.Equal(t, 0.75, metric)
	assert.Equal(t, []float64{0.75}, reporter.Values("task_test_metric"))
	assert.True(t, sink.Contains("== Running on test dataset"))
}
