package classification

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
	"github.com/ChenchengLiang/tf2-gnn/tasks/synthgraph"
)

func smallParams() hyper.Params {
	params := DefaultDatasetHyperparameters()
	params.Update(hyper.Params{
		"num_graphs_per_fold": 16,
		"batch_size":          4,
		"node_feature_dim":    4,
		"min_nodes":           3,
		"max_nodes":           5,
	})
	return params
}

func TestDataset_LabelsAreBinary(t *testing.T) {
	t.Parallel()

	dataset := NewDataset(smallParams(), rand.New(rand.NewSource(5)))
	require.NoError(t, dataset.LoadData(context.Background(), "synthetic", []gnn.DataFold{gnn.TrainFold}))

	seen := map[float64]bool{}
	for _, rawBatch := range dataset.Batches(gnn.TrainFold) {
		for _, g := range rawBatch.(synthgraph.Batch) {
			seen[g.Target] = true
			assert.Contains(t, []float64{0, 1}, g.Target)
		}
	}
	assert.NotEmpty(t, seen)
}

func TestModel_TrainingReducesLoss(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	dataset := NewDataset(smallParams(), rng)
	require.NoError(t, dataset.LoadData(context.Background(), "synthetic", []gnn.DataFold{gnn.TrainFold}))

	params := DefaultModelHyperparameters("mean")
	params[gnn.MessagePassingKey] = "mean"
	model := NewModel(params, dataset.NumEdgeTypes(), rng)
	require.NoError(t, model.Build(dataset.BatchDescription()))

	batches := dataset.Batches(gnn.TrainFold)
	firstLoss, _, _, err := model.RunOneEpoch(context.Background(), batches, true, true)
	require.NoError(t, err)
	var lastLoss float64
	for i := 0; i < 30; i++ {
		lastLoss, _, _, err = model.RunOneEpoch(context.Background(), batches, true, true)
		require.NoError(t, err)
	}

	// The labels are linearly separable in the readout, so the logistic model
	// must make progress on its own training fold.
	assert.Less(t, lastLoss, firstLoss)
}

func TestModel_ErrorRateMetric(t *testing.T) {
	t.Parallel()

	model := &Model{}
	results := &epochResults{
		probabilities: []float64{0.9, 0.2, 0.6, 0.4},
		labels:        []float64{1, 0, 0, 0},
	}

	metric, display := model.ComputeEpochMetrics(results)

	assert.InDelta(t, 0.25, metric, 1e-12)
	assert.Equal(t, "Accuracy: 0.7500 (error rate 0.25000)", display)
}
