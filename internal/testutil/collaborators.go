// Package testutil provides scripted stand-ins for the dataset and model
// collaborators, so resolver and trainer behavior can be tested without any
// real graph data or numerics.
package testutil

import (
	"context"
	"fmt"
	"os"

	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
)

// FakeDataset records the calls made to it and serves canned batches.
type FakeDataset struct {
	ParamsValue hyper.Params
	EdgeTypes   int
	Desc        gnn.BatchDescription
	Batches_    map[gnn.DataFold][]gnn.Batch
	LoadErr     error

	LoadedPath  string
	LoadedFolds []gnn.DataFold
}

func (d *FakeDataset) Params() hyper.Params { return d.ParamsValue }

func (d *FakeDataset) LoadData(ctx context.Context, path string, folds []gnn.DataFold) error {
	if d.LoadErr != nil {
		return d.LoadErr
	}
	d.LoadedPath = path
	d.LoadedFolds = append(d.LoadedFolds, folds...)
	return nil
}

func (d *FakeDataset) Batches(fold gnn.DataFold) []gnn.Batch {
	return d.Batches_[fold]
}

func (d *FakeDataset) BatchDescription() gnn.BatchDescription { return d.Desc }

func (d *FakeDataset) NumEdgeTypes() int { return d.EdgeTypes }

// scriptedResult is the opaque epoch result a FakeModel hands back.
type scriptedResult struct {
	metric float64
}

// FakeModel plays back a scripted sequence of validation metrics, one per
// validation pass, in the order the trainer requests them. The first entry is
// consumed by the trainer's baseline pass.
type FakeModel struct {
	ParamsValue  hyper.Params
	ValidMetrics []float64
	TrainMetric  float64
	SaveErr      error

	BuildCalls  []gnn.BatchDescription
	SaveStems   []string
	LoadStems   []string
	TrainPasses int
	ValidPasses int
}

func (m *FakeModel) Params() hyper.Params { return m.ParamsValue }

func (m *FakeModel) Build(desc gnn.BatchDescription) error {
	m.BuildCalls = append(m.BuildCalls, desc)
	return nil
}

func (m *FakeModel) RunOneEpoch(ctx context.Context, batches []gnn.Batch, training, quiet bool) (float64, float64, gnn.EpochResults, error) {
	if training {
		m.TrainPasses++
		return m.TrainMetric, 100.0, scriptedResult{metric: m.TrainMetric}, nil
	}
	if m.ValidPasses >= len(m.ValidMetrics) {
		return 0, 0, nil, fmt.Errorf("fake model ran out of scripted validation metrics after %d passes", m.ValidPasses)
	}
	metric := m.ValidMetrics[m.ValidPasses]
	m.ValidPasses++
	return metric, 100.0, scriptedResult{metric: metric}, nil
}

func (m *FakeModel) ComputeEpochMetrics(raw gnn.EpochResults) (float64, string) {
	res := raw.(scriptedResult)
	return res.metric, fmt.Sprintf("metric %.5f", res.metric)
}

func (m *FakeModel) SaveWeights(stem string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.SaveStems = append(m.SaveStems, stem)
	// Leave a real file behind so tests can assert on the artifact.
	return os.WriteFile(stem+".weights.json", []byte(`{"fake_weights":true}`), 0o644)
}

func (m *FakeModel) LoadWeights(stem string) error {
	m.LoadStems = append(m.LoadStems, stem)
	return nil
}
