package testutil

import (
	"math/rand"

	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
	"github.com/ChenchengLiang/tf2-gnn/internal/registry"
)

// NewRegistry builds a registry with one fake task wired to fake
// collaborators, for resolver tests. The returned dataset and model pointers
// are the instances the factories will hand out, so tests can pre-script
// metrics and inspect recorded calls afterwards.
func NewRegistry(taskName string) (*registry.Registry, *FakeDataset, *FakeModel) {
	dataset := &FakeDataset{EdgeTypes: 3}
	model := &FakeModel{TrainMetric: 1.0, ValidMetrics: []float64{1.0}}

	reg := registry.New()
	reg.RegisterDatasetClass("FakeDataset", registry.DatasetClass{
		New: func(params hyper.Params, rng *rand.Rand) gnn.Dataset {
			dataset.ParamsValue = params
			return dataset
		},
		Defaults: func() hyper.Params {
			return hyper.Params{"max_nodes_per_batch": 10000, "add_self_loop_edges": true}
		},
	})
	reg.RegisterModelClass("FakeModel", registry.ModelClass{
		New: func(params hyper.Params, numEdgeTypes int, rng *rand.Rand) gnn.Model {
			model.ParamsValue = params
			return model
		},
		Defaults: func(messagePassing string) hyper.Params {
			return hyper.Params{"hidden_dim": 64, "learning_rate": 0.001, "use_residual": true}
		},
	})
	reg.RegisterTask(taskName, registry.TaskDefinition{
		DatasetClassName: "FakeDataset",
		ModelClassName:   "FakeModel",
		DatasetOverrides: hyper.Params{"max_nodes_per_batch": 8000},
		ModelOverrides:   hyper.Params{"learning_rate": 0.0005},
	})
	reg.RegisterMessagePassing("ggnn", registry.MessagePassing{Description: "fake"})
	return reg, dataset, model
}
