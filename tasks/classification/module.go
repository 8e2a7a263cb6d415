// Package classification is the built-in synthetic binary graph
// classification task.
package classification

import (
	"math/rand"

	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
	"github.com/ChenchengLiang/tf2-gnn/internal/registry"
)

// Module registers the classification task and its dataset/model classes.
type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.RegisterDatasetClass("SyntheticClassificationDataset", registry.DatasetClass{
		New: func(params hyper.Params, rng *rand.Rand) gnn.Dataset {
			return NewDataset(params, rng)
		},
		Defaults: DefaultDatasetHyperparameters,
	})
	r.RegisterModelClass("GraphClassificationModel", registry.ModelClass{
		New: func(params hyper.Params, numEdgeTypes int, rng *rand.Rand) gnn.Model {
			return NewModel(params, numEdgeTypes, rng)
		},
		Defaults: DefaultModelHyperparameters,
	})
	r.RegisterTask("classification", registry.TaskDefinition{
		DatasetClassName: "SyntheticClassificationDataset",
		ModelClassName:   "GraphClassificationModel",
		DatasetOverrides: hyper.Params{},
		ModelOverrides:   hyper.Params{"learning_rate": 0.1},
	})
}
