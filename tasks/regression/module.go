// Package regression is the built-in synthetic graph regression task.
package regression

import (
	"math/rand"

	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
	"github.com/ChenchengLiang/tf2-gnn/internal/registry"
)

// Module registers the regression task and its dataset/model classes.
type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.RegisterDatasetClass("SyntheticRegressionDataset", registry.DatasetClass{
		New: func(params hyper.Params, rng *rand.Rand) gnn.Dataset {
			return NewDataset(params, rng)
		},
		Defaults: DefaultDatasetHyperparameters,
	})
	r.RegisterModelClass("GraphRegressionModel", registry.ModelClass{
		New: func(params hyper.Params, numEdgeTypes int, rng *rand.Rand) gnn.Model {
			return NewModel(params, numEdgeTypes, rng)
		},
		Defaults: DefaultModelHyperparameters,
	})
	r.RegisterTask("regression", registry.TaskDefinition{
		DatasetClassName: "SyntheticRegressionDataset",
		ModelClassName:   "GraphRegressionModel",
		DatasetOverrides: hyper.Params{},
		ModelOverrides:   hyper.Params{},
	})
}
