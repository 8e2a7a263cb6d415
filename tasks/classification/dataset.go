package classification

import (
	"context"
	"math/rand"

	"github.com/ChenchengLiang/tf2-gnn/internal/ctxlog"
	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
	"github.com/ChenchengLiang/tf2-gnn/tasks/messagepassing"
	"github.com/ChenchengLiang/tf2-gnn/tasks/synthgraph"
	"gonum.org/v1/gonum/mat"
)

// DefaultDatasetHyperparameters are the class-intrinsic defaults of the
// synthetic binary classification dataset.
func DefaultDatasetHyperparameters() hyper.Params {
	return hyper.Params{
		"num_graphs_per_fold": 256,
		"batch_size":          32,
		"node_feature_dim":    16,
		"min_nodes":           6,
		"max_nodes":           20,
		"num_edge_types":      2,
		"edge_prob":           0.2,
	}
}

// Dataset synthesizes binary graph classification data: the label is the
// sign of a hidden linear function of the graph's mean-aggregated readout.
type Dataset struct {
	params hyper.Params
	rng    *rand.Rand
	truthW *mat.VecDense

	folds      map[gnn.DataFold][]gnn.Batch
	loadedPath string
}

func NewDataset(params hyper.Params, rng *rand.Rand) *Dataset {
	dim := params.Int("node_feature_dim", 16)
	truthW := mat.NewVecDense(dim, nil)
	for i := 0; i < dim; i++ {
		truthW.SetVec(i, rng.NormFloat64())
	}
	return &Dataset{
		params: params,
		rng:    rng,
		truthW: truthW,
		folds:  make(map[gnn.DataFold][]gnn.Batch),
	}
}

func (d *Dataset) Params() hyper.Params { return d.params }

func (d *Dataset) LoadData(ctx context.Context, path string, folds []gnn.DataFold) error {
	d.loadedPath = path
	spec := synthgraph.Spec{
		NumGraphs:    d.params.Int("num_graphs_per_fold", 256),
		MinNodes:     d.params.Int("min_nodes", 6),
		MaxNodes:     d.params.Int("max_nodes", 20),
		FeatureDim:   d.params.Int("node_feature_dim", 16),
		NumEdgeTypes: d.NumEdgeTypes(),
		EdgeProb:     d.params.Float("edge_prob", 0.2),
		TargetFn: func(g synthgraph.Graph) float64 {
			readout, err := messagepassing.Readout(g, "mean")
			if err != nil {
				panic(err)
			}
			if mat.Dot(readout, d.truthW) > 0 {
				return 1
			}
			return 0
		},
	}

	batchSize := d.params.Int("batch_size", 32)
	for _, fold := range folds {
		graphs := synthgraph.Generate(d.rng, spec)
		d.folds[fold] = toBatches(synthgraph.Batchify(graphs, batchSize))
		ctxlog.FromContext(ctx).Debug("Synthesized fold.",
			"task", "classification", "fold", fold.String(), "graphs", len(graphs))
	}
	return nil
}

func (d *Dataset) Batches(fold gnn.DataFold) []gnn.Batch {
	return d.folds[fold]
}

func (d *Dataset) BatchDescription() gnn.BatchDescription {
	return gnn.BatchDescription{
		NodeFeatureDim: d.params.Int("node_feature_dim", 16),
		NumEdgeTypes:   d.NumEdgeTypes(),
		TargetDim:      1,
	}
}

func (d *Dataset) NumEdgeTypes() int {
	return d.params.Int("num_edge_types", 2)
}

func toBatches(batches []synthgraph.Batch) []gnn.Batch {
	out := make([]gnn.Batch, len(batches))
	for i, b := range batches {
		out[i] = b
	}
	return out
}
