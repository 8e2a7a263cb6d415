// Package messagepassing registers the message-passing implementations the
// built-in tasks support and provides the shared readout computation their
// models are built on.
package messagepassing

import (
	"fmt"

	"github.com/ChenchengLiang/tf2-gnn/internal/registry"
	"github.com/ChenchengLiang/tf2-gnn/tasks/synthgraph"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Module registers the supported message-passing implementation names.
type Module struct{}

func (m *Module) Register(r *registry.Registry) {
	r.RegisterMessagePassing("mean", registry.MessagePassing{Description: "mean neighbor aggregation"})
	r.RegisterMessagePassing("sum", registry.MessagePassing{Description: "sum neighbor aggregation"})
	r.RegisterMessagePassing("max", registry.MessagePassing{Description: "elementwise-max neighbor aggregation"})
}

// Readout runs one round of neighbor aggregation over the graph and mean-pools
// the aggregated node states into a single feature vector. The variant selects
// how incoming neighbor features are combined with a node's own features.
func Readout(g synthgraph.Graph, variant string) (*mat.VecDense, error) {
	numNodes, dim := g.Features.Dims()

	incoming := make([][]int, numNodes)
	for _, e := range g.Edges {
		incoming[e.Target] = append(incoming[e.Target], e.Source)
	}

	pooled := mat.NewVecDense(dim, nil)
	state := make([]float64, dim)
	neighbor := make([]float64, dim)
	for node := 0; node < numNodes; node++ {
		copy(state, g.Features.RawRowView(node))
		if len(incoming[node]) > 0 {
			agg, err := aggregate(g, incoming[node], variant, neighbor)
			if err != nil {
				return nil, err
			}
			floats.Add(state, agg)
		}
		for c := 0; c < dim; c++ {
			pooled.SetVec(c, pooled.AtVec(c)+state[c]/float64(numNodes))
		}
	}
	return pooled, nil
}

func aggregate(g synthgraph.Graph, sources []int, variant string, scratch []float64) ([]float64, error) {
	dim := len(scratch)
	agg := make([]float64, dim)
	switch variant {
	case "sum", "mean":
		for _, src := range sources {
			copy(scratch, g.Features.RawRowView(src))
			floats.Add(agg, scratch)
		}
		if variant == "mean" {
			floats.Scale(1/float64(len(sources)), agg)
		}
	case "max":
		copy(agg, g.Features.RawRowView(sources[0]))
		for _, src := range sources[1:] {
			row := g.Features.RawRowView(src)
			for c := range agg {
				if row[c] > agg[c] {
					agg[c] = row[c]
				}
			}
		}
	default:
		return nil, fmt.Errorf("unsupported message-passing variant %q", variant)
	}
	return agg, nil
}
