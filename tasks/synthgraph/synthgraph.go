// Package synthgraph generates small random graphs for the built-in tasks.
// The built-in tasks exist to exercise the training pipeline end to end with
// cheap, deterministic data; they make no claim to benchmark realism.
package synthgraph

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Edge is one directed, typed edge.
type Edge struct {
	Source int
	Target int
	Type   int
}

// Graph is one synthetic graph sample: per-node feature rows, typed edges,
// and a scalar target (a regression value or a class label).
type Graph struct {
	Features *mat.Dense
	Edges    []Edge
	Target   float64
}

// Batch is a group of graphs processed together. It is handed to models as
// an opaque batch value.
type Batch []Graph

// Spec controls generation.
type Spec struct {
	NumGraphs    int
	MinNodes     int
	MaxNodes     int
	FeatureDim   int
	NumEdgeTypes int
	EdgeProb     float64

	// TargetFn assigns the scalar target given a finished graph.
	TargetFn func(g Graph) float64
}

// Generate draws NumGraphs random graphs from the spec using the provided
// generator. Identical seeds yield identical data.
func Generate(rng *rand.Rand, spec Spec) []Graph {
	graphs := make([]Graph, spec.NumGraphs)
	for i := range graphs {
		numNodes := spec.MinNodes + rng.Intn(spec.MaxNodes-spec.MinNodes+1)
		features := mat.NewDense(numNodes, spec.FeatureDim, nil)
		for r := 0; r < numNodes; r++ {
			for c := 0; c < spec.FeatureDim; c++ {
				features.Set(r, c, rng.NormFloat64())
			}
		}

		var edges []Edge
		for src := 0; src < numNodes; src++ {
			for dst := 0; dst < numNodes; dst++ {
				if src == dst {
					continue
				}
				if rng.Float64() < spec.EdgeProb {
					edges = append(edges, Edge{Source: src, Target: dst, Type: rng.Intn(spec.NumEdgeTypes)})
				}
			}
		}

		graphs[i] = Graph{Features: features, Edges: edges}
		graphs[i].Target = spec.TargetFn(graphs[i])
	}
	return graphs
}

// Batchify slices graphs into batches of at most batchSize.
func Batchify(graphs []Graph, batchSize int) []Batch {
	var batches []Batch
	for start := 0; start < len(graphs); start += batchSize {
		end := start + batchSize
		if end > len(graphs) {
			end = len(graphs)
		}
		batches = append(batches, Batch(graphs[start:end]))
	}
	return batches
}
