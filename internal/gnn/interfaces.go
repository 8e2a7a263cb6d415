package gnn

import (
	"context"

	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
)

// MessagePassingKey is the reserved model hyperparameter recording which
// message-passing implementation the model was resolved with. It is injected
// by the configuration resolver and persisted with every checkpoint.
const MessagePassingKey = "gnn_message_calculation_class"

// Batch is one batch of graphs as produced by a Dataset. Its concrete type is
// private to the dataset/model pair; the orchestrator treats it as opaque.
type Batch any

// EpochResults is the raw per-example output of one epoch, reduced to a scalar
// metric by the model that produced it.
type EpochResults any

// BatchDescription tells a model the shapes it will be fed, so it can size its
// weights before the first batch arrives.
type BatchDescription struct {
	NodeFeatureDim int
	NumEdgeTypes   int
	TargetDim      int
}

// Dataset is the graph-data collaborator. Implementations own all batching
// and I/O; LoadData may block for a long time on large folds.
type Dataset interface {
	// Params returns the hyperparameters the dataset was constructed with.
	Params() hyper.Params

	// LoadData loads the named folds from the given directory. Folds not
	// listed stay unloaded; asking Batches for an unloaded fold yields nil.
	LoadData(ctx context.Context, path string, folds []DataFold) error

	// Batches returns the batch sequence for one fold.
	Batches(fold DataFold) []Batch

	BatchDescription() BatchDescription
	NumEdgeTypes() int
}

// Model is the graph-task-model collaborator.
type Model interface {
	// Params returns the hyperparameters the model was constructed with.
	Params() hyper.Params

	// Build sizes the model's weights for the described batches. Must be
	// called once before RunOneEpoch or LoadWeights.
	Build(desc BatchDescription) error

	// RunOneEpoch consumes every batch once. With training set it updates the
	// model's weights; otherwise the pass is read-only. It reports the mean
	// loss, the processing speed in graphs per second, and the raw results
	// for ComputeEpochMetrics.
	RunOneEpoch(ctx context.Context, batches []Batch, training bool, quiet bool) (loss float64, graphsPerSec float64, raw EpochResults, err error)

	// ComputeEpochMetrics reduces raw epoch results to the scalar target
	// metric (lower is better) and a human-readable rendering of it.
	ComputeEpochMetrics(raw EpochResults) (metric float64, display string)

	// SaveWeights and LoadWeights persist the weight tensors at the given
	// file stem, alongside the orchestrator's checkpoint header.
	SaveWeights(stem string) error
	LoadWeights(stem string) error
}
