// Package gnn defines the contracts between the training orchestrator and its
// two heavyweight collaborators: the graph dataset and the graph task model.
// The orchestrator never looks inside batches or epoch results; it only moves
// them between the two.
package gnn

// DataFold names a partition of a dataset.
type DataFold int

const (
	TrainFold DataFold = iota
	ValidationFold
	TestFold
)

func (f DataFold) String() string {
	switch f {
	case TrainFold:
		return "train"
	case ValidationFold:
		return "validation"
	case TestFold:
		return "test"
	default:
		return "unknown"
	}
}
