// Package checkpoint persists the best model state of a run. A checkpoint is
// a JSON header (class identifiers plus the exact hyperparameters both
// collaborators were constructed with) next to the model's own weight files,
// all sharing one file stem.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
)

// Header is the serialized checkpoint record. It carries everything needed to
// reconstruct the collaborator pair without re-running default resolution.
type Header struct {
	ModelClass    string       `json:"model_class"`
	ModelParams   hyper.Params `json:"model_params"`
	DatasetClass  string       `json:"dataset_class"`
	DatasetParams hyper.Params `json:"dataset_params"`
}

// CorruptCheckpointError reports a checkpoint header that could not be read
// or decoded.
type CorruptCheckpointError struct {
	Path string
	Err  error
}

func (e *CorruptCheckpointError) Error() string {
	return fmt.Sprintf("corrupt checkpoint %s: %v", e.Path, e.Err)
}

func (e *CorruptCheckpointError) Unwrap() error {
	return e.Err
}

// HeaderPath returns the header file for a checkpoint stem.
func HeaderPath(stem string) string {
	return stem + ".json"
}

// Save writes the checkpoint header for the given collaborators and asks the
// model to persist its weights at the same stem. Any write failure is fatal
// to the run: training must not continue without a recovery point.
func Save(stem, modelClass, datasetClass string, model gnn.Model, dataset gnn.Dataset) error {
	header := Header{
		ModelClass:    modelClass,
		ModelParams:   model.Params(),
		DatasetClass:  datasetClass,
		DatasetParams: dataset.Params(),
	}
	data, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint header: %w", err)
	}
	if err := os.WriteFile(HeaderPath(stem), data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint header: %w", err)
	}
	if err := model.SaveWeights(stem); err != nil {
		return fmt.Errorf("failed to save model weights at %s: %w", stem, err)
	}
	return nil
}

// LoadHeader reads and decodes the checkpoint header for a stem.
func LoadHeader(stem string) (*Header, error) {
	path := HeaderPath(stem)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CorruptCheckpointError{Path: path, Err: err}
	}
	var header Header
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, &CorruptCheckpointError{Path: path, Err: err}
	}
	return &header, nil
}
