package resolver

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/ChenchengLiang/tf2-gnn/internal/checkpoint"
	"github.com/ChenchengLiang/tf2-gnn/internal/ctxlog"
	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
	"github.com/ChenchengLiang/tf2-gnn/internal/registry"
)

// Options carries everything the resolver needs to assemble one run's
// collaborator pair.
type Options struct {
	TaskName       string
	MessagePassing string
	DataPath       string

	// TrainedModelStem, when set, points at a previous checkpoint whose
	// header supplies class identities and base hyperparameters.
	TrainedModelStem string

	// Caller override JSON strings (may be empty).
	DatasetOverridesJSON string
	ModelOverridesJSON   string

	// SearchOverrides are hyperparameter-search assignments, string-typed.
	SearchOverrides map[string]string

	// TunedDefaultsDir is probed for {task}_{messagePassing}.json.
	TunedDefaultsDir string

	// FoldsToLoad is handed to Dataset.LoadData before returning.
	FoldsToLoad []gnn.DataFold

	// RNG is the run's seeded generator, shared by both factories.
	RNG *rand.Rand
}

// Resolved is a constructed collaborator pair plus the class identifiers
// under which they will be checkpointed.
type Resolved struct {
	Dataset      gnn.Dataset
	Model        gnn.Model
	DatasetClass string
	ModelClass   string
}

// ModelAndDataset resolves hyperparameters, constructs both collaborators,
// and loads the requested data folds. Data loading happens here, before the
// pair is returned, so callers receive collaborators that are ready to train
// or evaluate.
func ModelAndDataset(ctx context.Context, reg *registry.Registry, opts Options) (*Resolved, error) {
	logger := ctxlog.FromContext(ctx)

	var loaded *checkpoint.Header
	tuned := TunedDefaults{TaskParams: hyper.Params{}, ModelParams: hyper.Params{}}
	if opts.TrainedModelStem != "" {
		header, err := checkpoint.LoadHeader(opts.TrainedModelStem)
		if err != nil {
			return nil, err
		}
		loaded = header
		logger.Info("Loaded checkpoint header.",
			"stem", opts.TrainedModelStem,
			"model_class", header.ModelClass,
			"dataset_class", header.DatasetClass)
	} else {
		var err error
		tuned, err = LoadTunedDefaults(ctx, opts.TunedDefaultsDir, opts.TaskName, opts.MessagePassing)
		if err != nil {
			return nil, err
		}
	}

	datasetOverrides, err := hyper.ParseOverrides(opts.DatasetOverridesJSON)
	if err != nil {
		return nil, err
	}
	modelOverrides, err := hyper.ParseOverrides(opts.ModelOverridesJSON)
	if err != nil {
		return nil, err
	}

	dataset, datasetClass, err := Dataset(reg, opts.TaskName, loaded, tuned.TaskParams, datasetOverrides, opts.RNG)
	if err != nil {
		return nil, err
	}
	model, modelClass, err := Model(reg, opts.MessagePassing, opts.TaskName, loaded, dataset,
		tuned.ModelParams, modelOverrides, opts.SearchOverrides, opts.RNG)
	if err != nil {
		return nil, err
	}

	logger.Info("Loading data.", "path", opts.DataPath, "folds", foldNames(opts.FoldsToLoad))
	if err := dataset.LoadData(ctx, opts.DataPath, opts.FoldsToLoad); err != nil {
		return nil, fmt.Errorf("failed to load data from %s: %w", opts.DataPath, err)
	}

	return &Resolved{
		Dataset:      dataset,
		Model:        model,
		DatasetClass: datasetClass,
		ModelClass:   modelClass,
	}, nil
}

func foldNames(folds []gnn.DataFold) []string {
	names := make([]string, len(folds))
	for i, f := range folds {
		names[i] = f.String()
	}
	return names
}
