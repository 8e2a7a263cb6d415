// Package resolver assembles the dataset and model collaborators for a run.
// It layers hyperparameters from four sources (class defaults, task-specific
// overrides, tuned per-task/model defaults, caller overrides) plus
// hyperparameter-search overrides for the model, then constructs both
// collaborators through the registry's factories.
package resolver

import (
	"math/rand"

	"github.com/ChenchengLiang/tf2-gnn/internal/checkpoint"
	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
	"github.com/ChenchengLiang/tf2-gnn/internal/registry"
)

// Dataset resolves the dataset hyperparameters and constructs the dataset.
//
// Without a loaded checkpoint, the override chain is: class defaults, then
// the task's default overrides, then tuned task params, then caller
// overrides. With a loaded checkpoint the persisted parameters are the base
// layer verbatim (class defaults are deliberately not re-applied) and only
// caller overrides are layered on top.
//
// The returned class name identifies the dataset class for checkpointing.
func Dataset(
	reg *registry.Registry,
	taskName string,
	loaded *checkpoint.Header,
	tunedTaskParams hyper.Params,
	cliOverrides hyper.Params,
	rng *rand.Rand,
) (gnn.Dataset, string, error) {
	var className string
	var params hyper.Params

	if loaded != nil {
		className = loaded.DatasetClass
		params = loaded.DatasetParams.Clone()
	} else {
		taskDef, err := reg.Task(taskName)
		if err != nil {
			return nil, "", err
		}
		className = taskDef.DatasetClassName
		class, err := reg.DatasetClassByName(className)
		if err != nil {
			return nil, "", err
		}
		params = class.Defaults().Clone()
		params.Update(taskDef.DatasetOverrides)
		params.Update(tunedTaskParams)
	}
	params.Update(cliOverrides)

	class, err := reg.DatasetClassByName(className)
	if err != nil {
		return nil, "", err
	}
	return class.New(params, rng), className, nil
}

// Model resolves the model hyperparameters and constructs the model against
// the already-resolved dataset. The layering mirrors Dataset, with two
// additions: the chosen message-passing implementation is recorded under
// gnn.MessagePassingKey, and hyperparameter-search overrides are applied
// last, coerced per key to the type of the value they replace.
func Model(
	reg *registry.Registry,
	messagePassing string,
	taskName string,
	loaded *checkpoint.Header,
	dataset gnn.Dataset,
	tunedModelParams hyper.Params,
	cliOverrides hyper.Params,
	searchOverrides map[string]string,
	rng *rand.Rand,
) (gnn.Model, string, error) {
	var className string
	var params hyper.Params

	if loaded != nil {
		className = loaded.ModelClass
		params = loaded.ModelParams.Clone()
	} else {
		if err := reg.CheckMessagePassing(messagePassing); err != nil {
			return nil, "", err
		}
		taskDef, err := reg.Task(taskName)
		if err != nil {
			return nil, "", err
		}
		className = taskDef.ModelClassName
		class, err := reg.ModelClassByName(className)
		if err != nil {
			return nil, "", err
		}
		params = class.Defaults(messagePassing).Clone()
		params[gnn.MessagePassingKey] = messagePassing
		params.Update(taskDef.ModelOverrides)
		params.Update(tunedModelParams)
	}
	params.Update(cliOverrides)
	if err := hyper.ApplySearchOverrides(params, searchOverrides); err != nil {
		return nil, "", err
	}

	class, err := reg.ModelClassByName(className)
	if err != nil {
		return nil, "", err
	}
	return class.New(params, dataset.NumEdgeTypes(), rng), className, nil
}
