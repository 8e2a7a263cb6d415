// Package registry maps task and model names to the factories that build the
// corresponding dataset and model collaborators. All lookups are resolved at
// startup; an unknown name is fatal before any data is touched.
package registry

import (
	"log/slog"
	"math/rand"
	"sort"

	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
)

// Module is the interface a task package implements to plug its datasets and
// models into an application's registry.
type Module interface {
	Register(r *Registry)
}

// DatasetFactory builds a dataset from resolved hyperparameters. The RNG is
// the run's explicitly seeded generator; factories must not read any
// process-global random state.
type DatasetFactory func(params hyper.Params, rng *rand.Rand) gnn.Dataset

// ModelFactory builds a model from resolved hyperparameters and the edge-type
// count of the dataset it will train on.
type ModelFactory func(params hyper.Params, numEdgeTypes int, rng *rand.Rand) gnn.Model

// DatasetClass couples a dataset factory with its class-intrinsic default
// hyperparameters (the lowest layer of the override chain).
type DatasetClass struct {
	New      DatasetFactory
	Defaults func() hyper.Params
}

// ModelClass couples a model factory with its class-intrinsic defaults, which
// may depend on the chosen message-passing implementation.
type ModelClass struct {
	New      ModelFactory
	Defaults func(messagePassing string) hyper.Params
}

// TaskDefinition names the dataset and model classes a task trains with, plus
// the task-specific default overrides layered on top of the class defaults.
type TaskDefinition struct {
	DatasetClassName string
	ModelClassName   string
	DatasetOverrides hyper.Params
	ModelOverrides   hyper.Params
}

// MessagePassing describes one registered message-passing implementation.
type MessagePassing struct {
	Description string
}

// Registry holds the registered tasks, classes, and message-passing
// implementations for a single application instance.
type Registry struct {
	tasks          map[string]TaskDefinition
	datasetClasses map[string]DatasetClass
	modelClasses   map[string]ModelClass
	messagePassing map[string]MessagePassing
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		tasks:          make(map[string]TaskDefinition),
		datasetClasses: make(map[string]DatasetClass),
		modelClasses:   make(map[string]ModelClass),
		messagePassing: make(map[string]MessagePassing),
	}
}

// KnownTasks returns the registered task names, sorted for stable usage text.
func (r *Registry) KnownTasks() []string {
	return sortedKeys(r.tasks)
}

// KnownMessagePassing returns the registered message-passing implementation
// names, sorted.
func (r *Registry) KnownMessagePassing() []string {
	return sortedKeys(r.messagePassing)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func logRegistration(kind, name string) {
	slog.Debug("Registering definition.", "kind", kind, "name", name)
}
