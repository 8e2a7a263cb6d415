package resolver_test

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/ChenchengLiang/tf2-gnn/internal/checkpoint"
	"github.com/ChenchengLiang/tf2-gnn/internal/gnn"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
	"github.com/ChenchengLiang/tf2-gnn/internal/registry"
	"github.com/ChenchengLiang/tf2-gnn/internal/resolver"
	"github.com/ChenchengLiang/tf2-gnn/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(0))
}

func TestDatasetLayering(t *testing.T) {
	reg, dataset, _ := testutil.NewRegistry("ppi")

	// Class default max_nodes_per_batch=10000 is overridden to 8000 by the
	// task definition, then to 6000 by the tuned layer; the CLI layer adds a
	// new key. add_self_loop_edges comes through from the class defaults.
	_, className, err := resolver.Dataset(reg, "ppi", nil,
		hyper.Params{"max_nodes_per_batch": 6000},
		hyper.Params{"data_fraction": 0.5},
		newRNG())
	require.NoError(t, err)
	assert.Equal(t, "FakeDataset", className)

	want := hyper.Params{
		"max_nodes_per_batch": 6000,
		"add_self_loop_edges": true,
		"data_fraction":       0.5,
	}
	if diff := cmp.Diff(want, dataset.ParamsValue); diff != "" {
		t.Fatalf("dataset params mismatch (-want +got):\n%s", diff)
	}
}

func TestDatasetUnknownTask(t *testing.T) {
	reg, _, _ := testutil.NewRegistry("ppi")
	_, _, err := resolver.Dataset(reg, "qm9", nil, hyper.Params{}, hyper.Params{}, newRNG())
	var unknown *registry.UnknownTaskError
	require.ErrorAs(t, err, &unknown)
}

func TestModelLayeringInjectsMessagePassing(t *testing.T) {
	reg, dataset, model := testutil.NewRegistry("ppi")
	dataset.ParamsValue = hyper.Params{}

	_, _, err := resolver.Model(reg, "ggnn", "ppi", nil, dataset,
		hyper.Params{"hidden_dim": 128},
		hyper.Params{"use_residual": false},
		nil, newRNG())
	require.NoError(t, err)

	want := hyper.Params{
		gnn.MessagePassingKey: "ggnn",
		"hidden_dim":          128,
		"learning_rate":       0.0005,
		"use_residual":        false,
	}
	if diff := cmp.Diff(want, model.ParamsValue); diff != "" {
		t.Fatalf("model params mismatch (-want +got):\n%s", diff)
	}
}

func TestModelUnknownMessagePassing(t *testing.T) {
	reg, dataset, _ := testutil.NewRegistry("ppi")
	_, _, err := resolver.Model(reg, "rgat", "ppi", nil, dataset, hyper.Params{}, hyper.Params{}, nil, newRNG())
	var unknown *registry.UnknownModelError
	require.ErrorAs(t, err, &unknown)
}

func TestModelSearchOverridesCoerced(t *testing.T) {
	reg, dataset, model := testutil.NewRegistry("ppi")

	_, _, err := resolver.Model(reg, "ggnn", "ppi", nil, dataset,
		hyper.Params{}, hyper.Params{},
		map[string]string{"hidden_dim": "256", "use_residual": "false"},
		newRNG())
	require.NoError(t, err)
	assert.Equal(t, 256, model.ParamsValue["hidden_dim"])
	assert.Equal(t, false, model.ParamsValue["use_residual"])
}

func TestModelSearchOverrideCoercionFailureIsFatal(t *testing.T) {
	reg, dataset, _ := testutil.NewRegistry("ppi")
	_, _, err := resolver.Model(reg, "ggnn", "ppi", nil, dataset,
		hyper.Params{}, hyper.Params{},
		map[string]string{"learning_rate": "abc"},
		newRNG())
	var coercion *hyper.CoercionError
	require.ErrorAs(t, err, &coercion)
}

// Resolving twice with identical inputs must produce identical mappings.
func TestResolutionIsIdempotent(t *testing.T) {
	reg, dataset, _ := testutil.NewRegistry("ppi")

	_, _, err := resolver.Dataset(reg, "ppi", nil,
		hyper.Params{"max_nodes_per_batch": 6000}, hyper.Params{"data_fraction": 0.5}, newRNG())
	require.NoError(t, err)
	first := dataset.ParamsValue.Clone()

	_, _, err = resolver.Dataset(reg, "ppi", nil,
		hyper.Params{"max_nodes_per_batch": 6000}, hyper.Params{"data_fraction": 0.5}, newRNG())
	require.NoError(t, err)

	if diff := cmp.Diff(first, dataset.ParamsValue); diff != "" {
		t.Fatalf("second resolution differed from the first (-first +second):\n%s", diff)
	}
}

func TestLoadTunedDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file falls back silently", func(t *testing.T) {
		tuned, err := resolver.LoadTunedDefaults(ctx, t.TempDir(), "ppi", "ggnn")
		require.NoError(t, err)
		assert.Empty(t, tuned.TaskParams)
		assert.Empty(t, tuned.ModelParams)
	})

	t.Run("present file is loaded", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "ppi_ggnn.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"task_params":{"max_nodes_per_batch":4000},"model_params":{"hidden_dim":320}}`), 0o644))

		tuned, err := resolver.LoadTunedDefaults(ctx, dir, "ppi", "ggnn")
		require.NoError(t, err)
		assert.Equal(t, float64(4000), tuned.TaskParams["max_nodes_per_batch"])
		assert.Equal(t, float64(320), tuned.ModelParams["hidden_dim"])
	})

	t.Run("malformed file is fatal", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "ppi_ggnn.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"task_params": `), 0o644))

		_, err := resolver.LoadTunedDefaults(ctx, dir, "ppi", "ggnn")
		require.Error(t, err)
	})
}

func TestModelAndDatasetLoadsRequestedFolds(t *testing.T) {
	reg, dataset, _ := testutil.NewRegistry("ppi")

	resolved, err := resolver.ModelAndDataset(context.Background(), reg, resolver.Options{
		TaskName:         "ppi",
		MessagePassing:   "ggnn",
		DataPath:         "data/ppi",
		TunedDefaultsDir: t.TempDir(),
		FoldsToLoad:      []gnn.DataFold{gnn.TrainFold, gnn.ValidationFold},
		RNG:              newRNG(),
	})
	require.NoError(t, err)
	assert.Equal(t, "data/ppi", dataset.LoadedPath)
	assert.Equal(t, []gnn.DataFold{gnn.TrainFold, gnn.ValidationFold}, dataset.LoadedFolds)
	assert.Equal(t, "FakeDataset", resolved.DatasetClass)
	assert.Equal(t, "FakeModel", resolved.ModelClass)
}

func TestModelAndDatasetResumesFromCheckpoint(t *testing.T) {
	reg, dataset, model := testutil.NewRegistry("ppi")
	dir := t.TempDir()
	stem := filepath.Join(dir, "previous_best")

	header := checkpoint.Header{
		ModelClass:    "FakeModel",
		ModelParams:   hyper.Params{"hidden_dim": float64(96), gnn.MessagePassingKey: "ggnn"},
		DatasetClass:  "FakeDataset",
		DatasetParams: hyper.Params{"max_nodes_per_batch": float64(2000)},
	}
	writeHeader(t, stem, header)

	_, err := resolver.ModelAndDataset(context.Background(), reg, resolver.Options{
		TaskName:             "ppi",
		MessagePassing:       "ggnn",
		DataPath:             "data/ppi",
		TrainedModelStem:     stem,
		DatasetOverridesJSON: `{"data_fraction": 0.1}`,
		TunedDefaultsDir:     dir,
		FoldsToLoad:          []gnn.DataFold{gnn.TestFold},
		RNG:                  newRNG(),
	})
	require.NoError(t, err)

	// Persisted params are the base layer, class defaults are not re-applied,
	// CLI overrides still win.
	assert.Equal(t, float64(2000), dataset.ParamsValue["max_nodes_per_batch"])
	assert.NotContains(t, dataset.ParamsValue, "add_self_loop_edges")
	assert.Equal(t, 0.1, dataset.ParamsValue["data_fraction"])
	assert.Equal(t, float64(96), model.ParamsValue["hidden_dim"])
}

func TestModelAndDatasetCorruptCheckpoint(t *testing.T) {
	reg, _, _ := testutil.NewRegistry("ppi")
	dir := t.TempDir()
	stem := filepath.Join(dir, "broken")
	require.NoError(t, os.WriteFile(checkpoint.HeaderPath(stem), []byte("not json"), 0o644))

	_, err := resolver.ModelAndDataset(context.Background(), reg, resolver.Options{
		TaskName:         "ppi",
		MessagePassing:   "ggnn",
		TrainedModelStem: stem,
		TunedDefaultsDir: dir,
		RNG:              newRNG(),
	})
	var corrupt *checkpoint.CorruptCheckpointError
	require.ErrorAs(t, err, &corrupt)
}

func TestModelAndDatasetMalformedCLIOverride(t *testing.T) {
	reg, _, _ := testutil.NewRegistry("ppi")
	_, err := resolver.ModelAndDataset(context.Background(), reg, resolver.Options{
		TaskName:           "ppi",
		MessagePassing:     "ggnn",
		ModelOverridesJSON: `{"hidden_dim": `,
		TunedDefaultsDir:   t.TempDir(),
		RNG:                newRNG(),
	})
	var malformed *hyper.MalformedOverrideError
	require.ErrorAs(t, err, &malformed)
}

func writeHeader(t *testing.T, stem string, header checkpoint.Header) {
	t.Helper()
	dataset := &testutil.FakeDataset{ParamsValue: header.DatasetParams}
	model := &testutil.FakeModel{ParamsValue: header.ModelParams}
	require.NoError(t, checkpoint.Save(stem, header.ModelClass, header.DatasetClass, model, dataset))
}
