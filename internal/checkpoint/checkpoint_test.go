package checkpoint_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ChenchengLiang/tf2-gnn/internal/checkpoint"
	"github.com/ChenchengLiang/tf2-gnn/internal/hyper"
	"github.com/ChenchengLiang/tf2-gnn/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadHeader(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "run_best")
	model := &testutil.FakeModel{ParamsValue: hyper.Params{"hidden_dim": float64(64)}}
	dataset := &testutil.FakeDataset{ParamsValue: hyper.Params{"max_nodes_per_batch": float64(8000)}}

	require.NoError(t, checkpoint.Save(stem, "NodeMulticlassModel", "PPIDataset", model, dataset))

	// Weights are delegated to the model at the same stem.
	assert.Equal(t, []string{stem}, model.SaveStems)
	_, err := os.Stat(stem + ".weights.json")
	require.NoError(t, err)

	header, err := checkpoint.LoadHeader(stem)
	require.NoError(t, err)
	assert.Equal(t, "NodeMulticlassModel", header.ModelClass)
	assert.Equal(t, "PPIDataset", header.DatasetClass)
	assert.Equal(t, float64(64), header.ModelParams["hidden_dim"])
	assert.Equal(t, float64(8000), header.DatasetParams["max_nodes_per_batch"])
}

func TestLoadHeaderMissingFile(t *testing.T) {
	_, err := checkpoint.LoadHeader(filepath.Join(t.TempDir(), "nope"))
	var corrupt *checkpoint.CorruptCheckpointError
	require.ErrorAs(t, err, &corrupt)
}

func TestLoadHeaderMalformed(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "bad")
	require.NoError(t, os.WriteFile(checkpoint.HeaderPath(stem), []byte("{"), 0o644))

	_, err := checkpoint.LoadHeader(stem)
	var corrupt *checkpoint.CorruptCheckpointError
	require.ErrorAs(t, err, &corrupt)
}
