package runlog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogfAppendsAndMirrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	var mirror bytes.Buffer

	log, err := New(path, &mirror)
	require.NoError(t, err)
	log.Logf("== Epoch %d", 1)
	log.Logf(" Train:  %.4f loss", 0.1234)
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "== Epoch 1\n Train:  0.1234 loss\n"
	assert.Equal(t, want, string(data))
	assert.Equal(t, want, mirror.String())
}

// Reopening an existing log must append, never truncate: the run record is
// append-only.
func TestReopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	first, err := New(path, nil)
	require.NoError(t, err)
	first.Logf("line one")
	require.NoError(t, first.Close())

	second, err := New(path, nil)
	require.NoError(t, err)
	second.Logf("line two")
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))
}
