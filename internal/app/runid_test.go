package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMakeRunID_DefaultUsesModelTaskAndTimestamp(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	runID := makeRunID("RGCN", "qm9", "", now)

	assert.Equal(t, "RGCN_qm9__2025-03-14_09-26-53", runID)
}

func TestMakeRunID_RunNameWins(t *testing.T) {
	t.Parallel()

	runID := makeRunID("RGCN", "qm9", "my-experiment", time.Now())

	assert.Equal(t, "my-experiment", runID)
}
