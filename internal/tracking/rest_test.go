package tracking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestReporterPostsMetric(t *testing.T) {
	var got metricRecord
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	reporter := NewRestReporter(server.URL, "ggnn_ppi__2024-01-01_00-00-00")
	defer reporter.Close()

	reporter.ReportMetric(context.Background(), "task_valid_metric", 0.125)

	assert.Equal(t, "ggnn_ppi__2024-01-01_00-00-00", got.RunID)
	assert.Equal(t, "task_valid_metric", got.Metric)
	assert.Equal(t, 0.125, got.Value)
}

// A dead endpoint must not propagate an error into the training loop.
func TestRestReporterSwallowsFailures(t *testing.T) {
	reporter := NewRestReporter("http://127.0.0.1:1", "run")
	defer reporter.Close()

	assert.NotPanics(t, func() {
		reporter.ReportMetric(context.Background(), "task_valid_metric", 1.0)
	})
}
