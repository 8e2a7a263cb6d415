package tracking

import (
	"context"
	"time"

	"github.com/ChenchengLiang/tf2-gnn/internal/ctxlog"
	"resty.dev/v3"
)

// metricRecord is the JSON body posted for each observation.
type metricRecord struct {
	RunID  string  `json:"run_id"`
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// RestReporter posts metric observations to an HTTP tracking endpoint.
type RestReporter struct {
	client   *resty.Client
	endpoint string
	runID    string
}

// NewRestReporter builds a reporter for the given endpoint URL, tagging every
// observation with the run identifier.
func NewRestReporter(endpoint, runID string) *RestReporter {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &RestReporter{client: client, endpoint: endpoint, runID: runID}
}

// ReportMetric posts one observation. Tracking is a side channel: failures
// are logged and swallowed, they must never abort a training run.
func (r *RestReporter) ReportMetric(ctx context.Context, name string, value float64) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(metricRecord{RunID: r.runID, Metric: name, Value: value}).
		Post(r.endpoint)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to report metric.", "metric", name, "error", err)
		return
	}
	if resp.IsError() {
		ctxlog.FromContext(ctx).Warn("Tracking endpoint rejected metric.", "metric", name, "status", resp.StatusCode())
	}
}

// Close releases the underlying HTTP client.
func (r *RestReporter) Close() error {
	return r.client.Close()
}
