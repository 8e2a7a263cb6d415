package testutil

import "context"

// MetricObservation is one captured ReportMetric call.
type MetricObservation struct {
	Name  string
	Value float64
}

// CaptureReporter records every reported metric for assertions.
type CaptureReporter struct {
	Observations []MetricObservation
}

func (r *CaptureReporter) ReportMetric(_ context.Context, name string, value float64) {
	r.Observations = append(r.Observations, MetricObservation{Name: name, Value: value})
}

// Values returns all captured values for one metric name, in order.
func (r *CaptureReporter) Values(name string) []float64 {
	var out []float64
	for _, obs := range r.Observations {
		if obs.Name == name {
			out = append(out, obs.Value)
		}
	}
	return out
}
