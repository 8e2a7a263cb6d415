// Package tracking is the optional experiment-tracking side channel. The
// trainer reports scalar metrics through the Reporter capability; the default
// implementation does nothing, so the training loop never branches on whether
// tracking is enabled.
package tracking

import "context"

// Reporter accepts scalar metric observations for a run.
type Reporter interface {
	ReportMetric(ctx context.Context, name string, value float64)
}

// Nop is the default Reporter. It discards every observation.
type Nop struct{}

func (Nop) ReportMetric(context.Context, string, float64) {}
