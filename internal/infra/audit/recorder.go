package audit

import (
	"context"
	"log/slog"

	"ciba-checkout/internal/pkg/metrics"
	"ciba-checkout/internal/usecase/shared"
)

// Recorder turns state transitions into structured log lines and counters.
type Recorder struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewRecorder(logger *slog.Logger, m *metrics.Metrics) *Recorder {
	return &Recorder{logger: logger, metrics: m}
}

func (r *Recorder) ObserveTransition(ctx context.Context, t shared.Transition) {
	r.logger.InfoContext(ctx, "Authorization state transition",
		slog.String("request_id", t.RequestID.String()),
		slog.String("from", t.From),
		slog.String("to", t.To),
		slog.String("actor", t.Actor.String()),
		slog.String("channel", t.Channel),
		slog.Time("at", t.At))
	r.metrics.RecordTransition(t.From, t.To, t.Channel)
}
