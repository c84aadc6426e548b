package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/pkg/config"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/pkg/metrics"
	"ciba-checkout/internal/usecase/queries"
	"ciba-checkout/internal/usecase/stream"

	"github.com/google/uuid"
)

type Config struct {
	Interval                 time.Duration
	MaxAttempts              int
	BackoffFactor            float64
	MaxInterval              time.Duration
	MaxConsecutiveErrors     int
	MaxConsecutiveRejections int
	// StatusEvery emits a progress event every n pending polls; 0 disables them.
	StatusEvery int
}

func NewConfig(cfg config.PollerConfig) Config {
	return Config{
		Interval:                 cfg.Interval,
		MaxAttempts:              cfg.MaxAttempts,
		BackoffFactor:            cfg.BackoffFactor,
		MaxInterval:              cfg.MaxInterval,
		MaxConsecutiveErrors:     cfg.MaxConsecutiveErrors,
		MaxConsecutiveRejections: cfg.MaxConsecutiveRejections,
		StatusEvery:              cfg.StatusEvery,
	}
}

type OutcomeKind string

const (
	OutcomeCompleted OutcomeKind = "completed"
	OutcomeRejected  OutcomeKind = "rejected"
	OutcomeExpired   OutcomeKind = "expired"
	OutcomeTimedOut  OutcomeKind = "timed_out"
	OutcomeNotFound  OutcomeKind = "not_found"
	OutcomeCanceled  OutcomeKind = "canceled"
	OutcomeError     OutcomeKind = "error"
)

type Outcome struct {
	Kind      OutcomeKind
	RequestID uuid.UUID
	Result    []byte
	Attempts  int
	Err       error
}

// Event renders the outcome as the terminal stream event.
func (o Outcome) Event() stream.Event {
	ev := stream.Event{RequestID: o.RequestID}
	switch o.Kind {
	case OutcomeCompleted:
		ev.Type = stream.EventCompleted
		ev.State = authreq.StateApproved.String()
		ev.Result = o.Result
	case OutcomeRejected:
		ev.Type = stream.EventRejected
		ev.State = authreq.StateDenied.String()
		ev.Message = "checkout was denied by the approver"
	case OutcomeExpired:
		ev.Type = stream.EventExpired
		ev.State = authreq.StateExpired.String()
		ev.Message = "authorization request expired before a decision"
	case OutcomeTimedOut:
		ev.Type = stream.EventTimedOut
		ev.Message = "gave up waiting for a decision"
	case OutcomeNotFound:
		ev.Type = stream.EventNotFound
		ev.Message = "authorization request not found or already handled"
	case OutcomeCanceled:
		ev.Type = stream.EventCanceled
		ev.Message = "checkout was canceled"
	default:
		ev.Type = stream.EventError
		ev.Message = "checkout could not be completed"
	}
	return ev
}

// Source is the Poll/Status operation.
type Source interface {
	Status(ctx context.Context, id, callerUserID uuid.UUID) (*queries.AuthorizationView, error)
}

// CompleteFunc runs the exactly-once completion of an approved request.
type CompleteFunc func(ctx context.Context, id, userID uuid.UUID) ([]byte, error)

// ExpireFunc records an expiry the poller observed.
type ExpireFunc func(ctx context.Context, id, userID uuid.UUID) error

// Remover deletes a request whose terminal outcome has been processed.
type Remover interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// Sink receives progress events.
type Sink interface {
	Emit(ev stream.Event) bool
}

// CompletionPoller waits for a decision on one request and turns it into an outcome.
type CompletionPoller struct {
	cfg      Config
	source   Source
	complete CompleteFunc
	expire   ExpireFunc
	remover  Remover
	metrics  *metrics.Metrics
	logger   *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

func New(
	cfg Config,
	source Source,
	complete CompleteFunc,
	expire ExpireFunc,
	remover Remover,
	m *metrics.Metrics,
	logger *slog.Logger,
) *CompletionPoller {
	return &CompletionPoller{
		cfg:      cfg,
		source:   source,
		complete: complete,
		expire:   expire,
		remover:  remover,
		metrics:  m,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// Run polls until the request reaches a terminal outcome, the attempts run
// out, or ctx ends. A ctx deadline yields OutcomeTimedOut, cancellation
// yields OutcomeCanceled.
func (p *CompletionPoller) Run(ctx context.Context, id, userID uuid.UUID, sink Sink) Outcome {
	out := p.run(ctx, id, userID, sink)
	out.RequestID = id

	p.metrics.RecordPollOutcome(string(out.Kind), out.Attempts)
	attrs := []any{
		slog.String("request_id", id.String()),
		slog.String("outcome", string(out.Kind)),
		slog.Int("attempts", out.Attempts),
	}
	if out.Err != nil {
		attrs = append(attrs, slog.String("error", out.Err.Error()))
		p.logger.Warn("Completion poller finished", attrs...)
	} else {
		p.logger.Info("Completion poller finished", attrs...)
	}

	switch out.Kind {
	case OutcomeCompleted, OutcomeRejected, OutcomeExpired:
		// the record has served its purpose; cleanup must not be canceled with the caller
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := p.remover.Delete(cleanupCtx, id); err != nil {
			p.logger.Warn("Failed to delete finished authorization request",
				slog.String("request_id", id.String()),
				slog.String("error", err.Error()))
		}
	}
	return out
}

func (p *CompletionPoller) run(ctx context.Context, id, userID uuid.UUID, sink Sink) Outcome {
	interval := p.cfg.Interval
	consecutiveErrors := 0
	consecutiveRejections := 0
	completionFailures := 0

	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		if err := p.sleep(ctx, interval); err != nil {
			return contextOutcome(ctx, attempt-1)
		}

		view, err := p.source.Status(ctx, id, userID)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return contextOutcome(ctx, attempt)

			case errs.Is(err, errs.ErrSlowDown):
				interval = nextInterval(interval, p.cfg.BackoffFactor, p.cfg.MaxInterval)
				p.logger.Debug("Poll asked to slow down",
					slog.String("request_id", id.String()),
					slog.Duration("interval", interval))

			case errs.Is(err, errs.ErrAuthorizationNotFound):
				return Outcome{Kind: OutcomeNotFound, Attempts: attempt}

			case errs.Is(err, errs.ErrForbidden), errs.Is(err, errs.ErrPollRejected):
				consecutiveErrors = 0
				consecutiveRejections++
				if consecutiveRejections >= p.cfg.MaxConsecutiveRejections {
					return Outcome{Kind: OutcomeError, Attempts: attempt, Err: err}
				}

			default:
				consecutiveRejections = 0
				consecutiveErrors++
				if consecutiveErrors >= p.cfg.MaxConsecutiveErrors {
					return Outcome{Kind: OutcomeError, Attempts: attempt, Err: err}
				}
			}
			continue
		}

		consecutiveErrors = 0
		consecutiveRejections = 0

		switch view.State {
		case authreq.StatePending:
			if p.cfg.StatusEvery > 0 && attempt%p.cfg.StatusEvery == 0 {
				sink.Emit(stream.Event{
					Type:      stream.EventStatus,
					RequestID: id,
					State:     authreq.StatePending.String(),
					Attempt:   attempt,
				})
			}

		case authreq.StateApproved:
			if view.Result != nil {
				return Outcome{Kind: OutcomeCompleted, Attempts: attempt, Result: view.Result}
			}
			result, err := p.complete(ctx, id, userID)
			switch {
			case err == nil:
				return Outcome{Kind: OutcomeCompleted, Attempts: attempt, Result: result}
			case errs.Is(err, errs.ErrAuthorizationNotFound):
				return Outcome{Kind: OutcomeNotFound, Attempts: attempt}
			case ctx.Err() != nil:
				return contextOutcome(ctx, attempt)
			}
			// the side effect is idempotent, so a failed completion is retried on the next poll
			completionFailures++
			if completionFailures >= p.cfg.MaxConsecutiveErrors {
				return Outcome{Kind: OutcomeError, Attempts: attempt, Err: err}
			}

		case authreq.StateDenied:
			return Outcome{Kind: OutcomeRejected, Attempts: attempt}

		case authreq.StateExpired:
			if err := p.expire(ctx, id, userID); err != nil {
				p.logger.Warn("Failed to record expiry",
					slog.String("request_id", id.String()),
					slog.String("error", err.Error()))
			}
			return Outcome{Kind: OutcomeExpired, Attempts: attempt}
		}
	}

	return Outcome{Kind: OutcomeTimedOut, Attempts: p.cfg.MaxAttempts}
}

// nextInterval grows the interval by factor, never shrinking it and never past max.
func nextInterval(current time.Duration, factor float64, max time.Duration) time.Duration {
	next := time.Duration(float64(current) * factor)
	if next < current {
		next = current
	}
	if max > 0 && next > max {
		next = max
	}
	if next < current {
		// current already exceeded max through configuration
		return current
	}
	return next
}

func contextOutcome(ctx context.Context, attempts int) Outcome {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Outcome{Kind: OutcomeTimedOut, Attempts: attempts}
	}
	return Outcome{Kind: OutcomeCanceled, Attempts: attempts}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
