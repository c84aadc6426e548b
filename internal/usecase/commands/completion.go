package commands

import (
	"context"
	"log/slog"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/infra"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/pkg/metrics"
	"ciba-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var ErrNotApproved = errs.New("authorization request is not approved")

const (
	// completionTimeout bounds a flight, which outlives any single caller.
	completionTimeout = 30 * time.Second
	// stateCompleted labels an approved request once its result is recorded.
	stateCompleted = "completed"
)

type CompletionResult struct {
	Result []byte
	// Replayed is set when the side effect had already run for this request.
	Replayed bool
}

// CompletionCommands runs the protected side effect of an approved request
// and records its result. However many callers race, the side effect takes
// effect once per request. channel names the surface that drove it.
type CompletionCommands interface {
	Complete(ctx context.Context, id, userID uuid.UUID, channel string) (*CompletionResult, error)
}

type completionUseCaseImpl struct {
	store    shared.AuthorizationRequestStore
	applier  shared.ActionApplier
	observer shared.TransitionObserver
	clock    clock.Clock
	metrics  *metrics.Metrics
	logger   *slog.Logger
	flights  singleflight.Group
}

func NewCompletionUseCase(
	store shared.AuthorizationRequestStore,
	applier shared.ActionApplier,
	observer shared.TransitionObserver,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) CompletionCommands {
	return &completionUseCaseImpl{
		store:    store,
		applier:  applier,
		observer: observer,
		clock:    clk,
		metrics:  m,
		logger:   logger,
	}
}

// Complete joins callers racing on the same id into one flight. The flight
// runs detached from the caller that started it, so a disconnecting caller
// does not fail the others.
func (uc *completionUseCaseImpl) Complete(ctx context.Context, id, userID uuid.UUID, channel string) (*CompletionResult, error) {
	v, err, _ := uc.flights.Do(id.String(), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), completionTimeout)
		defer cancel()
		return uc.complete(fctx, id, userID, channel)
	})
	if err != nil {
		uc.metrics.RecordCompletion("error")
		return nil, err
	}
	res := v.(*CompletionResult)
	if res.Replayed {
		uc.metrics.RecordCompletion("replayed")
	} else {
		uc.metrics.RecordCompletion("applied")
	}
	return res, nil
}

func (uc *completionUseCaseImpl) complete(ctx context.Context, id, userID uuid.UUID, channel string) (*CompletionResult, error) {
	req, err := uc.store.Get(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrAuthorizationNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !req.IsOwnedBy(userID) {
		return nil, errs.ErrForbidden
	}
	if req.State() != authreq.StateApproved {
		return nil, ErrNotApproved
	}
	if req.HasResult() {
		return &CompletionResult{Result: req.Result(), Replayed: true}, nil
	}

	result, err := uc.applier.ApplyApprovedAction(ctx, id, req.OwnerUserID(), req.Payload())
	if err != nil {
		return nil, errs.Wrap(err, "failed to apply approved action")
	}

	stored, err := uc.store.Complete(ctx, id, result)
	switch {
	case err == nil:
		uc.logger.InfoContext(ctx, "Approved action applied", slog.String("request_id", id.String()))
		at := uc.clock.Now()
		if stored.CompletedAt() != nil {
			at = *stored.CompletedAt()
		}
		uc.observer.ObserveTransition(ctx, shared.Transition{
			RequestID: id,
			From:      authreq.StateApproved.String(),
			To:        stateCompleted,
			Actor:     userID,
			Channel:   channel,
			At:        at,
		})
		return &CompletionResult{Result: stored.Result()}, nil
	case errs.Is(err, authreq.ErrAlreadyCompleted):
		// another process recorded first; its result is authoritative
		return &CompletionResult{Result: stored.Result(), Replayed: true}, nil
	case infra.IsKind(err, infra.KindNotFound):
		// a concurrent poller finished and removed the request; the side effect
		// is idempotent so this result matches what it recorded
		return &CompletionResult{Result: result, Replayed: true}, nil
	default:
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}
