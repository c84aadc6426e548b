package commands

import (
	"context"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/infra"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

// ExpiryCommands persists an expiry that reads have only observed lazily, so
// the pending to expired transition is audited once per request.
type ExpiryCommands interface {
	RecordExpiry(ctx context.Context, id, userID uuid.UUID, channel string) error
}

type expiryUseCaseImpl struct {
	store    shared.AuthorizationRequestStore
	observer shared.TransitionObserver
	clock    clock.Clock
}

func NewExpiryUseCase(store shared.AuthorizationRequestStore, observer shared.TransitionObserver, clk clock.Clock) ExpiryCommands {
	return &expiryUseCaseImpl{store: store, observer: observer, clock: clk}
}

func (uc *expiryUseCaseImpl) RecordExpiry(ctx context.Context, id, userID uuid.UUID, channel string) error {
	_, err := uc.store.Transition(ctx, id, userID, authreq.StateExpired)
	switch {
	case errs.Is(err, authreq.ErrExpired):
		observeExpiry(ctx, uc.observer, id, channel, uc.clock.Now())
		return nil
	case err == nil, errs.Is(err, authreq.ErrAlreadyTerminal), infra.IsKind(err, infra.KindNotFound):
		return nil
	case errs.Is(err, authreq.ErrOwnerMismatch):
		return errs.ErrForbidden
	case errs.Is(err, authreq.ErrInvalidTransition):
		return errs.Wrap(err, "authorization request has not expired")
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}

func observeExpiry(ctx context.Context, observer shared.TransitionObserver, id uuid.UUID, channel string, at time.Time) {
	observer.ObserveTransition(ctx, shared.Transition{
		RequestID: id,
		From:      authreq.StatePending.String(),
		To:        authreq.StateExpired.String(),
		Actor:     uuid.Nil,
		Channel:   channel,
		At:        at,
	})
}
