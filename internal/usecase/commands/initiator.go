package commands

import (
	"context"
	"log/slog"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

type InitiateResult struct {
	RequestID      uuid.UUID
	BindingMessage string
	ExpiresAt      time.Time
	// Interval is the poll interval clients should start with.
	Interval time.Duration
}

// Initiator is the backchannel initiation step: it stores a pending request
// for a frozen payload and announces it to the approver.
type Initiator interface {
	Initiate(ctx context.Context, userID uuid.UUID, payload shared.ActionPayload) (*InitiateResult, error)
}

type initiatorImpl struct {
	store        shared.AuthorizationRequestStore
	notifier     shared.ApprovalNotifier
	observer     shared.TransitionObserver
	clock        clock.Clock
	ttl          time.Duration
	pollInterval time.Duration
	logger       *slog.Logger
}

func NewInitiator(
	store shared.AuthorizationRequestStore,
	notifier shared.ApprovalNotifier,
	observer shared.TransitionObserver,
	clk clock.Clock,
	ttl, pollInterval time.Duration,
	logger *slog.Logger,
) Initiator {
	return &initiatorImpl{
		store:        store,
		notifier:     notifier,
		observer:     observer,
		clock:        clk,
		ttl:          ttl,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

func (uc *initiatorImpl) Initiate(ctx context.Context, userID uuid.UUID, payload shared.ActionPayload) (*InitiateResult, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}
	if payload == nil || payload.IsEmpty() {
		return nil, errs.ErrEmptyPayload
	}

	body, err := payload.Marshal()
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode action payload")
	}

	now := uc.clock.Now()
	req, err := authreq.NewRequest(userID, body, payload.BindingMessage(), now, uc.ttl)
	if err != nil {
		if errs.Is(err, authreq.ErrEmptyPayload) {
			return nil, errs.ErrEmptyPayload
		}
		return nil, err
	}

	id, err := uc.store.Create(ctx, req)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	uc.observer.ObserveTransition(ctx, shared.Transition{
		RequestID: id,
		To:        authreq.StatePending.String(),
		Actor:     userID,
		Channel:   shared.ChannelInitiator,
		At:        now,
	})

	// The request is usable without the notification: the approver can still
	// reach it through the approval endpoints.
	if err := uc.notifier.NotifyAuthorizationRequested(ctx, shared.AuthorizationRequested{
		RequestID:      id,
		UserID:         userID,
		BindingMessage: req.BindingMessage(),
		ExpiresAt:      req.ExpiresAt(),
	}); err != nil {
		uc.logger.WarnContext(ctx, "Failed to notify approver",
			slog.String("request_id", id.String()),
			slog.String("error", err.Error()))
	}

	return &InitiateResult{
		RequestID:      id,
		BindingMessage: req.BindingMessage(),
		ExpiresAt:      req.ExpiresAt(),
		Interval:       uc.pollInterval,
	}, nil
}
