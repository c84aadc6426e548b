package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/domain/cart"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/poller"
	"ciba-checkout/internal/usecase/shared"
	"ciba-checkout/internal/usecase/stream"

	"github.com/google/uuid"
)

const streamBuffer = 8

// CheckoutCommands gates checkout behind an out-of-band approval.
type CheckoutCommands interface {
	// RequestAuthorization creates a pending request for the caller's current
	// cart without waiting for the decision.
	RequestAuthorization(ctx context.Context, userID uuid.UUID) (*InitiateResult, error)
	// StartCheckout creates the request and returns a stream that reports the
	// request, progress, and finally exactly one terminal event.
	StartCheckout(ctx context.Context, userID uuid.UUID) (*stream.ResponseStream, error)
}

type checkoutUseCaseImpl struct {
	carts       shared.CartRepository
	initiator   Initiator
	poller      *poller.CompletionPoller
	hardTimeout time.Duration
	logger      *slog.Logger
}

func NewCheckoutUseCase(
	carts shared.CartRepository,
	initiator Initiator,
	p *poller.CompletionPoller,
	hardTimeout time.Duration,
	logger *slog.Logger,
) CheckoutCommands {
	return &checkoutUseCaseImpl{
		carts:       carts,
		initiator:   initiator,
		poller:      p,
		hardTimeout: hardTimeout,
		logger:      logger,
	}
}

func (uc *checkoutUseCaseImpl) RequestAuthorization(ctx context.Context, userID uuid.UUID) (*InitiateResult, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}
	c, err := uc.carts.Get(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return uc.initiator.Initiate(ctx, userID, cart.NewSnapshot(c))
}

func (uc *checkoutUseCaseImpl) StartCheckout(ctx context.Context, userID uuid.UUID) (*stream.ResponseStream, error) {
	init, err := uc.RequestAuthorization(ctx, userID)
	if err != nil {
		return nil, err
	}

	s := stream.New(streamBuffer)
	expiresAt := init.ExpiresAt
	s.Emit(stream.Event{
		Type:           stream.EventAuthorizationRequested,
		RequestID:      init.RequestID,
		State:          authreq.StatePending.String(),
		BindingMessage: init.BindingMessage,
		ExpiresAt:      &expiresAt,
	})
	if err := s.BeginAsync(); err != nil {
		return nil, err
	}

	// The poll outlives the request context only through the stream: abandoning
	// the stream or hitting the hard timeout ends it.
	pollCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.hardTimeout)
	s.OnAbandon(cancel)

	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				uc.logger.Error("Checkout poller panicked",
					slog.String("request_id", init.RequestID.String()),
					slog.String("panic", fmt.Sprint(r)))
				_ = s.Finish(poller.Outcome{Kind: poller.OutcomeError, RequestID: init.RequestID}.Event())
			}
		}()

		outcome := uc.poller.Run(pollCtx, init.RequestID, userID, s)
		_ = s.Finish(outcome.Event())
	}()

	return s, nil
}

// PollerCompletion adapts CompletionCommands to the poller's completion hook.
func PollerCompletion(c CompletionCommands) poller.CompleteFunc {
	return func(ctx context.Context, id, userID uuid.UUID) ([]byte, error) {
		res, err := c.Complete(ctx, id, userID, shared.ChannelPoller)
		if err != nil {
			return nil, err
		}
		return res.Result, nil
	}
}

// PollerExpiry adapts ExpiryCommands to the poller's expiry hook.
func PollerExpiry(e ExpiryCommands) poller.ExpireFunc {
	return func(ctx context.Context, id, userID uuid.UUID) error {
		return e.RecordExpiry(ctx, id, userID, shared.ChannelPoller)
	}
}
