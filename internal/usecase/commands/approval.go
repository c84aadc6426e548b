package commands

import (
	"context"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/infra"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

type DecideRequest struct {
	RequestID uuid.UUID
	UserID    uuid.UUID
	Decision  authreq.Decision
	Channel   string
}

type DecideResult struct {
	RequestID uuid.UUID
	State     authreq.State
	// Echo is set when the same decision had already been recorded.
	Echo bool
}

// ApprovalCommands records the approver's decision. Push and popup surfaces share it.
type ApprovalCommands interface {
	Decide(ctx context.Context, req DecideRequest) (*DecideResult, error)
}

type approvalUseCaseImpl struct {
	store    shared.AuthorizationRequestStore
	observer shared.TransitionObserver
	clock    clock.Clock
}

func NewApprovalUseCase(store shared.AuthorizationRequestStore, observer shared.TransitionObserver, clk clock.Clock) ApprovalCommands {
	return &approvalUseCaseImpl{store: store, observer: observer, clock: clk}
}

func (uc *approvalUseCaseImpl) Decide(ctx context.Context, req DecideRequest) (*DecideResult, error) {
	if req.UserID == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}
	target := req.Decision.TargetState()

	current, err := uc.store.Transition(ctx, req.RequestID, req.UserID, target)
	switch {
	case err == nil:
		uc.observer.ObserveTransition(ctx, shared.Transition{
			RequestID: req.RequestID,
			From:      authreq.StatePending.String(),
			To:        target.String(),
			Actor:     req.UserID,
			Channel:   req.Channel,
			At:        uc.clock.Now(),
		})
		return &DecideResult{RequestID: req.RequestID, State: target}, nil

	case infra.IsKind(err, infra.KindNotFound):
		return nil, errs.ErrAuthorizationNotFound

	case errs.Is(err, authreq.ErrOwnerMismatch):
		return nil, errs.ErrForbidden

	case errs.Is(err, authreq.ErrAlreadyTerminal):
		if errs.Is(err, authreq.ErrExpired) {
			observeExpiry(ctx, uc.observer, req.RequestID, req.Channel, uc.clock.Now())
		}
		if current != nil && current.State() == target {
			return &DecideResult{RequestID: req.RequestID, State: target, Echo: true}, nil
		}
		return nil, errs.ErrAlreadyTerminal

	default:
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}
