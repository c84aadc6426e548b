package commands

import (
	"context"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/usecase/queries"
	"ciba-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

// PollCommands is the client-facing Poll/Status operation. A client that
// observes an approved request without a result drives the completion itself,
// so popup flows that poll instead of streaming still check out. An expiry the
// client observes is recorded the same way.
type PollCommands interface {
	Poll(ctx context.Context, id, callerUserID uuid.UUID) (*queries.AuthorizationView, error)
}

type pollUseCaseImpl struct {
	status     queries.AuthorizationQueries
	completion CompletionCommands
	expiry     ExpiryCommands
}

func NewPollUseCase(status queries.AuthorizationQueries, completion CompletionCommands, expiry ExpiryCommands) PollCommands {
	return &pollUseCaseImpl{status: status, completion: completion, expiry: expiry}
}

func (uc *pollUseCaseImpl) Poll(ctx context.Context, id, callerUserID uuid.UUID) (*queries.AuthorizationView, error) {
	view, err := uc.status.Status(ctx, id, callerUserID)
	if err != nil {
		return view, err
	}
	if view.State == authreq.StateExpired {
		if err := uc.expiry.RecordExpiry(ctx, id, callerUserID, shared.ChannelStatus); err != nil {
			return nil, err
		}
		return view, nil
	}
	if view.State != authreq.StateApproved || view.Result != nil {
		return view, nil
	}

	res, err := uc.completion.Complete(ctx, id, callerUserID, shared.ChannelStatus)
	if err != nil {
		return nil, err
	}
	view.Result = res.Result
	return view, nil
}
