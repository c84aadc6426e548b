package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/commands"
	"ciba-checkout/internal/usecase/queries"
	"ciba-checkout/internal/usecase/shared"
	commandsmock "ciba-checkout/tests/mock/commands"
	queriesmock "ciba-checkout/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPoll(t *testing.T) {
	ctx := context.Background()
	id, userID := uuid.New(), uuid.New()

	var expiry *commandsmock.MockExpiryCommands
	setup := func(t *testing.T) (*queriesmock.MockAuthorizationQueries, *commandsmock.MockCompletionCommands, commands.PollCommands) {
		ctrl := gomock.NewController(t)
		status := queriesmock.NewMockAuthorizationQueries(ctrl)
		completion := commandsmock.NewMockCompletionCommands(ctrl)
		expiry = commandsmock.NewMockExpiryCommands(ctrl)
		return status, completion, commands.NewPollUseCase(status, completion, expiry)
	}

	t.Run("pending passes through", func(t *testing.T) {
		status, _, uc := setup(t)
		status.EXPECT().Status(ctx, id, userID).Return(&queries.AuthorizationView{RequestID: id, State: authreq.StatePending}, nil)

		view, err := uc.Poll(ctx, id, userID)
		require.NoError(t, err)
		assert.Equal(t, authreq.StatePending, view.State)
	})

	t.Run("approved without result drives completion", func(t *testing.T) {
		status, completion, uc := setup(t)
		status.EXPECT().Status(ctx, id, userID).Return(&queries.AuthorizationView{RequestID: id, State: authreq.StateApproved}, nil)
		completion.EXPECT().Complete(ctx, id, userID, shared.ChannelStatus).Return(&commands.CompletionResult{Result: []byte(`{"order_id":"o"}`)}, nil)

		view, err := uc.Poll(ctx, id, userID)
		require.NoError(t, err)
		assert.JSONEq(t, `{"order_id":"o"}`, string(view.Result))
	})

	t.Run("approved with result", func(t *testing.T) {
		status, _, uc := setup(t)
		status.EXPECT().Status(ctx, id, userID).Return(&queries.AuthorizationView{RequestID: id, State: authreq.StateApproved, Result: []byte(`{}`)}, nil)

		view, err := uc.Poll(ctx, id, userID)
		require.NoError(t, err)
		assert.Equal(t, []byte(`{}`), view.Result)
	})

	t.Run("slow down keeps the hint", func(t *testing.T) {
		status, _, uc := setup(t)
		status.EXPECT().Status(ctx, id, userID).
			Return(&queries.AuthorizationView{RequestID: id, State: authreq.StatePending, NextPollAfter: time.Second}, errs.ErrSlowDown)

		view, err := uc.Poll(ctx, id, userID)
		assert.True(t, errs.Is(err, errs.ErrSlowDown))
		require.NotNil(t, view)
		assert.Equal(t, time.Second, view.NextPollAfter)
	})

	t.Run("completion failure", func(t *testing.T) {
		status, completion, uc := setup(t)
		boom := errors.New("boom")
		status.EXPECT().Status(ctx, id, userID).Return(&queries.AuthorizationView{RequestID: id, State: authreq.StateApproved}, nil)
		completion.EXPECT().Complete(ctx, id, userID, shared.ChannelStatus).Return(nil, boom)

		_, err := uc.Poll(ctx, id, userID)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("expired request records the expiry", func(t *testing.T) {
		status, _, uc := setup(t)
		status.EXPECT().Status(ctx, id, userID).Return(&queries.AuthorizationView{RequestID: id, State: authreq.StateExpired}, nil)
		expiry.EXPECT().RecordExpiry(ctx, id, userID, shared.ChannelStatus).Return(nil)

		view, err := uc.Poll(ctx, id, userID)
		require.NoError(t, err)
		assert.Equal(t, authreq.StateExpired, view.State)
	})

	t.Run("expiry that cannot be recorded", func(t *testing.T) {
		status, _, uc := setup(t)
		status.EXPECT().Status(ctx, id, userID).Return(&queries.AuthorizationView{RequestID: id, State: authreq.StateExpired}, nil)
		expiry.EXPECT().RecordExpiry(ctx, id, userID, shared.ChannelStatus).Return(errs.ErrDatabaseOperationFailed)

		_, err := uc.Poll(ctx, id, userID)
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
	})
}
