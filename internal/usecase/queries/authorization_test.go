package queries_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/infra"
	"ciba-checkout/internal/infra/authstore"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/queries"
	"ciba-checkout/internal/usecase/shared"
	"ciba-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

type brokenStore struct {
	shared.AuthorizationRequestStore
}

func (brokenStore) Get(context.Context, uuid.UUID) (*authreq.Request, error) {
	return nil, errors.New("connection refused")
}

// contendedStore keeps losing its optimistic read section.
type contendedStore struct {
	shared.AuthorizationRequestStore
}

func (contendedStore) Get(context.Context, uuid.UUID) (*authreq.Request, error) {
	return nil, infra.RepositoryError{Kind: infra.KindConflict}
}

const testPollInterval = 5 * time.Second

func setup(t *testing.T, minInterval time.Duration) (*clock.MockClock, *authstore.MemoryStore, queries.AuthorizationQueries, *authreq.Request) {
	t.Helper()
	clk := clock.NewMockClock(baseTime)
	store := authstore.NewMemoryStore(clk, slog.New(slog.NewTextHandler(io.Discard, nil)))
	req := builder.NewAuthRequestBuilder().With(func(b *builder.AuthRequestBuilder) { b.Now = baseTime }).MustBuild(t)
	_, err := store.Create(context.Background(), req)
	require.NoError(t, err)
	return clk, store, queries.NewAuthorizationQueries(store, clk, minInterval, testPollInterval), req
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("owner sees the pending request", func(t *testing.T) {
		_, _, q, req := setup(t, 2*time.Second)

		view, err := q.Status(ctx, req.ID(), req.OwnerUserID())
		require.NoError(t, err)
		assert.Equal(t, authreq.StatePending, view.State)
		assert.Equal(t, req.BindingMessage(), view.BindingMessage)
		assert.Equal(t, req.ExpiresAt(), view.ExpiresAt)
		assert.Nil(t, view.Result)
		assert.Equal(t, 2*time.Second, view.NextPollAfter)
	})

	t.Run("pending hint falls back to the poll interval", func(t *testing.T) {
		_, _, q, req := setup(t, 0)

		view, err := q.Status(ctx, req.ID(), req.OwnerUserID())
		require.NoError(t, err)
		assert.Equal(t, testPollInterval, view.NextPollAfter)
	})

	t.Run("polling too fast is told to slow down", func(t *testing.T) {
		clk, _, q, req := setup(t, 2*time.Second)

		_, err := q.Status(ctx, req.ID(), req.OwnerUserID())
		require.NoError(t, err)

		clk.Add(500 * time.Millisecond)
		view, err := q.Status(ctx, req.ID(), req.OwnerUserID())
		require.True(t, errs.Is(err, errs.ErrSlowDown))
		assert.Equal(t, 1500*time.Millisecond, view.NextPollAfter)

		// the rejected poll does not restart the window
		clk.Add(1500 * time.Millisecond)
		_, err = q.Status(ctx, req.ID(), req.OwnerUserID())
		require.NoError(t, err)
	})

	t.Run("throttle is per request", func(t *testing.T) {
		_, store, q, req := setup(t, 2*time.Second)
		other := builder.NewAuthRequestBuilder().With(func(b *builder.AuthRequestBuilder) {
			b.OwnerUserID = req.OwnerUserID()
			b.Now = baseTime
		}).MustBuild(t)
		_, err := store.Create(ctx, other)
		require.NoError(t, err)

		_, err = q.Status(ctx, req.ID(), req.OwnerUserID())
		require.NoError(t, err)
		_, err = q.Status(ctx, other.ID(), req.OwnerUserID())
		require.NoError(t, err)
	})

	t.Run("terminal states are never throttled", func(t *testing.T) {
		_, store, q, req := setup(t, 2*time.Second)

		_, err := q.Status(ctx, req.ID(), req.OwnerUserID())
		require.NoError(t, err)
		_, err = store.Transition(ctx, req.ID(), req.OwnerUserID(), authreq.StateDenied)
		require.NoError(t, err)

		for range 3 {
			view, err := q.Status(ctx, req.ID(), req.OwnerUserID())
			require.NoError(t, err)
			assert.Equal(t, authreq.StateDenied, view.State)
			assert.Zero(t, view.NextPollAfter)
		}
	})

	t.Run("expiry is observed on read", func(t *testing.T) {
		clk, _, q, req := setup(t, 0)
		clk.Set(req.ExpiresAt().Add(time.Millisecond))

		view, err := q.Status(ctx, req.ID(), req.OwnerUserID())
		require.NoError(t, err)
		assert.Equal(t, authreq.StateExpired, view.State)
	})

	t.Run("approved request exposes the result", func(t *testing.T) {
		_, store, q, req := setup(t, 0)
		_, err := store.Transition(ctx, req.ID(), req.OwnerUserID(), authreq.StateApproved)
		require.NoError(t, err)
		_, err = store.Complete(ctx, req.ID(), []byte(`{"order_id":"o"}`))
		require.NoError(t, err)

		view, err := q.Status(ctx, req.ID(), req.OwnerUserID())
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"order_id":"o"}`), view.Result)
	})

	t.Run("refusals", func(t *testing.T) {
		_, _, q, req := setup(t, 0)

		_, err := q.Status(ctx, req.ID(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrForbidden))

		_, err = q.Status(ctx, uuid.New(), req.OwnerUserID())
		assert.True(t, errs.Is(err, errs.ErrAuthorizationNotFound))

		_, err = q.Status(ctx, req.ID(), uuid.Nil)
		assert.True(t, errs.Is(err, errs.ErrUnauthenticated))
	})

	t.Run("store failure", func(t *testing.T) {
		q := queries.NewAuthorizationQueries(brokenStore{}, clock.NewMockClock(baseTime), 0, testPollInterval)
		_, err := q.Status(ctx, uuid.New(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
		assert.False(t, errs.Is(err, errs.ErrPollRejected))
	})

	t.Run("contended record is rejected", func(t *testing.T) {
		q := queries.NewAuthorizationQueries(contendedStore{}, clock.NewMockClock(baseTime), 0, testPollInterval)
		_, err := q.Status(ctx, uuid.New(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrPollRejected))
	})
}

func TestDescribe(t *testing.T) {
	ctx := context.Background()

	t.Run("not throttled and never exposes the result", func(t *testing.T) {
		_, store, q, req := setup(t, time.Hour)
		_, err := store.Transition(ctx, req.ID(), req.OwnerUserID(), authreq.StateApproved)
		require.NoError(t, err)
		_, err = store.Complete(ctx, req.ID(), []byte(`{"order_id":"o"}`))
		require.NoError(t, err)

		for range 2 {
			view, err := q.Describe(ctx, req.ID(), req.OwnerUserID())
			require.NoError(t, err)
			assert.Equal(t, authreq.StateApproved, view.State)
			assert.Equal(t, req.BindingMessage(), view.BindingMessage)
			assert.Nil(t, view.Result)
		}
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		_, _, q, req := setup(t, 0)
		_, err := q.Describe(ctx, req.ID(), uuid.New())
		assert.True(t, errs.Is(err, errs.ErrForbidden))
	})
}
