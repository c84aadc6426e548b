package authstore_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/infra"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/usecase/shared"
	"ciba-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

type storeFactory func(t *testing.T, clk *clock.MockClock) shared.AuthorizationRequestStore

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// runStoreContract exercises the behavior every AuthorizationRequestStore must share.
func runStoreContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	setup := func(t *testing.T) (shared.AuthorizationRequestStore, *clock.MockClock, *builder.AuthRequestBuilder) {
		clk := clock.NewMockClock(baseTime)
		b := builder.NewAuthRequestBuilder().With(func(b *builder.AuthRequestBuilder) { b.Now = baseTime })
		return newStore(t, clk), clk, b
	}

	create := func(t *testing.T, store shared.AuthorizationRequestStore, b *builder.AuthRequestBuilder) *authreq.Request {
		t.Helper()
		req := b.MustBuild(t)
		id, err := store.Create(ctx, req)
		require.NoError(t, err)
		require.Equal(t, req.ID(), id)
		return req
	}

	t.Run("create and get", func(t *testing.T) {
		store, _, b := setup(t)
		req := create(t, store, b)

		got, err := store.Get(ctx, req.ID())
		require.NoError(t, err)
		assert.Equal(t, req.ID(), got.ID())
		assert.Equal(t, b.OwnerUserID, got.OwnerUserID())
		assert.Equal(t, b.Payload, got.Payload())
		assert.Equal(t, b.BindingMessage, got.BindingMessage())
		assert.Equal(t, authreq.StatePending, got.State())
		assert.True(t, req.ExpiresAt().Equal(got.ExpiresAt()))
		assert.Nil(t, got.Result())
	})

	t.Run("duplicate id", func(t *testing.T) {
		store, _, b := setup(t)
		req := create(t, store, b)

		_, err := store.Create(ctx, req)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})

	t.Run("unknown id", func(t *testing.T) {
		store, _, b := setup(t)
		id := uuid.New()

		_, err := store.Get(ctx, id)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))

		_, err = store.Transition(ctx, id, b.OwnerUserID, authreq.StateApproved)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))

		_, err = store.Complete(ctx, id, []byte("r"))
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("owner approves once", func(t *testing.T) {
		store, _, b := setup(t)
		req := create(t, store, b)

		view, err := store.Transition(ctx, req.ID(), b.OwnerUserID, authreq.StateApproved)
		require.NoError(t, err)
		assert.Equal(t, authreq.StateApproved, view.State())
		require.NotNil(t, view.DecidedAt())

		view, err = store.Transition(ctx, req.ID(), b.OwnerUserID, authreq.StateApproved)
		require.ErrorIs(t, err, authreq.ErrAlreadyTerminal)
		require.NotNil(t, view)
		assert.Equal(t, authreq.StateApproved, view.State())

		view, err = store.Transition(ctx, req.ID(), b.OwnerUserID, authreq.StateDenied)
		require.ErrorIs(t, err, authreq.ErrAlreadyTerminal)
		assert.Equal(t, authreq.StateApproved, view.State())

		got, err := store.Get(ctx, req.ID())
		require.NoError(t, err)
		assert.Equal(t, authreq.StateApproved, got.State())
	})

	t.Run("non owner cannot decide", func(t *testing.T) {
		store, _, b := setup(t)
		req := create(t, store, b)

		_, err := store.Transition(ctx, req.ID(), uuid.New(), authreq.StateApproved)
		require.ErrorIs(t, err, authreq.ErrOwnerMismatch)

		got, err := store.Get(ctx, req.ID())
		require.NoError(t, err)
		assert.Equal(t, authreq.StatePending, got.State())
	})

	t.Run("expiry is applied lazily and persisted by a late decision", func(t *testing.T) {
		store, clk, b := setup(t)
		req := create(t, store, b)

		clk.Set(req.ExpiresAt().Add(time.Second))
		got, err := store.Get(ctx, req.ID())
		require.NoError(t, err)
		assert.Equal(t, authreq.StateExpired, got.State())

		view, err := store.Transition(ctx, req.ID(), b.OwnerUserID, authreq.StateApproved)
		require.ErrorIs(t, err, authreq.ErrAlreadyTerminal)
		assert.ErrorIs(t, err, authreq.ErrExpired, "the first late transition records the expiry")
		assert.Equal(t, authreq.StateExpired, view.State())

		_, err = store.Transition(ctx, req.ID(), b.OwnerUserID, authreq.StateExpired)
		require.ErrorIs(t, err, authreq.ErrAlreadyTerminal)
		assert.NotErrorIs(t, err, authreq.ErrExpired)

		clk.Set(baseTime)
		got, err = store.Get(ctx, req.ID())
		require.NoError(t, err)
		assert.Equal(t, authreq.StateExpired, got.State())
	})

	t.Run("complete sets the result once", func(t *testing.T) {
		store, _, b := setup(t)
		req := create(t, store, b)

		_, err := store.Complete(ctx, req.ID(), []byte(`{"n":1}`))
		require.ErrorIs(t, err, authreq.ErrNotApproved)

		_, err = store.Transition(ctx, req.ID(), b.OwnerUserID, authreq.StateApproved)
		require.NoError(t, err)

		view, err := store.Complete(ctx, req.ID(), []byte(`{"n":1}`))
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"n":1}`), view.Result())

		view, err = store.Complete(ctx, req.ID(), []byte(`{"n":2}`))
		require.ErrorIs(t, err, authreq.ErrAlreadyCompleted)
		require.NotNil(t, view)
		assert.Equal(t, []byte(`{"n":1}`), view.Result())

		got, err := store.Get(ctx, req.ID())
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"n":1}`), got.Result())
	})

	t.Run("denied request cannot be completed", func(t *testing.T) {
		store, _, b := setup(t)
		req := create(t, store, b)

		_, err := store.Transition(ctx, req.ID(), b.OwnerUserID, authreq.StateDenied)
		require.NoError(t, err)

		_, err = store.Complete(ctx, req.ID(), []byte("r"))
		require.ErrorIs(t, err, authreq.ErrNotApproved)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store, _, b := setup(t)
		req := create(t, store, b)

		require.NoError(t, store.Delete(ctx, req.ID()))
		require.NoError(t, store.Delete(ctx, req.ID()))

		_, err := store.Get(ctx, req.ID())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("delete expired", func(t *testing.T) {
		store, _, b := setup(t)
		short := create(t, store, builder.NewAuthRequestBuilder().With(func(sb *builder.AuthRequestBuilder) {
			sb.Now = baseTime
			sb.TTL = time.Minute
		}))
		long := create(t, store, b.With(func(lb *builder.AuthRequestBuilder) { lb.TTL = time.Hour }))

		removed, err := store.DeleteExpired(ctx, baseTime.Add(10*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		_, err = store.Get(ctx, short.ID())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		_, err = store.Get(ctx, long.ID())
		assert.NoError(t, err)
	})

	t.Run("concurrent approve and deny have exactly one winner", func(t *testing.T) {
		store, _, b := setup(t)
		req := create(t, store, b)

		const workers = 16
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			winners  []authreq.State
			terminal int
		)
		for i := range workers {
			to := authreq.StateApproved
			if i%2 == 1 {
				to = authreq.StateDenied
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Transition(ctx, req.ID(), b.OwnerUserID, to)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					winners = append(winners, to)
				case errors.Is(err, authreq.ErrAlreadyTerminal):
					terminal++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		require.Len(t, winners, 1)
		assert.Equal(t, workers-1, terminal)

		got, err := store.Get(ctx, req.ID())
		require.NoError(t, err)
		assert.Equal(t, winners[0], got.State())
	})

	t.Run("concurrent completion records one result", func(t *testing.T) {
		store, _, b := setup(t)
		req := create(t, store, b)
		_, err := store.Transition(ctx, req.ID(), b.OwnerUserID, authreq.StateApproved)
		require.NoError(t, err)

		const workers = 8
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			results [][]byte
		)
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				view, err := store.Complete(ctx, req.ID(), []byte{byte('a' + i)})
				mu.Lock()
				defer mu.Unlock()
				if err == nil || errors.Is(err, authreq.ErrAlreadyCompleted) {
					results = append(results, view.Result())
					return
				}
				t.Errorf("unexpected error: %v", err)
			}()
		}
		wg.Wait()

		require.Len(t, results, workers)
		for _, r := range results[1:] {
			assert.Equal(t, results[0], r)
		}
	})
}
