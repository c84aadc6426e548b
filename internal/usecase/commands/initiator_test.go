package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/domain/cart"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/commands"
	"ciba-checkout/internal/usecase/shared"
	"ciba-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCreateStore struct {
	shared.AuthorizationRequestStore
	err error
}

func (s failingCreateStore) Create(context.Context, *authreq.Request) (uuid.UUID, error) {
	return uuid.Nil, s.err
}

func newInitiator(f *fixture, store shared.AuthorizationRequestStore) commands.Initiator {
	return commands.NewInitiator(store, f.notifier, f.observer, f.clock, 5*time.Minute, 5*time.Second, discardLogger())
}

func TestInitiate(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a pending request and notifies the approver", func(t *testing.T) {
		f := newFixture()
		b := builder.NewCartBuilder()
		snap := b.BuildSnapshot(t)

		res, err := newInitiator(f, f.store).Initiate(ctx, b.UserID, snap)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, res.RequestID)
		assert.Equal(t, "Checkout 3 items for $12.25", res.BindingMessage)
		assert.Equal(t, baseTime.Add(5*time.Minute), res.ExpiresAt)
		assert.Equal(t, 5*time.Second, res.Interval)

		stored, err := f.store.Get(ctx, res.RequestID)
		require.NoError(t, err)
		assert.Equal(t, authreq.StatePending, stored.State())
		assert.True(t, stored.IsOwnedBy(b.UserID))
		frozen, err := cart.UnmarshalSnapshot(stored.Payload())
		require.NoError(t, err)
		assert.Equal(t, snap.TotalCents, frozen.TotalCents)

		require.Len(t, f.notifier.events, 1)
		assert.Equal(t, res.RequestID, f.notifier.events[0].RequestID)
		assert.Equal(t, res.BindingMessage, f.notifier.events[0].BindingMessage)

		transitions := f.observer.all()
		require.Len(t, transitions, 1)
		assert.Equal(t, shared.ChannelInitiator, transitions[0].Channel)
		assert.Equal(t, "pending", transitions[0].To)
	})

	t.Run("every call creates a distinct request", func(t *testing.T) {
		f := newFixture()
		b := builder.NewCartBuilder()
		initiator := newInitiator(f, f.store)

		first, err := initiator.Initiate(ctx, b.UserID, b.BuildSnapshot(t))
		require.NoError(t, err)
		second, err := initiator.Initiate(ctx, b.UserID, b.BuildSnapshot(t))
		require.NoError(t, err)
		assert.NotEqual(t, first.RequestID, second.RequestID)
	})

	t.Run("empty payload", func(t *testing.T) {
		f := newFixture()
		b := builder.NewCartBuilder().Empty()

		_, err := newInitiator(f, f.store).Initiate(ctx, b.UserID, b.BuildSnapshot(t))
		assert.True(t, errs.Is(err, errs.ErrEmptyPayload))

		_, err = newInitiator(f, f.store).Initiate(ctx, b.UserID, nil)
		assert.True(t, errs.Is(err, errs.ErrEmptyPayload))
		assert.Empty(t, f.notifier.events)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture()
		_, err := newInitiator(f, f.store).Initiate(ctx, uuid.Nil, builder.NewCartBuilder().BuildSnapshot(t))
		assert.True(t, errs.Is(err, errs.ErrUnauthenticated))
	})

	t.Run("notification failure does not fail the request", func(t *testing.T) {
		f := newFixture()
		f.notifier.err = errors.New("push provider down")
		b := builder.NewCartBuilder()

		res, err := newInitiator(f, f.store).Initiate(ctx, b.UserID, b.BuildSnapshot(t))
		require.NoError(t, err)
		_, err = f.store.Get(ctx, res.RequestID)
		assert.NoError(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture()
		b := builder.NewCartBuilder()

		_, err := newInitiator(f, failingCreateStore{err: errors.New("disk full")}).Initiate(ctx, b.UserID, b.BuildSnapshot(t))
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
		assert.Empty(t, f.notifier.events)
	})
}
