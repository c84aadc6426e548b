package cartstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"ciba-checkout/internal/domain/cart"
	"ciba-checkout/internal/usecase/shared"
	"ciba-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartStore interface {
	shared.CartRepository
	shared.OrderRepository
}

var placedAt = time.Date(2026, 1, 15, 9, 5, 0, 0, time.UTC)

func runCartStoreContract(t *testing.T, newStore func(t *testing.T) cartStore) {
	ctx := context.Background()

	t.Run("missing cart reads as empty", func(t *testing.T) {
		store := newStore(t)
		userID := uuid.New()

		c, err := store.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, c.UserID())
		assert.True(t, c.IsEmpty())
	})

	t.Run("put replaces the cart", func(t *testing.T) {
		store := newStore(t)
		b := builder.NewCartBuilder()
		require.NoError(t, store.Put(ctx, b.BuildDomain(t)))

		replacement := builder.NewCartBuilder().With(func(r *builder.CartBuilder) {
			r.UserID = b.UserID
			r.Items = []builder.CartItem{{ProductID: "sku-tea", Quantity: 4, UnitPriceCents: 300}}
		})
		require.NoError(t, store.Put(ctx, replacement.BuildDomain(t)))

		c, err := store.Get(ctx, b.UserID)
		require.NoError(t, err)
		require.Len(t, c.Items(), 1)
		assert.Equal(t, "sku-tea", c.Items()[0].ProductID().String())
		assert.Equal(t, int64(1200), c.Total().Cents())
	})

	t.Run("placing an order clears the cart once", func(t *testing.T) {
		store := newStore(t)
		b := builder.NewCartBuilder()
		require.NoError(t, store.Put(ctx, b.BuildDomain(t)))

		authReqID := uuid.New()
		first := cart.NewOrder(authReqID, b.BuildSnapshot(t), placedAt)
		stored, replayed, err := store.PlaceOrder(ctx, first)
		require.NoError(t, err)
		assert.False(t, replayed)
		assert.Equal(t, first.ID, stored.ID)

		c, err := store.Get(ctx, b.UserID)
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())

		// the user refilled the cart meanwhile; a replay must not touch it
		require.NoError(t, store.Put(ctx, b.BuildDomain(t)))

		second := cart.NewOrder(authReqID, b.BuildSnapshot(t), placedAt.Add(time.Second))
		stored, replayed, err = store.PlaceOrder(ctx, second)
		require.NoError(t, err)
		assert.True(t, replayed)
		assert.Equal(t, first.ID, stored.ID)
		assert.Equal(t, first.TotalCents, stored.TotalCents)

		c, err = store.Get(ctx, b.UserID)
		require.NoError(t, err)
		assert.False(t, c.IsEmpty())
	})

	t.Run("concurrent placement stores one order", func(t *testing.T) {
		store := newStore(t)
		snap := builder.NewCartBuilder().BuildSnapshot(t)
		authReqID := uuid.New()

		const workers = 8
		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = map[uuid.UUID]int{}
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				stored, _, err := store.PlaceOrder(ctx, cart.NewOrder(authReqID, snap, placedAt))
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				ids[stored.ID]++
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Len(t, ids, 1)
	})
}
