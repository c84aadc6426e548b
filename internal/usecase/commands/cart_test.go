package commands_test

import (
	"context"
	"testing"

	"ciba-checkout/internal/domain/cart"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceCart(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces and prices the cart", func(t *testing.T) {
		f := newFixture()
		uc := commands.NewCartUseCase(f.carts, f.clock)
		userID := uuid.New()

		view, err := uc.ReplaceCart(ctx, userID, []commands.CartItemInput{
			{ProductID: "sku-a", Quantity: 2, UnitPriceCents: 199},
			{ProductID: "sku-b", Quantity: 1, UnitPriceCents: 1000},
			{ProductID: "sku-a", Quantity: 1, UnitPriceCents: 199},
		})
		require.NoError(t, err)
		assert.Len(t, view.Items, 2)
		assert.Equal(t, 4, view.ItemCount)
		assert.Equal(t, int64(1597), view.TotalCents)
		assert.Equal(t, "15.97", view.Total)

		stored, err := f.carts.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 4, stored.ItemCount())
	})

	t.Run("emptying the cart", func(t *testing.T) {
		f := newFixture()
		view, err := commands.NewCartUseCase(f.carts, f.clock).ReplaceCart(ctx, uuid.New(), nil)
		require.NoError(t, err)
		assert.Zero(t, view.ItemCount)
		assert.Equal(t, "0.00", view.Total)
	})

	t.Run("invalid item", func(t *testing.T) {
		f := newFixture()
		_, err := commands.NewCartUseCase(f.carts, f.clock).ReplaceCart(ctx, uuid.New(), []commands.CartItemInput{
			{ProductID: "sku-a", Quantity: 0, UnitPriceCents: 100},
		})
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture()
		_, err := commands.NewCartUseCase(f.carts, f.clock).ReplaceCart(ctx, uuid.Nil, nil)
		assert.True(t, errs.Is(err, errs.ErrUnauthenticated))
	})
}
