package commands

import (
	"context"

	"ciba-checkout/internal/domain/cart"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/queries"
	"ciba-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

type CartItemInput struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int64
}

type CartCommands interface {
	ReplaceCart(ctx context.Context, userID uuid.UUID, items []CartItemInput) (*queries.CartView, error)
}

type cartUseCaseImpl struct {
	carts shared.CartRepository
	clock clock.Clock
}

func NewCartUseCase(carts shared.CartRepository, clk clock.Clock) CartCommands {
	return &cartUseCaseImpl{carts: carts, clock: clk}
}

func (uc *cartUseCaseImpl) ReplaceCart(ctx context.Context, userID uuid.UUID, items []CartItemInput) (*queries.CartView, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}

	domainItems := make([]cart.Item, 0, len(items))
	for _, in := range items {
		it, err := cart.NewItem(in.ProductID, in.Quantity, in.UnitPriceCents)
		if err != nil {
			return nil, err
		}
		domainItems = append(domainItems, it)
	}

	c := cart.NewCart(userID, domainItems, uc.clock.Now())
	if err := uc.carts.Put(ctx, c); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return queries.ToCartView(c), nil
}
