package queries

import (
	"context"

	"ciba-checkout/internal/domain/cart"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

type CartItemView struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int64
	SubtotalCents  int64
}

type CartView struct {
	UserID     uuid.UUID
	Items      []CartItemView
	ItemCount  int
	TotalCents int64
	Total      string
}

type CartQueries interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type cartQueriesImpl struct {
	carts shared.CartRepository
}

func NewCartQueries(carts shared.CartRepository) CartQueries {
	return &cartQueriesImpl{carts: carts}
}

func (q *cartQueriesImpl) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}
	c, err := q.carts.Get(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return ToCartView(c), nil
}

func ToCartView(c *cart.Cart) *CartView {
	items := c.Items()
	view := &CartView{
		UserID:     c.UserID(),
		Items:      make([]CartItemView, 0, len(items)),
		ItemCount:  c.ItemCount(),
		TotalCents: c.Total().Cents(),
		Total:      c.Total().String(),
	}
	for _, it := range items {
		view.Items = append(view.Items, CartItemView{
			ProductID:      it.ProductID().String(),
			Quantity:       it.Quantity(),
			UnitPriceCents: it.UnitPrice().Cents(),
			SubtotalCents:  it.Subtotal().Cents(),
		})
	}
	return view
}
