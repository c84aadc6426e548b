package builder

import (
	"testing"
	"time"

	"ciba-checkout/internal/domain/cart"
	reqdto "ciba-checkout/internal/handler/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type CartItem struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int64
}

type CartBuilder struct {
	UserID    uuid.UUID
	Items     []CartItem
	UpdatedAt time.Time
}

func NewCartBuilder() *CartBuilder {
	return &CartBuilder{
		UserID: uuid.New(),
		Items: []CartItem{
			{ProductID: "sku-coffee", Quantity: 2, UnitPriceCents: 450},
			{ProductID: "sku-bagel", Quantity: 1, UnitPriceCents: 325},
		},
		UpdatedAt: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func (b *CartBuilder) With(mutate func(*CartBuilder)) *CartBuilder {
	mutate(b)
	return b
}

func (b *CartBuilder) Empty() *CartBuilder {
	b.Items = nil
	return b
}

// Build methods
func (b *CartBuilder) BuildDomain(t *testing.T) *cart.Cart {
	t.Helper()
	items := make([]cart.Item, 0, len(b.Items))
	for _, it := range b.Items {
		item, err := cart.NewItem(it.ProductID, it.Quantity, it.UnitPriceCents)
		require.NoError(t, err)
		items = append(items, item)
	}
	return cart.NewCart(b.UserID, items, b.UpdatedAt)
}

func (b *CartBuilder) BuildSnapshot(t *testing.T) cart.Snapshot {
	t.Helper()
	return cart.NewSnapshot(b.BuildDomain(t))
}

func (b *CartBuilder) BuildPayload(t *testing.T) []byte {
	t.Helper()
	body, err := b.BuildSnapshot(t).Marshal()
	require.NoError(t, err)
	return body
}

func (b *CartBuilder) BuildPutRequest() reqdto.PutCartRequest {
	req := reqdto.PutCartRequest{Items: make([]reqdto.CartItemRequest, 0, len(b.Items))}
	for _, it := range b.Items {
		req.Items = append(req.Items, reqdto.CartItemRequest{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}
	return req
}
