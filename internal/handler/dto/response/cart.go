package response

import (
	"ciba-checkout/internal/usecase/queries"
)

type CartItemResponse struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	ItemCount  int                `json:"item_count"`
	TotalCents int64              `json:"total_cents"`
	Total      string             `json:"total"`
}

func FromCartView(v *queries.CartView) *CartResponse {
	items := make([]CartItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, CartItemResponse{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			SubtotalCents:  it.SubtotalCents,
		})
	}
	return &CartResponse{
		Items:      items,
		ItemCount:  v.ItemCount,
		TotalCents: v.TotalCents,
		Total:      v.Total,
	}
}
