package request

import (
	"ciba-checkout/internal/usecase/commands"
)

type CartItemRequest struct {
	ProductID      string `json:"product_id" binding:"required,max=100"`
	Quantity       int    `json:"quantity" binding:"required,min=1,max=999"`
	UnitPriceCents int64  `json:"unit_price_cents" binding:"min=0"`
}

type PutCartRequest struct {
	Items []CartItemRequest `json:"items" binding:"dive"`
}

func (r *PutCartRequest) ToInput() []commands.CartItemInput {
	out := make([]commands.CartItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, commands.CartItemInput{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}
	return out
}
