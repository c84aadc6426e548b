package commands

import (
	"context"
	"encoding/json"

	"ciba-checkout/internal/domain/cart"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrPayloadOwnerMismatch = errs.New("checkout payload belongs to another user")

// Receipt is the result recorded for an approved checkout.
type Receipt struct {
	OrderID    uuid.UUID           `json:"order_id"`
	AuthReqID  uuid.UUID           `json:"auth_req_id"`
	Items      []cart.SnapshotItem `json:"items"`
	ItemCount  int                 `json:"item_count"`
	TotalCents int64               `json:"total_cents"`
	Total      string              `json:"total"`
}

type checkoutApplier struct {
	orders shared.OrderRepository
	clock  clock.Clock
}

// NewCheckoutApplier places an order from the cart snapshot frozen in the payload.
func NewCheckoutApplier(orders shared.OrderRepository, clk clock.Clock) shared.ActionApplier {
	return &checkoutApplier{orders: orders, clock: clk}
}

func (a *checkoutApplier) ApplyApprovedAction(ctx context.Context, authReqID, ownerUserID uuid.UUID, payload []byte) ([]byte, error) {
	snap, err := cart.UnmarshalSnapshot(payload)
	if err != nil {
		return nil, err
	}
	if snap.UserID != ownerUserID {
		return nil, ErrPayloadOwnerMismatch
	}

	order, _, err := a.orders.PlaceOrder(ctx, cart.NewOrder(authReqID, snap, a.clock.Now()))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	total, _ := cart.NewMoney(order.TotalCents)
	return json.Marshal(Receipt{
		OrderID:    order.ID,
		AuthReqID:  order.AuthorizationRequestID,
		Items:      order.Items,
		ItemCount:  order.ItemCount,
		TotalCents: order.TotalCents,
		Total:      total.String(),
	})
}
