package cart

import (
	"time"

	"github.com/google/uuid"
)

// Order is the effect of an approved checkout. AuthorizationRequestID is unique
// across orders, which makes placing an order idempotent per authorization request.
type Order struct {
	ID                     uuid.UUID      `json:"order_id"`
	AuthorizationRequestID uuid.UUID      `json:"auth_req_id"`
	UserID                 uuid.UUID      `json:"user_id"`
	Items                  []SnapshotItem `json:"items"`
	ItemCount              int            `json:"item_count"`
	TotalCents             int64          `json:"total_cents"`
	PlacedAt               time.Time      `json:"placed_at"`
}

func NewOrder(authReqID uuid.UUID, snap Snapshot, now time.Time) *Order {
	items := make([]SnapshotItem, len(snap.Items))
	copy(items, snap.Items)
	return &Order{
		ID:                     uuid.New(),
		AuthorizationRequestID: authReqID,
		UserID:                 snap.UserID,
		Items:                  items,
		ItemCount:              snap.ItemCount,
		TotalCents:             snap.TotalCents,
		PlacedAt:               now,
	}
}
