package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var ErrInvalidSnapshot = errors.New("invalid cart snapshot")

type SnapshotItem struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// Snapshot is the frozen view of a cart that an approver signs off on. It is
// captured when the authorization request is created and never re-read from the cart.
type Snapshot struct {
	UserID     uuid.UUID      `json:"user_id"`
	Items      []SnapshotItem `json:"items"`
	ItemCount  int            `json:"item_count"`
	TotalCents int64          `json:"total_cents"`
}

// NewSnapshot accepts an empty cart; callers decide whether an empty snapshot is acceptable.
func NewSnapshot(c *Cart) Snapshot {
	if c == nil {
		return Snapshot{}
	}

	items := make([]SnapshotItem, 0, len(c.items))
	for _, it := range c.items {
		items = append(items, SnapshotItem{
			ProductID:      it.productID.String(),
			Quantity:       it.quantity,
			UnitPriceCents: it.unitPrice.Cents(),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	return Snapshot{
		UserID:     c.userID,
		Items:      items,
		ItemCount:  c.ItemCount(),
		TotalCents: c.Total().Cents(),
	}
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// BindingMessage is derived only from the snapshot so the approver sees exactly what will be charged.
func (s Snapshot) BindingMessage() string {
	total := Money{cents: s.TotalCents}
	noun := "items"
	if s.ItemCount == 1 {
		noun = "item"
	}
	return fmt.Sprintf("Checkout %d %s for $%s", s.ItemCount, noun, total.String())
}

func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.Join(ErrInvalidSnapshot, err)
	}
	if len(s.Items) == 0 {
		return Snapshot{}, ErrEmptyCart
	}
	return s, nil
}
