package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyCart = errors.New("cart has no items")

type Item struct {
	productID ProductID
	quantity  int
	unitPrice Money
}

func NewItem(productID string, quantity int, unitPriceCents int64) (Item, error) {
	pid, err := NewProductID(productID)
	if err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	price, err := NewMoney(unitPriceCents)
	if err != nil {
		return Item{}, err
	}
	return Item{productID: pid, quantity: quantity, unitPrice: price}, nil
}

func (i Item) ProductID() ProductID { return i.productID }
func (i Item) Quantity() int        { return i.quantity }
func (i Item) UnitPrice() Money     { return i.unitPrice }
func (i Item) Subtotal() Money      { return i.unitPrice.Times(i.quantity) }

type Cart struct {
	userID    uuid.UUID
	items     []Item
	updatedAt time.Time
}

// NewCart merges repeated product ids by summing their quantities; the last unit price wins.
func NewCart(userID uuid.UUID, items []Item, now time.Time) *Cart {
	merged := make([]Item, 0, len(items))
	index := make(map[ProductID]int, len(items))
	for _, it := range items {
		if pos, ok := index[it.productID]; ok {
			merged[pos].quantity += it.quantity
			merged[pos].unitPrice = it.unitPrice
			continue
		}
		index[it.productID] = len(merged)
		merged = append(merged, it)
	}
	return &Cart{userID: userID, items: merged, updatedAt: now}
}

func (c *Cart) UserID() uuid.UUID    { return c.userID }
func (c *Cart) UpdatedAt() time.Time { return c.updatedAt }
func (c *Cart) IsEmpty() bool        { return len(c.items) == 0 }

func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Total() Money {
	var total Money
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.items {
		n += it.quantity
	}
	return n
}
