package cart

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyProductID  = errors.New("product id cannot be empty")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrNegativePrice   = errors.New("price cannot be negative")
)

type ProductID string

func NewProductID(value string) (ProductID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrEmptyProductID
	}
	return ProductID(value), nil
}

func (p ProductID) String() string {
	return string(p)
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) Times(n int) Money {
	return Money{cents: m.cents * int64(n)}
}

// String renders the amount with exactly two decimals, e.g. "12.50".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
