package builder

import (
	"testing"
	"time"

	"ciba-checkout/internal/domain/authreq"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type AuthRequestBuilder struct {
	OwnerUserID    uuid.UUID
	Payload        []byte
	BindingMessage string
	Now            time.Time
	TTL            time.Duration
}

func NewAuthRequestBuilder() *AuthRequestBuilder {
	return &AuthRequestBuilder{
		OwnerUserID:    uuid.New(),
		Payload:        []byte(`{"items":[{"product_id":"sku-coffee","quantity":1,"unit_price_cents":450}]}`),
		BindingMessage: "Checkout 1 item for $4.50",
		Now:            time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
		TTL:            5 * time.Minute,
	}
}

func (b *AuthRequestBuilder) With(mutate func(*AuthRequestBuilder)) *AuthRequestBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *AuthRequestBuilder) BuildDomain() (*authreq.Request, error) {
	return authreq.NewRequest(b.OwnerUserID, b.Payload, b.BindingMessage, b.Now, b.TTL)
}

func (b *AuthRequestBuilder) MustBuild(t *testing.T) *authreq.Request {
	t.Helper()
	req, err := b.BuildDomain()
	require.NoError(t, err)
	return req
}
