package authtest

import (
	"testing"
	"time"

	"ciba-checkout/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	secret string
}

func NewJWTHelper(secret string) *JWTHelper {
	return &JWTHelper{secret: secret}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewService(h.secret, time.Hour).GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewService(h.secret, -time.Minute).GenerateToken(userID)
	require.NoError(t, err)
	return token
}
