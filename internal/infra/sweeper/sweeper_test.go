package sweeper_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"ciba-checkout/internal/infra/authstore"
	"ciba-checkout/internal/infra/sweeper"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

type failingDeleter struct{}

func (failingDeleter) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, errors.New("store offline")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(baseTime)
	store := authstore.NewMemoryStore(clk, discardLogger())

	req := builder.NewAuthRequestBuilder().With(func(b *builder.AuthRequestBuilder) {
		b.Now = baseTime
		b.TTL = 5 * time.Minute
	}).MustBuild(t)
	_, err := store.Create(ctx, req)
	require.NoError(t, err)

	s, err := sweeper.New("@every 1m", store, clk, 10*time.Minute, discardLogger())
	require.NoError(t, err)

	t.Run("expired but within retention is kept", func(t *testing.T) {
		clk.Set(baseTime.Add(10 * time.Minute))
		n, err := s.Sweep(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		got, err := store.Get(ctx, req.ID())
		require.NoError(t, err)
		assert.Equal(t, "expired", got.State().String())
	})

	t.Run("past retention is removed", func(t *testing.T) {
		clk.Set(baseTime.Add(16 * time.Minute))
		n, err := s.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestNew(t *testing.T) {
	_, err := sweeper.New("not a schedule", failingDeleter{}, clock.NewRealClock(), time.Minute, discardLogger())
	require.Error(t, err)

	s, err := sweeper.New("@every 1h", failingDeleter{}, clock.NewRealClock(), time.Minute, discardLogger())
	require.NoError(t, err)

	_, err = s.Sweep(context.Background())
	require.Error(t, err)

	s.Start()
	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(stopCtx))
}
