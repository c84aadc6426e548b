package sweeper

import (
	"context"
	"log/slog"
	"time"

	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = 30 * time.Second

// ExpiredDeleter is implemented by every authorization request store.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Sweeper periodically removes records that expired more than retention ago.
// Readers never depend on it: expiry is applied lazily on every read.
type Sweeper struct {
	cron      *cron.Cron
	store     ExpiredDeleter
	clock     clock.Clock
	retention time.Duration
	logger    *slog.Logger
}

func New(schedule string, store ExpiredDeleter, clk clock.Clock, retention time.Duration, logger *slog.Logger) (*Sweeper, error) {
	s := &Sweeper{
		cron:      cron.New(),
		store:     store,
		clock:     clk,
		retention: retention,
		logger:    logger,
	}
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return nil, errs.Wrap(err, "invalid sweeper schedule")
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop waits for a running sweep to finish or ctx to end.
func (s *Sweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("Authorization request sweep failed", slog.String("error", err.Error()))
	}
}

// Sweep deletes every record whose expiry lies before now minus retention.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.retention)
	n, err := s.store.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Swept expired authorization requests",
			slog.Int64("deleted", n),
			slog.Time("cutoff", cutoff))
	}
	return n, nil
}
