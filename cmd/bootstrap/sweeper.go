package bootstrap

import (
	"context"
	"log/slog"

	"ciba-checkout/internal/infra/sweeper"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/config"
	"ciba-checkout/internal/usecase/shared"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartSweeper),
)

func StartSweeper(lc fx.Lifecycle, cfg config.Config, store shared.AuthorizationRequestStore, clk clock.Clock, logger *slog.Logger) error {
	if !cfg.Sweeper.Enabled {
		return nil
	}

	s, err := sweeper.New(cfg.Sweeper.Schedule, store, clk, cfg.Sweeper.Retention, logger)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			logger.Info("Authorization request sweeper started", "schedule", cfg.Sweeper.Schedule)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
	return nil
}
