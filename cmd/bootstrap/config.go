package bootstrap

import (
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		clock.NewRealClock,
	),
)
