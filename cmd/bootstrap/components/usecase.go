package components

import (
	"log/slog"

	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/config"
	"ciba-checkout/internal/pkg/metrics"
	"ciba-checkout/internal/usecase/commands"
	"ciba-checkout/internal/usecase/poller"
	"ciba-checkout/internal/usecase/queries"
	"ciba-checkout/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		// Queries
		NewAuthorizationQueries,
		queries.NewCartQueries,
		// Commands
		NewInitiator,
		commands.NewApprovalUseCase,
		commands.NewCheckoutApplier,
		commands.NewCompletionUseCase,
		commands.NewExpiryUseCase,
		commands.NewPollUseCase,
		commands.NewCartUseCase,
		NewCompletionPoller,
		NewCheckoutUseCase,
	),
)

func NewAuthorizationQueries(store shared.AuthorizationRequestStore, clk clock.Clock, cfg config.Config) queries.AuthorizationQueries {
	return queries.NewAuthorizationQueries(store, clk, cfg.Authorization.MinPollInterval, cfg.Poller.Interval)
}

func NewInitiator(
	store shared.AuthorizationRequestStore,
	notifier shared.ApprovalNotifier,
	observer shared.TransitionObserver,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) commands.Initiator {
	return commands.NewInitiator(store, notifier, observer, clk, cfg.Authorization.TTL, cfg.Poller.Interval, logger)
}

func NewCompletionPoller(
	cfg config.Config,
	status queries.AuthorizationQueries,
	completion commands.CompletionCommands,
	expiry commands.ExpiryCommands,
	store shared.AuthorizationRequestStore,
	m *metrics.Metrics,
	logger *slog.Logger,
) *poller.CompletionPoller {
	return poller.New(
		poller.NewConfig(cfg.Poller),
		status,
		commands.PollerCompletion(completion),
		commands.PollerExpiry(expiry),
		store,
		m,
		logger,
	)
}

func NewCheckoutUseCase(
	carts shared.CartRepository,
	initiator commands.Initiator,
	p *poller.CompletionPoller,
	cfg config.Config,
	logger *slog.Logger,
) commands.CheckoutCommands {
	return commands.NewCheckoutUseCase(carts, initiator, p, cfg.Poller.HardTimeout, logger)
}
