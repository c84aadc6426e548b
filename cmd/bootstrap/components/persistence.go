package components

import (
	"fmt"
	"log/slog"

	"ciba-checkout/internal/infra/audit"
	"ciba-checkout/internal/infra/authstore"
	"ciba-checkout/internal/infra/cartstore"
	"ciba-checkout/internal/infra/notify"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/config"
	"ciba-checkout/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewAuthorizationRequestStore,
		fx.Annotate(
			NewCartStore,
			fx.As(new(shared.CartRepository)),
			fx.As(new(shared.OrderRepository)),
		),
		NewApprovalNotifier,
		fx.Annotate(
			audit.NewRecorder,
			fx.As(new(shared.TransitionObserver)),
		),
	),
)

// CartStore is implemented by every cart backend.
type CartStore interface {
	shared.CartRepository
	shared.OrderRepository
}

func NewAuthorizationRequestStore(
	cfg config.Config,
	pool *pgxpool.Pool,
	client *redis.Client,
	clk clock.Clock,
	logger *slog.Logger,
) (shared.AuthorizationRequestStore, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return authstore.NewMemoryStore(clk, logger), nil
	case config.BackendRedis:
		return authstore.NewRedisStore(client, clk, cfg.Sweeper.Retention, logger), nil
	case config.BackendPostgres:
		return authstore.NewPostgresStore(pool, clk, logger), nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
}

func NewCartStore(cfg config.Config, pool *pgxpool.Pool, clk clock.Clock, logger *slog.Logger) (CartStore, error) {
	switch cfg.Store.CartBackend {
	case config.BackendMemory:
		return cartstore.NewMemoryStore(clk), nil
	case config.BackendPostgres:
		return cartstore.NewPostgresStore(pool, clk, logger), nil
	default:
		return nil, fmt.Errorf("unknown STORE_CART_BACKEND %q", cfg.Store.CartBackend)
	}
}

func NewApprovalNotifier(cfg config.Config, client *redis.Client, logger *slog.Logger) (shared.ApprovalNotifier, error) {
	switch cfg.Notifier.Backend {
	case config.BackendLog:
		return notify.NewLogNotifier(logger), nil
	case config.BackendRedis:
		return notify.NewRedisNotifier(client, cfg.Notifier.RedisChannel), nil
	default:
		return nil, fmt.Errorf("unknown NOTIFIER_BACKEND %q", cfg.Notifier.Backend)
	}
}
