//go:build e2e

package e2e

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"ciba-checkout/cmd/bootstrap"
	"ciba-checkout/cmd/bootstrap/components"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/config"
	"ciba-checkout/tests/common/authtest"
	"ciba-checkout/tests/common/dbtest"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
)

// setupE2EEnvironment boots the application against a fresh postgres database.
func setupE2EEnvironment(t *testing.T) (*pgxpool.Pool, *gin.Engine, config.Config) {
	gin.SetMode(gin.TestMode)

	cfg := createTestConfig(dbtest.NewDatabase(t))
	router, pool, app := buildE2EApp(t, cfg)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("Failed to stop fx app", "error", err.Error())
		}
	})

	return pool, router, cfg
}

// buildE2EApp wires the real modules. The pool comes from DBModule, which
// also applies the migrations.
func buildE2EApp(t *testing.T, cfg config.Config) (*gin.Engine, *pgxpool.Pool, *fx.App) {
	t.Helper()

	var (
		router *gin.Engine
		pool   *pgxpool.Pool
	)

	app := fx.New(
		fx.Provide(func() config.Config { return cfg }),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		fx.Provide(clock.NewRealClock),
		bootstrap.LoggerModule,
		bootstrap.MetricsModule,
		bootstrap.DBModule,
		bootstrap.RedisModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,

		fx.Populate(&router, &pool),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start fx app")
	require.NotNil(t, router)
	require.NotNil(t, pool)

	return router, pool, app
}

func createTestConfig(dbConfig config.DBConfig) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbConfig
	cfg.Store.Backend = config.BackendPostgres
	cfg.Store.CartBackend = config.BackendPostgres
	// the hard timeout bounds the stream, not the attempt count
	cfg.Poller.MaxAttempts = 1000
	return cfg
}

// SharedSuite is embedded by every e2e suite.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
	JWT    *authtest.JWTHelper
}

func (s *SharedSuite) SetupSuite() {
	db, router, cfg := setupE2EEnvironment(s.T())
	s.DB = db
	s.Router = router
	s.Config = cfg
	s.JWT = authtest.NewJWTHelper(cfg.JWT.Secret)
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "Failed to reset database state")
}
