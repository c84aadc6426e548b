package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ciba-checkout/internal/handler/api"
	"ciba-checkout/internal/handler/middleware"
	"ciba-checkout/internal/pkg/config"
	"ciba-checkout/internal/pkg/metrics"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Checkout *api.CheckoutHandler
	Approval *api.ApprovalHandler
	Cart     *api.CartHandler
}

func NewHandlers(checkout *api.CheckoutHandler, approval *api.ApprovalHandler, cart *api.CartHandler) Handlers {
	return Handlers{Checkout: checkout, Approval: approval, Cart: cart}
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *middleware.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg, logger, m)
	setupRoutes(engine, gatherer, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, m *metrics.Metrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.MetricsMiddleware(m))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, gatherer prometheus.Gatherer, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		addRoutes(apiGroup.Group("/cart"), []route{
			{Method: http.MethodGet, Path: "", Handler: h.Cart.GetCart},
			{Method: http.MethodPut, Path: "", Handler: h.Cart.PutCart},
		})

		addRoutes(apiGroup.Group("/checkout"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Checkout.StartCheckout},
			{Method: http.MethodPost, Path: "/authorizations", Handler: h.Checkout.CreateAuthorization},
			{Method: http.MethodGet, Path: "/authorizations/:id", Handler: h.Checkout.GetAuthorizationStatus},
		})

		noStore := []gin.HandlerFunc{middleware.NoStore()}
		addRoutes(apiGroup.Group("/approvals"), []route{
			{Method: http.MethodGet, Path: "/:id", Handler: h.Approval.GetApproval, Mw: noStore},
			{Method: http.MethodPost, Path: "/:id", Handler: h.Approval.Decide, Mw: noStore},
			{Method: http.MethodPost, Path: "/:id/popup", Handler: h.Approval.DecidePopup, Mw: noStore},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
