package components

import (
	"ciba-checkout/internal/handler"
	"ciba-checkout/internal/handler/api"
	"ciba-checkout/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCheckoutHandler,
		api.NewApprovalHandler,
		api.NewCartHandler,
		handler.NewHandlers,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
