package components

import (
	"giftcard-fulfillment/internal/handler"
	"giftcard-fulfillment/internal/handler/api"
	"giftcard-fulfillment/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewWebhookHandler,
		api.NewAuthHandler,
		api.NewPoolHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
