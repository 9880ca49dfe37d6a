package components

import (
	"clinicore/internal/handler"
	"clinicore/internal/handler/api"
	"clinicore/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewPromotionHandler,
		api.NewAppointmentHandler,
		api.NewClinicianHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
