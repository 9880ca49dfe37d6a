package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"clinicore/internal/domain/user"
	"clinicore/internal/handler/api"
	"clinicore/internal/handler/middleware"
	"clinicore/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	promotionHandler *api.PromotionHandler,
	appointmentHandler *api.AppointmentHandler,
	clinicianHandler *api.ClinicianHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, promotionHandler, appointmentHandler, clinicianHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	promotionHandler *api.PromotionHandler,
	appointmentHandler *api.AppointmentHandler,
	clinicianHandler *api.ClinicianHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: authHandler.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		promotions := apiGroup.Group("/promotions")
		promotions.Use(authMiddleware.RequireAuth())
		{
			addRoutes(promotions, []route{
				{Method: http.MethodGet, Path: "", Handler: promotionHandler.ListActive},
				{Method: http.MethodPost, Path: "/claim", Handler: promotionHandler.Claim},
				{Method: http.MethodGet, Path: "/:id", Handler: promotionHandler.Get},
				{
					Method:  http.MethodPost,
					Path:    "",
					Handler: promotionHandler.Create,
					Mw:      []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleAdmin)},
				},
				{
					Method:  http.MethodPatch,
					Path:    "/:id/active",
					Handler: promotionHandler.SetActive,
					Mw:      []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleAdmin)},
				},
				{
					Method:  http.MethodPost,
					Path:    "/:id/qr",
					Handler: promotionHandler.IssueCode,
					Mw:      []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleStaff)},
				},
			})
		}

		vouchers := apiGroup.Group("/vouchers")
		vouchers.Use(authMiddleware.RequireAuth())
		{
			addRoutes(vouchers, []route{
				{Method: http.MethodGet, Path: "", Handler: promotionHandler.ListMyVouchers},
			})
		}

		appointments := apiGroup.Group("/appointments")
		appointments.Use(authMiddleware.RequireAuth())
		{
			addRoutes(appointments, []route{
				{Method: http.MethodPost, Path: "", Handler: appointmentHandler.Book},
				{Method: http.MethodGet, Path: "", Handler: appointmentHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: appointmentHandler.Get},
				{Method: http.MethodDelete, Path: "/:id", Handler: appointmentHandler.Cancel},
			})
		}

		clinicians := apiGroup.Group("/clinicians")
		clinicians.Use(authMiddleware.RequireAuth())
		{
			addRoutes(clinicians, []route{
				{Method: http.MethodGet, Path: "/:id/availability", Handler: clinicianHandler.Availability},
			})
		}
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
