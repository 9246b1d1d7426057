package router

import (
	"github.com/labstack/echo/v4"

	"github.com/multipark/backoffice/internal/handler"
	"github.com/multipark/backoffice/internal/middleware"
)

// Handlers bundles everything the router needs to wire the API.
type Handlers struct {
	Auth         *handler.AuthHandler
	Upload       *handler.UploadHandler
	Reservations *handler.ReservationHandler
	Parks        *handler.ParkHandler
	Health       *handler.HealthHandler
}

// RegisterRoutes registers the unauthenticated endpoints: the liveness
// probe and the auth flows under /v1/auth.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/health", h.Health.Check)

	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/refresh-access", h.Auth.RefreshAccess)
	g.POST("/logout", h.Auth.Logout)
}

// RegisterProtected registers everything behind JWT auth under /v1.
// Park sync is restricted to admins; the rest is open to both roles.
func RegisterProtected(e *echo.Echo, h Handlers, jwtSecret string, extra ...echo.MiddlewareFunc) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth([]byte(jwtSecret)))
	auth.Use(middleware.RequireRole("ADMIN", "USER"))
	for _, m := range extra {
		auth.Use(m)
	}

	auth.GET("/me", h.Auth.Me)

	auth.POST("/uploads", h.Upload.Upload)

	auth.GET("/reservations", h.Reservations.List)
	auth.POST("/reservations", h.Reservations.Create)

	auth.GET("/parks", h.Parks.List)
	auth.POST("/parks/sync", h.Parks.Sync, middleware.RequireRole("ADMIN"))
}
