package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Health is the liveness probe for load balancers: a bare 200 "ok".
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// HealthHandler reports on the service's backing stores.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

// Check handles GET /v1/health. MySQL failing makes the service unhealthy
// (503); Redis is optional, so a missing or failing Redis only degrades
// the report.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := h.DB.PingContext(ctx); err != nil {
		dbStatus = "error"
	}

	redisStatus := "disabled"
	if h.Redis != nil {
		redisStatus = "healthy"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			redisStatus = "error"
		}
	}

	status := "healthy"
	code := http.StatusOK
	switch {
	case dbStatus != "healthy":
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	case redisStatus == "error":
		status = "degraded"
	}

	return c.JSON(code, echo.Map{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"stores": echo.Map{
			"mysql": dbStatus,
			"redis": redisStatus,
		},
	})
}
