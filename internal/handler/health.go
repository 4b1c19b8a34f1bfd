package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness plus the state of the database and Redis.
// Redis is optional, so only a database failure turns the check red.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

// Health is used by load balancers and monitoring.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{}
	if h.DB != nil {
		checks["database"] = "ok"
		if err := h.DB.PingContext(ctx); err != nil {
			checks["database"] = "down"
			status = http.StatusServiceUnavailable
		}
	}
	if h.Redis != nil {
		checks["redis"] = "ok"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "degraded"
		}
	}
	return c.JSON(status, envelope{Success: status == http.StatusOK, Data: echo.Map{"status": http.StatusText(status), "checks": checks}})
}
