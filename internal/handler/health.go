package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness plus the state of the backing stores.
// Redis is optional; a nil client is reported as "disabled".
type HealthHandler struct {
	DB    Pinger
	Redis *redis.Client
}

func NewHealthHandler(db Pinger, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	status, code := "ok", http.StatusOK
	database := "up"
	if err := h.DB.PingContext(ctx); err != nil {
		database = "down"
		status, code = "degraded", http.StatusServiceUnavailable
	}

	cache := "disabled"
	if h.Redis != nil {
		cache = "up"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			cache = "down"
		}
	}
	return c.JSON(code, echo.Map{"status": status, "database": database, "redis": cache})
}
