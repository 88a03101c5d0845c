package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 疎通確認できるもの（DB、セッションストア）
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status    string `json:"status"`
	Component string `json:"component,omitempty"`
}

type HealthHandler struct {
	checks map[string]Pinger
	lg     *zap.Logger
}

func NewHealthHandler(checks map[string]Pinger, lg *zap.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, lg: lg}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.health)
}

func (h *HealthHandler) health(c echo.Context) error {
	for name, p := range h.checks {
		if err := p.Ping(c.Request().Context()); err != nil {
			h.lg.Warn("health check failed", zap.String("component", name), zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Component: name})
		}
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}
