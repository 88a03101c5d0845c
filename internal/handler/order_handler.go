package handler

import (
	"net/http"

	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
	lg *zap.Logger
}

func NewOrderHandler(uc *usecase.OrderUsecase, lg *zap.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, lg: lg}
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/orders", h.list, middleware.RequireUser())
}

func (h *OrderHandler) list(c echo.Context) error {
	out, err := h.uc.ListMyOrders(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return writeError(c, h.lg, err)
	}
	return c.JSON(http.StatusOK, out)
}
