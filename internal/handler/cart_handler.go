package handler

import (
	"net/http"
	"strconv"

	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// /api/cart, /api/checkout のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
	lg *zap.Logger
}

// DI
func NewCartHandler(uc *usecase.CartUsecase, lg *zap.Logger) *CartHandler {
	return &CartHandler{uc: uc, lg: lg}
}

type AddCartRequest struct {
	ID int64 `json:"id" form:"id" validate:"required,gt=0"`
}

type UpdateCartRequest struct {
	// 0は削除。負数はusecaseで弾く
	Quantity *int64 `json:"quantity" form:"quantity" validate:"required"`
}

// writeMwsはカートを書き換えるルートだけに付ける（ゲストセッション発行など）
// 参照とチェックアウトはセッションが無ければ空のカートとして扱う
func (h *CartHandler) RegisterRoutes(g *echo.Group, writeMws ...echo.MiddlewareFunc) {
	g.GET("/cart", h.getCart)
	g.POST("/cart", h.addToCart, writeMws...)
	g.PUT("/cart/:id", h.updateItem, writeMws...)
	g.POST("/checkout", h.checkout)
}

func shopper(c echo.Context) usecase.Shopper {
	return usecase.Shopper{
		SessionID: middleware.SessionID(c),
		UserID:    middleware.UserID(c),
	}
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.ListEntries(c.Request().Context(), shopper(c))
	if err != nil {
		return writeError(c, h.lg, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.AddOne(c.Request().Context(), shopper(c), req.ID)
	if err != nil {
		return writeError(c, h.lg, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid id")
	}

	var req UpdateCartRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.SetQuantity(c.Request().Context(), shopper(c), productID, *req.Quantity)
	if err != nil {
		return writeError(c, h.lg, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) checkout(c echo.Context) error {
	out, err := h.uc.Checkout(c.Request().Context(), shopper(c))
	if err != nil {
		return writeError(c, h.lg, err)
	}
	return c.JSON(http.StatusOK, out)
}
