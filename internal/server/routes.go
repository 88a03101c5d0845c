package server

import (
	"shop/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Pages    *handler.Pages
	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Orders   *handler.OrderHandler
	Health   *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, cartWriteMws ...echo.MiddlewareFunc) {
	h.Health.RegisterRoutes(e)
	h.Pages.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e)

	api := e.Group("/api")
	h.Products.RegisterRoutes(api)
	h.Cart.RegisterRoutes(api, cartWriteMws...)
	h.Orders.RegisterRoutes(api)
}
