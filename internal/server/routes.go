package server

import (
	"net/http"

	"storeadmin/internal/handler"

	"github.com/labstack/echo/v4"
)

// 各handlerのルートをまとめる
type Handlers struct {
	Store        *handler.StoreHandler
	Category     *handler.CategoryHandler
	Color        *handler.ColorHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Customer     *handler.CustomerHandler
	Checkout     *handler.CheckoutHandler
	Payment      *handler.PaymentHandler
	AdminOrder   *handler.AdminOrderHandler
}

type healthResponse struct {
	Status string `json:"status"`
}

func RegisterRoutes(e *echo.Echo, g handler.Guards, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
	})

	h.Store.RegisterRoutes(e, g)
	h.Category.RegisterRoutes(e, g)
	h.Color.RegisterRoutes(e, g)
	h.Product.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, g)
	h.Customer.RegisterRoutes(e, g)
	h.Checkout.RegisterRoutes(e, g)
	h.Payment.RegisterRoutes(e)
	h.AdminOrder.RegisterRoutes(e, g)
}
