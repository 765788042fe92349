package handler

import (
	"net/http"

	"storeadmin/internal/middleware"
	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CheckoutItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type CheckoutRequest struct {
	Items      []CheckoutItemRequest `json:"items"`
	ProductIDs []string              `json:"productIds"`
	Address    *AddressRequest       `json:"address"`
	AddressID  string                `json:"addressId"`
	Provider   string                `json:"provider"`
}

func (r CheckoutRequest) toInput() usecase.CheckoutInput {
	in := usecase.CheckoutInput{
		ProductIDs: r.ProductIDs,
		AddressID:  r.AddressID,
		Provider:   r.Provider,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, usecase.CheckoutItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if r.Address != nil {
		a := r.Address.toInput()
		in.Address = &a
	}
	return in
}

type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

// OPTIONSはCORSミドルウェアが返す
func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	e.POST("/api/:storeId/checkout", h.checkout, g.Optional)
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Checkout(c.Request().Context(), c.Param("storeId"), middleware.SubjectFrom(c), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
