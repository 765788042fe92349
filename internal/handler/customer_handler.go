package handler

import (
	"net/http"

	"storeadmin/internal/middleware"
	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 住所の入力（checkoutと共通）
type AddressRequest struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	HouseFlat  string `json:"houseFlat"`
	Locality   string `json:"locality"`
	AreaStreet string `json:"areaStreet"`
	Landmark   string `json:"landmark"`
	City       string `json:"city"`
	IsDefault  bool   `json:"isDefault"`
}

func (r AddressRequest) toInput() usecase.AddressInput {
	return usecase.AddressInput{
		FullName:   r.FullName,
		Email:      r.Email,
		Mobile:     r.Mobile,
		HouseFlat:  r.HouseFlat,
		Locality:   r.Locality,
		AreaStreet: r.AreaStreet,
		Landmark:   r.Landmark,
		City:       r.City,
		IsDefault:  r.IsDefault,
	}
}

// ストアフロントの顧客（ログイン必須）
type CustomerHandler struct {
	uc *usecase.CustomerUsecase
}

func NewCustomerHandler(uc *usecase.CustomerUsecase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

func (h *CustomerHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	e.GET("/api/:storeId/customer", h.profile, g.Customer)
	e.POST("/api/:storeId/customer", h.addAddress, g.Customer)
	e.DELETE("/api/:storeId/customer/addresses/:addressId", h.deleteAddress, g.Customer)
	e.PUT("/api/:storeId/customer/addresses/:addressId", h.setDefault, g.Customer)
	e.GET("/api/:storeId/customer-orders", h.orders, g.Customer)
}

func (h *CustomerHandler) profile(c echo.Context) error {
	cust, err := h.uc.GetProfile(c.Request().Context(), middleware.SubjectFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) addAddress(c echo.Context) error {
	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	a, err := h.uc.AddAddress(c.Request().Context(), middleware.SubjectFrom(c), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

type deleteAddressResponse struct {
	Success bool `json:"success"`
}

func (h *CustomerHandler) deleteAddress(c echo.Context) error {
	if err := h.uc.DeleteAddress(c.Request().Context(), middleware.SubjectFrom(c), c.Param("addressId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, deleteAddressResponse{Success: true})
}

func (h *CustomerHandler) setDefault(c echo.Context) error {
	a, err := h.uc.SetDefaultAddress(c.Request().Context(), middleware.SubjectFrom(c), c.Param("addressId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *CustomerHandler) orders(c echo.Context) error {
	list, err := h.uc.ListOrders(c.Request().Context(), c.Param("storeId"), middleware.SubjectFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
