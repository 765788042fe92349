package handler

import (
	"net/http"

	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/:storeId/products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/:storeId/products", h.list)
	e.GET("/api/:storeId/products/:productId", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	items, err := h.uc.ListPublicProducts(c.Request().Context(), c.Param("storeId"), usecase.ListProductsInput{
		CategoryID: c.QueryParam("categoryId"),
		ColorID:    c.QueryParam("colorId"),
		IsFeatured: queryBool(c, "isFeatured"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProductDetail(c.Request().Context(), c.Param("storeId"), c.Param("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
