package handler

import (
	"net/http"

	"storeadmin/internal/middleware"
	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 商品の作成・更新。priceは数値でも文字列でもよい
type ProductRequest struct {
	Name        string          `json:"name" validate:"required" label:"Name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	CategoryID  string          `json:"categoryId" validate:"required" label:"Category id"`
	ColorID     string          `json:"colorId" validate:"required" label:"Color id"`
	IsFeatured  bool            `json:"isFeatured"`
	IsArchived  bool            `json:"isArchived"`
}

func (r ProductRequest) toInput() usecase.AdminProductInput {
	return usecase.AdminProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
		ColorID:     r.ColorID,
		IsFeatured:  r.IsFeatured,
		IsArchived:  r.IsArchived,
	}
}

// InventoryUpdateRequest は在庫更新の入力です。
type InventoryUpdateRequest struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

// 商品管理と在庫をまとめる
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	//公開ルートと同じprefixなのでGroup.Useではなくルートごとに付ける
	admin := e.Group("/api/:storeId")

	admin.GET("/admin/products", h.list, g.Owner...)
	admin.POST("/products", h.createProduct, g.Owner...)
	admin.PATCH("/products/:productId", h.updateProduct, g.Owner...)
	admin.DELETE("/products/:productId", h.deleteProduct, g.Owner...)
	admin.PUT("/inventory/:productId", h.updateInventory, g.Owner...)
}

func (h *AdminProductHandler) list(c echo.Context) error {
	items, err := h.uc.AdminListProducts(c.Request().Context(), c.Param("storeId"), usecase.AdminListProductsInput{
		CategoryID: c.QueryParam("categoryId"),
		ColorID:    c.QueryParam("colorId"),
		IsArchived: queryBool(c, "isArchived"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req ProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	p, err := h.uc.AdminCreateProduct(c.Request().Context(), c.Param("storeId"), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	var req ProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	p, err := h.uc.AdminUpdateProduct(c.Request().Context(), c.Param("storeId"), c.Param("productId"), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	if err := h.uc.AdminDeleteProduct(c.Request().Context(), c.Param("storeId"), c.Param("productId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminProductHandler) updateInventory(c echo.Context) error {
	var req InventoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//操作したオーナー（監査ログ用）
	actor := middleware.SubjectFrom(c)

	if err := h.uc.AdminUpdateInventory(
		c.Request().Context(),
		actor,
		c.Param("storeId"),
		c.Param("productId"),
		req.Stock,
		req.Reason,
	); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}
