package handler

import (
	"net/http"

	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CategoryRequest struct {
	Name string `json:"name" validate:"required" label:"Name"`
}

type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	//公開
	e.GET("/api/:storeId/categories", h.list)
	e.GET("/api/:storeId/categories/:categoryId", h.get)

	//オーナー
	e.POST("/api/:storeId/categories", h.create, g.Owner...)
	e.PATCH("/api/:storeId/categories/:categoryId", h.update, g.Owner...)
	e.DELETE("/api/:storeId/categories/:categoryId", h.delete, g.Owner...)
}

func (h *CategoryHandler) list(c echo.Context) error {
	list, err := h.uc.List(c.Request().Context(), c.Param("storeId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CategoryHandler) get(c echo.Context) error {
	cat, err := h.uc.Get(c.Request().Context(), c.Param("storeId"), c.Param("categoryId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) create(c echo.Context) error {
	var req CategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	cat, err := h.uc.Create(c.Request().Context(), c.Param("storeId"), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) update(c echo.Context) error {
	var req CategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	cat, err := h.uc.Update(c.Request().Context(), c.Param("storeId"), c.Param("categoryId"), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("storeId"), c.Param("categoryId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
