package handler

import (
	"net/http"

	"storeadmin/internal/middleware"
	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

type StoreRequest struct {
	Name string `json:"name" validate:"required" label:"Name"`
}

// /api/stores（ダッシュボード）
type StoreHandler struct {
	uc *usecase.StoreUsecase
}

func NewStoreHandler(uc *usecase.StoreUsecase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

func (h *StoreHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	e.POST("/api/stores", h.create, g.Admin)
	e.GET("/api/stores", h.list, g.Admin)
	e.PATCH("/api/stores/:storeId", h.rename, g.Owner...)
	e.DELETE("/api/stores/:storeId", h.delete, g.Owner...)
}

func (h *StoreHandler) create(c echo.Context) error {
	var req StoreRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	s, err := h.uc.Create(c.Request().Context(), middleware.SubjectFrom(c), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *StoreHandler) list(c echo.Context) error {
	list, err := h.uc.List(c.Request().Context(), middleware.SubjectFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *StoreHandler) rename(c echo.Context) error {
	var req StoreRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	s, err := h.uc.Rename(c.Request().Context(), c.Param("storeId"), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *StoreHandler) delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("storeId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
