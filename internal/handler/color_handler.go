package handler

import (
	"net/http"

	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ColorRequest struct {
	Name  string `json:"name" validate:"required" label:"Name"`
	Value string `json:"value" validate:"required" label:"Value"`
}

type ColorHandler struct {
	uc *usecase.ColorUsecase
}

func NewColorHandler(uc *usecase.ColorUsecase) *ColorHandler {
	return &ColorHandler{uc: uc}
}

func (h *ColorHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	//公開
	e.GET("/api/:storeId/colors", h.list)
	e.GET("/api/:storeId/colors/:colorId", h.get)

	//オーナー
	e.POST("/api/:storeId/colors", h.create, g.Owner...)
	e.PATCH("/api/:storeId/colors/:colorId", h.update, g.Owner...)
	e.DELETE("/api/:storeId/colors/:colorId", h.delete, g.Owner...)
}

func (h *ColorHandler) list(c echo.Context) error {
	list, err := h.uc.List(c.Request().Context(), c.Param("storeId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ColorHandler) get(c echo.Context) error {
	col, err := h.uc.Get(c.Request().Context(), c.Param("storeId"), c.Param("colorId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, col)
}

func (h *ColorHandler) create(c echo.Context) error {
	var req ColorRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	col, err := h.uc.Create(c.Request().Context(), c.Param("storeId"), usecase.ColorInput{Name: req.Name, Value: req.Value})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, col)
}

func (h *ColorHandler) update(c echo.Context) error {
	var req ColorRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	col, err := h.uc.Update(c.Request().Context(), c.Param("storeId"), c.Param("colorId"), usecase.ColorInput{Name: req.Name, Value: req.Value})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, col)
}

func (h *ColorHandler) delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("storeId"), c.Param("colorId")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
