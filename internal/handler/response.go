package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"storeadmin/internal/middleware"
	"storeadmin/internal/usecase"
	"storeadmin/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// { message: string }
type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Cause != nil {
			middleware.LoggerFrom(c).Error("request failed",
				slog.Int("status", he.Status),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.String("err", he.Cause.Error()),
			)
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	middleware.LoggerFrom(c).Error("request failed",
		slog.Int("status", http.StatusInternalServerError),
		slog.String("method", c.Request().Method),
		slog.String("path", c.Path()),
		slog.String("err", err.Error()),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// Bind + validateタグの検証。失敗したらfalse（レスポンスは書き込み済み）
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if c.Echo().Validator == nil {
		return true, nil
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: validator.Message(err)})
	}
	return true, nil
}

// "true"/"false"以外はnil（絞り込みなし）
func queryBool(c echo.Context, name string) *bool {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}
