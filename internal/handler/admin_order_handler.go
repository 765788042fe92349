package handler

import (
	"net/http"
	"strconv"

	"storeadmin/internal/middleware"
	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status" validate:"required" label:"Status"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, g Guards) {
	admin := e.Group("/api/:storeId")

	admin.GET("/orders", h.list, g.Owner...)
	admin.PATCH("/orders/:orderId/status", h.updateStatus, g.Owner...)
	admin.GET("/debug-orders", h.debug, g.Owner...)
	admin.GET("/audit-logs", h.auditLogs, g.Owner...)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	in := usecase.AdminListOrdersInput{
		Status: c.QueryParam("status"),
		IsPaid: queryBool(c, "isPaid"),
	}

	if v := c.QueryParam("from"); v != "" {
		tm, ok := usecase.ParseDateTimeRFC3339(v)
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		in.From = tm
	}
	if v := c.QueryParam("to"); v != "" {
		tm, ok := usecase.ParseDateTimeRFC3339(v)
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		in.To = tm
	}

	out, err := h.uc.List(c.Request().Context(), c.Param("storeId"), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	var req OrderStatusUpdateRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	// 操作したオーナー（監査ログ用）
	actor := middleware.SubjectFrom(c)

	if err := h.uc.UpdateStatus(
		c.Request().Context(),
		actor,
		c.Param("storeId"),
		c.Param("orderId"),
		usecase.AdminUpdateOrderStatusInput{Status: req.Status},
	); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminOrderHandler) debug(c echo.Context) error {
	rows, err := h.uc.DebugRecent(c.Request().Context(), c.Param("storeId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *AdminOrderHandler) auditLogs(c echo.Context) error {
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		offset = o
	}

	logs, err := h.uc.ListAuditLogs(c.Request().Context(), c.Param("storeId"), usecase.ListAuditLogsInput{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resourceType"),
		ResourceID:   c.QueryParam("resourceId"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}
