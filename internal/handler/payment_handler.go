package handler

import (
	"io"
	"net/http"

	"storeadmin/internal/domain/model"
	"storeadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	headerRazorpaySignature = "X-Razorpay-Signature"
	headerRazorpayEventID   = "X-Razorpay-Event-Id"
	headerStripeSignature   = "Stripe-Signature"
)

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	OrderID           string `json:"orderId"`
}

// 支払いの検証とゲートウェイのwebhook
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/:storeId/checkout/verify", h.verify)
	e.POST("/api/webhook/razorpay", h.razorpayWebhook)
	e.POST("/api/webhook/stripe", h.stripeWebhook)
}

func (h *PaymentHandler) verify(c echo.Context) error {
	var req VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err := h.uc.VerifyRazorpayPayment(c.Request().Context(), c.Param("storeId"), usecase.VerifyPaymentInput{
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
		OrderID:           req.OrderID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Payment verified successfully"})
}

func (h *PaymentHandler) razorpayWebhook(c echo.Context) error {
	return h.webhook(c, model.PaymentProviderRazorpay, c.Request().Header.Get(headerRazorpaySignature), c.Request().Header.Get(headerRazorpayEventID))
}

func (h *PaymentHandler) stripeWebhook(c echo.Context) error {
	return h.webhook(c, model.PaymentProviderStripe, c.Request().Header.Get(headerStripeSignature), "")
}

// 署名は生のbodyで検証するのでBindしない
func (h *PaymentHandler) webhook(c echo.Context, provider model.PaymentProvider, signature string, eventID string) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.HandleWebhook(c.Request().Context(), provider, body, signature, eventID); err != nil {
		return writeError(c, err)
	}
	//処理しないイベントも200で受け取る
	return c.NoContent(http.StatusOK)
}
