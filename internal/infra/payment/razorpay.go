package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"storeadmin/internal/config"
	"storeadmin/internal/domain/model"
	"storeadmin/internal/usecase"

	razorpay "github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"
)

// razorpay-goのOrderリソース
type razorpayOrders interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type RazorpayGateway struct {
	orders        razorpayOrders
	keyID         string
	keySecret     string
	webhookSecret string
	currency      string
}

func NewRazorpayGateway(cfg config.RazorpayConfig) *RazorpayGateway {
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	return newRazorpayGateway(cfg, client.Order)
}

func newRazorpayGateway(cfg config.RazorpayConfig, orders razorpayOrders) *RazorpayGateway {
	return &RazorpayGateway{
		orders:        orders,
		keyID:         cfg.KeyID,
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
		currency:      cfg.Currency,
	}
}

func (g *RazorpayGateway) Provider() model.PaymentProvider { return model.PaymentProviderRazorpay }

// razorpayの注文を作る。クライアントはidとkeyIdでcheckout.jsを開く
func (g *RazorpayGateway) CreatePayment(ctx context.Context, req usecase.PaymentRequest) (usecase.PaymentSession, error) {
	if err := ctx.Err(); err != nil {
		return usecase.PaymentSession{}, err
	}

	amount := usecase.MinorUnits(req.Total)
	res, err := g.orders.Create(map[string]interface{}{
		"amount":   amount,
		"currency": g.currency,
		"receipt":  req.OrderID,
		"notes": map[string]interface{}{
			"orderId": req.OrderID,
			"storeId": req.StoreID,
		},
	}, nil)
	if err != nil {
		return usecase.PaymentSession{}, fmt.Errorf("razorpay order create: %w", err)
	}

	id, _ := res["id"].(string)
	if id == "" {
		return usecase.PaymentSession{}, fmt.Errorf("razorpay order create: no id in response")
	}

	return usecase.PaymentSession{
		Provider:  model.PaymentProviderRazorpay,
		Reference: id,
		Amount:    amount,
		Currency:  g.currency,
		KeyID:     g.keyID,
	}, nil
}

// checkout完了時の razorpay_signature を検証
func (g *RazorpayGateway) VerifyPayment(gatewayOrderID, paymentID, signature string) error {
	if g.keySecret == "" {
		return usecase.ErrSecretNotConfigured
	}
	ok := rzputils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   gatewayOrderID,
		"razorpay_payment_id": paymentID,
	}, signature, g.keySecret)
	if !ok {
		return usecase.ErrInvalidSignature
	}
	return nil
}

type razorpayEntity struct {
	ID      string          `json:"id"`
	OrderID string          `json:"order_id"`
	Email   string          `json:"email"`
	Contact string          `json:"contact"`
	Notes   json.RawMessage `json:"notes"`
}

type razorpayWebhookBody struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity razorpayEntity `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity razorpayEntity `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// X-Razorpay-Signatureを検証して order.paid / payment.captured を読む
func (g *RazorpayGateway) ParseWebhook(body []byte, signature string) (usecase.GatewayEvent, error) {
	if g.webhookSecret == "" {
		return usecase.GatewayEvent{}, usecase.ErrSecretNotConfigured
	}
	if !rzputils.VerifyWebhookSignature(string(body), signature, g.webhookSecret) {
		return usecase.GatewayEvent{}, usecase.ErrInvalidSignature
	}

	var b razorpayWebhookBody
	if err := json.Unmarshal(body, &b); err != nil {
		return usecase.GatewayEvent{}, fmt.Errorf("%w: %v", usecase.ErrInvalidPayload, err)
	}

	out := usecase.GatewayEvent{Type: b.Event}
	switch b.Event {
	case "order.paid", "payment.captured":
		out.Paid = true
	default:
		return out, nil
	}

	if p := b.Payload.Payment; p != nil {
		out.PaymentID = p.Entity.ID
		out.Reference = p.Entity.OrderID
		out.Email = p.Entity.Email
		out.Mobile = p.Entity.Contact
		out.OrderID = noteOrderID(p.Entity.Notes)
	}
	if o := b.Payload.Order; o != nil {
		if out.OrderID == "" {
			out.OrderID = noteOrderID(o.Entity.Notes)
		}
		if out.Reference == "" {
			out.Reference = o.Entity.ID
		}
	}
	return out, nil
}

// notesは空だと [] で来る
func noteOrderID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var notes map[string]interface{}
	if err := json.Unmarshal(raw, &notes); err != nil {
		return ""
	}
	id, _ := notes["orderId"].(string)
	return id
}

var (
	_ usecase.PaymentGateway           = (*RazorpayGateway)(nil)
	_ usecase.PaymentSignatureVerifier = (*RazorpayGateway)(nil)
	_ usecase.WebhookParser            = (*RazorpayGateway)(nil)
)
