package usecase

import (
	"context"
	"errors"

	"storeadmin/internal/domain/model"

	"github.com/shopspring/decimal"
)

var (
	//署名の検証に使うsecretが未設定
	ErrSecretNotConfigured = errors.New("signing secret is not configured")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrInvalidPayload      = errors.New("invalid payload")
)

type PaymentLineItem struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int64
}

type PaymentRequest struct {
	OrderID string
	StoreID string
	Items   []PaymentLineItem
	Total   decimal.Decimal
}

// ゲートウェイ側の注文/セッション
type PaymentSession struct {
	Provider  model.PaymentProvider
	Reference string
	//stripeのみ
	URL string
	//最小単位（paise / cent）
	Amount   int64
	Currency string
	//razorpayのみ。checkout.jsに渡す
	KeyID string
}

// 決済ゲートウェイ（stripe / razorpay）
type PaymentGateway interface {
	Provider() model.PaymentProvider
	CreatePayment(ctx context.Context, req PaymentRequest) (PaymentSession, error)
}

// razorpayのcheckout完了時の署名（order_id|payment_id）
type PaymentSignatureVerifier interface {
	VerifyPayment(gatewayOrderID, paymentID, signature string) error
}

// webhookから取り出した値
type GatewayEvent struct {
	ID   string
	Type string
	//支払い完了イベントで、確定してよいもの
	Paid      bool
	OrderID   string
	PaymentID string
	Reference string
	Email     string
	Mobile    string
}

// 署名を検証してからイベントを読む
type WebhookParser interface {
	ParseWebhook(body []byte, signature string) (GatewayEvent, error)
}

// webhookの重複排除。初回ならfalse
type EventDeduper interface {
	Seen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}

// REDIS_URLが無いとき用
type NoopDeduper struct{}

func (NoopDeduper) Seen(ctx context.Context, key string) (bool, error) { return false, nil }
func (NoopDeduper) Forget(ctx context.Context, key string) error       { return nil }

// 金額を最小単位に（小数2桁の通貨）
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
