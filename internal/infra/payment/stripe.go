package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"storeadmin/internal/config"
	"storeadmin/internal/domain/model"
	"storeadmin/internal/usecase"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Stripe Checkoutのセッションを作る
type StripeGateway struct {
	sessions      *session.Client
	currency      string
	storeURL      string
	webhookSecret string
}

// backendがnilなら本番API
func NewStripeGateway(cfg config.StripeConfig, storeURL string, backend stripe.Backend) *StripeGateway {
	if backend == nil {
		backend = stripe.GetBackend(stripe.APIBackend)
	}
	return &StripeGateway{
		sessions:      &session.Client{B: backend, Key: cfg.SecretKey},
		currency:      cfg.Currency,
		storeURL:      storeURL,
		webhookSecret: cfg.WebhookSecret,
	}
}

func (g *StripeGateway) Provider() model.PaymentProvider { return model.PaymentProviderStripe }

func (g *StripeGateway) CreatePayment(ctx context.Context, req usecase.PaymentRequest) (usecase.PaymentSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, it := range req.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(g.currency),
				UnitAmount: stripe.Int64(usecase.MinorUnits(it.UnitPrice)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
			},
			Quantity: stripe.Int64(it.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:                lineItems,
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
		SuccessURL:        stripe.String(g.storeURL + "/cart?success=1"),
		CancelURL:         stripe.String(g.storeURL + "/cart?canceled=1"),
		ClientReferenceID: stripe.String(req.OrderID),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{"orderId": req.OrderID, "storeId": req.StoreID},
		},
	}
	params.Context = ctx
	params.AddMetadata("orderId", req.OrderID)
	params.AddMetadata("storeId", req.StoreID)

	s, err := g.sessions.New(params)
	if err != nil {
		return usecase.PaymentSession{}, fmt.Errorf("stripe checkout session: %w", err)
	}

	amount := s.AmountTotal
	if amount == 0 {
		amount = usecase.MinorUnits(req.Total)
	}
	return usecase.PaymentSession{
		Provider:  model.PaymentProviderStripe,
		Reference: s.ID,
		URL:       s.URL,
		Amount:    amount,
		Currency:  g.currency,
	}, nil
}

// Stripe-Signatureを検証してcheckout.session.*を読む
func (g *StripeGateway) ParseWebhook(body []byte, signature string) (usecase.GatewayEvent, error) {
	if g.webhookSecret == "" {
		return usecase.GatewayEvent{}, usecase.ErrSecretNotConfigured
	}

	ev, err := webhook.ConstructEventWithOptions(body, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return usecase.GatewayEvent{}, fmt.Errorf("%w: %v", usecase.ErrInvalidSignature, err)
	}

	out := usecase.GatewayEvent{ID: ev.ID, Type: string(ev.Type)}

	switch out.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
	default:
		return out, nil
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
		return usecase.GatewayEvent{}, fmt.Errorf("%w: %v", usecase.ErrInvalidPayload, err)
	}

	out.Paid = s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid
	out.OrderID = s.Metadata["orderId"]
	if out.OrderID == "" {
		out.OrderID = s.ClientReferenceID
	}
	out.Reference = s.ID
	if s.PaymentIntent != nil {
		out.PaymentID = s.PaymentIntent.ID
	}
	if s.CustomerDetails != nil {
		out.Email = s.CustomerDetails.Email
		out.Mobile = s.CustomerDetails.Phone
	}
	return out, nil
}

var (
	_ usecase.PaymentGateway = (*StripeGateway)(nil)
	_ usecase.WebhookParser  = (*StripeGateway)(nil)
)
