package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"
)

type PaymentUsecase struct {
	tx       repo.TransactionManager
	orders   repo.OrderRepository
	razorpay PaymentSignatureVerifier
	webhooks map[model.PaymentProvider]WebhookParser
	dedup    EventDeduper
	log      *slog.Logger
	now      func() time.Time
}

type PaymentUsecaseDeps struct {
	Tx     repo.TransactionManager
	Orders repo.OrderRepository
	//nilならrazorpay未設定
	Razorpay        PaymentSignatureVerifier
	RazorpayWebhook WebhookParser
	StripeWebhook   WebhookParser
	Dedup           EventDeduper
	Log             *slog.Logger
}

func NewPaymentUsecase(d PaymentUsecaseDeps) *PaymentUsecase {
	hooks := map[model.PaymentProvider]WebhookParser{}
	if d.RazorpayWebhook != nil {
		hooks[model.PaymentProviderRazorpay] = d.RazorpayWebhook
	}
	if d.StripeWebhook != nil {
		hooks[model.PaymentProviderStripe] = d.StripeWebhook
	}
	dedup := d.Dedup
	if dedup == nil {
		dedup = NoopDeduper{}
	}
	return &PaymentUsecase{
		tx:       d.Tx,
		orders:   d.Orders,
		razorpay: d.Razorpay,
		webhooks: hooks,
		dedup:    dedup,
		log:      d.Log,
		now:      time.Now,
	}
}

type VerifyPaymentInput struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
	OrderID           string
}

// razorpay checkout完了後のクライアントからの検証
func (u *PaymentUsecase) VerifyRazorpayPayment(ctx context.Context, storeID string, in VerifyPaymentInput) error {
	if strings.TrimSpace(in.RazorpayOrderID) == "" ||
		strings.TrimSpace(in.RazorpayPaymentID) == "" ||
		strings.TrimSpace(in.RazorpaySignature) == "" ||
		strings.TrimSpace(in.OrderID) == "" {
		return NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}
	if u.razorpay == nil {
		return NewHTTPError(http.StatusInternalServerError, "razorpay is not configured")
	}

	if err := u.razorpay.VerifyPayment(in.RazorpayOrderID, in.RazorpayPaymentID, in.RazorpaySignature); err != nil {
		if errors.Is(err, ErrSecretNotConfigured) {
			return NewHTTPError(http.StatusInternalServerError, "razorpay is not configured")
		}
		u.log.Warn("razorpay signature mismatch",
			slog.String("order_id", in.OrderID),
			slog.String("razorpay_order_id", in.RazorpayOrderID),
		)
		return NewHTTPError(http.StatusBadRequest, "Invalid signature")
	}

	o, err := u.orders.FindInStore(ctx, storeID, in.OrderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return dbError(err)
	}
	//署名されたrazorpay order idがこの注文のものか
	if o.PaymentReference != in.RazorpayOrderID {
		u.log.Warn("razorpay order mismatch",
			slog.String("order_id", o.ID),
			slog.String("expected", o.PaymentReference),
			slog.String("got", in.RazorpayOrderID),
		)
		return NewHTTPError(http.StatusBadRequest, "order does not match payment")
	}

	_, err = u.ConfirmPayment(ctx, o.ID, model.PaymentProviderRazorpay, repo.PaymentConfirmation{
		PaymentID: in.RazorpayPaymentID,
	})
	return err
}

// webhookを処理する。eventIDはヘッダで来る場合だけ渡す（razorpay）
func (u *PaymentUsecase) HandleWebhook(ctx context.Context, provider model.PaymentProvider, body []byte, signature string, eventID string) error {
	if strings.TrimSpace(signature) == "" {
		return NewHTTPError(http.StatusBadRequest, "Missing signature")
	}
	parser, ok := u.webhooks[provider]
	if !ok {
		return NewHTTPError(http.StatusInternalServerError, "webhook secret is not configured")
	}

	ev, err := parser.ParseWebhook(body, signature)
	switch {
	case errors.Is(err, ErrSecretNotConfigured):
		u.log.Error("webhook secret is not configured", slog.String("provider", string(provider)))
		return NewHTTPError(http.StatusInternalServerError, "webhook secret is not configured")
	case errors.Is(err, ErrInvalidSignature):
		u.log.Warn("webhook signature mismatch", slog.String("provider", string(provider)))
		return NewHTTPError(http.StatusBadRequest, "Invalid signature")
	case err != nil:
		return NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if eventID == "" {
		eventID = ev.ID
	}
	key := ""
	if eventID != "" {
		key = fmt.Sprintf("webhook:%s:%s", provider, eventID)
		seen, err := u.dedup.Seen(ctx, key)
		if err != nil {
			//重複排除が使えなくても処理は続ける（確定は冪等）
			u.log.Warn("webhook dedup unavailable", slog.Any("err", err))
			key = ""
		} else if seen {
			u.log.Info("webhook already processed", slog.String("provider", string(provider)), slog.String("event_id", eventID))
			return nil
		}
	}

	if !ev.Paid {
		return nil
	}
	if ev.OrderID == "" {
		u.log.Warn("webhook without order id",
			slog.String("provider", string(provider)),
			slog.String("event", ev.Type),
		)
		return nil
	}

	_, err = u.ConfirmPayment(ctx, ev.OrderID, provider, repo.PaymentConfirmation{
		PaymentID: ev.PaymentID,
		Email:     ev.Email,
		Mobile:    ev.Mobile,
	})
	if err != nil && key != "" {
		//再送で処理されるように
		if ferr := u.dedup.Forget(ctx, key); ferr != nil {
			u.log.Warn("webhook dedup forget", slog.Any("err", ferr))
		}
	}
	return err
}

// 支払い確定。未払い→支払い済みにできたときだけ在庫を減らす。
// 2回目以降はfalseで何もしない
func (u *PaymentUsecase) ConfirmPayment(ctx context.Context, orderID string, provider model.PaymentProvider, c repo.PaymentConfirmation) (bool, error) {
	if c.PaidAt.IsZero() {
		c.PaidAt = u.now()
	}
	actor := string(provider)

	confirmed := false
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		flipped, err := r.Orders().MarkPaidIfUnpaid(ctx, orderID, c)
		if err != nil {
			return dbError(err)
		}
		if !flipped {
			//支払い済み or 存在しない
			if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
				if err == repo.ErrNotFound {
					return NewHTTPError(http.StatusNotFound, "Order not found")
				}
				return dbError(err)
			}
			return nil
		}

		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return dbError(err)
		}

		if o.Status == model.OrderStatusCanceled {
			//キャンセル後に決済が来た。在庫は戻してあるので減らさず、返金待ちとして残す
			u.log.Warn("payment on canceled order, refund required",
				slog.String("order_id", o.ID),
				slog.String("provider", actor),
				slog.String("payment_id", c.PaymentID),
			)
			if err := r.AuditLogs().Create(ctx, model.AuditLog{
				StoreID:      o.StoreID,
				Actor:        actor,
				Action:       model.AuditActionConfirmPayment,
				ResourceType: model.AuditResourceOrder,
				ResourceID:   o.ID,
				BeforeJSON:   `{"isPaid":false,"status":"CANCELED"}`,
				AfterJSON:    fmt.Sprintf(`{"isPaid":true,"status":"CANCELED","refundRequired":true,"paymentId":%q}`, c.PaymentID),
				CreatedAt:    c.PaidAt,
			}); err != nil {
				return dbError(err)
			}
			confirmed = true
			return nil
		}

		for _, it := range o.OrderItems {
			oversold, err := r.Inventory().DecreaseStockClamped(ctx, it.ProductID, it.Quantity)
			if err != nil && err != repo.ErrNotFound {
				return dbError(err)
			}
			if err == repo.ErrNotFound {
				//商品が消されている
				u.log.Warn("paid item product missing", slog.String("order_id", o.ID), slog.String("product_id", it.ProductID))
				continue
			}
			if oversold {
				u.log.Warn("oversell on payment",
					slog.String("order_id", o.ID),
					slog.String("product_id", it.ProductID),
					slog.Int64("quantity", it.Quantity),
				)
			}

			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ProductID: it.ProductID,
				Actor:     actor,
				Delta:     -it.Quantity,
				Reason:    fmt.Sprintf("order %s paid", o.ID),
			}); err != nil {
				return dbError(err)
			}
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			StoreID:      o.StoreID,
			Actor:        actor,
			Action:       model.AuditActionConfirmPayment,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   o.ID,
			BeforeJSON:   `{"isPaid":false}`,
			AfterJSON:    fmt.Sprintf(`{"isPaid":true,"paymentId":%q}`, c.PaymentID),
			CreatedAt:    c.PaidAt,
		}); err != nil {
			return dbError(err)
		}

		confirmed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if confirmed {
		u.log.Info("payment confirmed", slog.String("order_id", orderID), slog.String("provider", actor))
	}
	return confirmed, nil
}
