package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"
	"storeadmin/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	tx        *TxManagerMock
	orders    *OrderRepoMock
	inventory *InventoryRepoMock
	audit     *AuditRepoMock
	verifier  *SignatureVerifierMock
	rzpHook   *WebhookParserMock
	stripe    *WebhookParserMock
	dedup     *DeduperMock
	uc        *usecase.PaymentUsecase
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		tx:        new(TxManagerMock),
		orders:    new(OrderRepoMock),
		inventory: new(InventoryRepoMock),
		audit:     new(AuditRepoMock),
		verifier:  new(SignatureVerifierMock),
		rzpHook:   new(WebhookParserMock),
		stripe:    new(WebhookParserMock),
		dedup:     new(DeduperMock),
	}
	f.tx.Repos = &TxReposMock{
		orders:    f.orders,
		inventory: f.inventory,
		auditLogs: f.audit,
	}
	f.uc = usecase.NewPaymentUsecase(usecase.PaymentUsecaseDeps{
		Tx:              f.tx,
		Orders:          f.orders,
		Razorpay:        f.verifier,
		RazorpayWebhook: f.rzpHook,
		StripeWebhook:   f.stripe,
		Dedup:           f.dedup,
		Log:             discardLogger(),
	})
	return f
}

func paidOrder() model.Order {
	return model.Order{
		ID:      "o1",
		StoreID: "s1",
		OrderItems: []model.OrderItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	}
}

// 未払い→支払い済みにできたときの期待値
func (f *paymentFixture) expectFlip(paymentID string) {
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("MarkPaidIfUnpaid", mock.Anything, "o1", mock.MatchedBy(func(c repo.PaymentConfirmation) bool {
		return c.PaymentID == paymentID && !c.PaidAt.IsZero()
	})).Return(true, nil)
	f.orders.On("FindByID", mock.Anything, "o1").Return(paidOrder(), nil)
	f.inventory.On("DecreaseStockClamped", mock.Anything, "p1", int64(2)).Return(false, nil)
	f.inventory.On("DecreaseStockClamped", mock.Anything, "p2", int64(1)).Return(true, nil)
	f.inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.Reason == "order o1 paid" && a.Delta < 0
	})).Return(nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionConfirmPayment && l.ResourceID == "o1" && l.StoreID == "s1"
	})).Return(nil)
}

// =====================
// ConfirmPayment
// =====================

func TestConfirmPayment_FlipsAndDecrementsStock(t *testing.T) {
	f := newPaymentFixture()
	f.expectFlip("pay_1")

	ok, err := f.uc.ConfirmPayment(context.Background(), "o1", model.PaymentProviderRazorpay, repo.PaymentConfirmation{PaymentID: "pay_1"})
	require.NoError(t, err)
	assert.True(t, ok)

	f.inventory.AssertNumberOfCalls(t, "DecreaseStockClamped", 2)
	f.inventory.AssertNumberOfCalls(t, "CreateAdjustment", 2)
	f.audit.AssertNumberOfCalls(t, "Create", 1)
}

// 2回目は何もしない（在庫は減らさない）
func TestConfirmPayment_AlreadyPaid_NoOp(t *testing.T) {
	f := newPaymentFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("MarkPaidIfUnpaid", mock.Anything, "o1", mock.Anything).Return(false, nil)
	f.orders.On("FindByID", mock.Anything, "o1").Return(model.Order{ID: "o1", IsPaid: true}, nil)

	ok, err := f.uc.ConfirmPayment(context.Background(), "o1", model.PaymentProviderStripe, repo.PaymentConfirmation{PaymentID: "pi_1"})
	require.NoError(t, err)
	assert.False(t, ok)
	f.inventory.AssertNotCalled(t, "DecreaseStockClamped", mock.Anything, mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConfirmPayment_OrderMissing(t *testing.T) {
	f := newPaymentFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("MarkPaidIfUnpaid", mock.Anything, "o1", mock.Anything).Return(false, nil)
	f.orders.On("FindByID", mock.Anything, "o1").Return(model.Order{}, repo.ErrNotFound)

	_, err := f.uc.ConfirmPayment(context.Background(), "o1", model.PaymentProviderStripe, repo.PaymentConfirmation{})
	assertHTTPError(t, err, http.StatusNotFound, "Order not found")
}

// キャンセル後に届いた決済は記録だけして在庫は触らない
func TestConfirmPayment_CanceledOrder_KeepsStockAndFlagsRefund(t *testing.T) {
	f := newPaymentFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("MarkPaidIfUnpaid", mock.Anything, "o1", mock.Anything).Return(true, nil)
	canceled := paidOrder()
	canceled.Status = model.OrderStatusCanceled
	f.orders.On("FindByID", mock.Anything, "o1").Return(canceled, nil)
	f.audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionConfirmPayment &&
			l.ResourceID == "o1" &&
			strings.Contains(l.AfterJSON, `"status":"CANCELED"`) &&
			strings.Contains(l.AfterJSON, `"refundRequired":true`)
	})).Return(nil)

	ok, err := f.uc.ConfirmPayment(context.Background(), "o1", model.PaymentProviderRazorpay, repo.PaymentConfirmation{PaymentID: "pay_late"})
	require.NoError(t, err)
	assert.True(t, ok)

	f.inventory.AssertNotCalled(t, "DecreaseStockClamped", mock.Anything, mock.Anything, mock.Anything)
	f.inventory.AssertNotCalled(t, "CreateAdjustment", mock.Anything, mock.Anything)
	f.audit.AssertNumberOfCalls(t, "Create", 1)
}

// 削除済み商品はスキップ
func TestConfirmPayment_DeletedProductSkipped(t *testing.T) {
	f := newPaymentFixture()
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("MarkPaidIfUnpaid", mock.Anything, "o1", mock.Anything).Return(true, nil)
	f.orders.On("FindByID", mock.Anything, "o1").Return(paidOrder(), nil)
	f.inventory.On("DecreaseStockClamped", mock.Anything, "p1", int64(2)).Return(false, repo.ErrNotFound)
	f.inventory.On("DecreaseStockClamped", mock.Anything, "p2", int64(1)).Return(false, nil)
	f.inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.ProductID == "p2"
	})).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	ok, err := f.uc.ConfirmPayment(context.Background(), "o1", model.PaymentProviderStripe, repo.PaymentConfirmation{})
	require.NoError(t, err)
	assert.True(t, ok)
	f.inventory.AssertNumberOfCalls(t, "CreateAdjustment", 1)
}

// =====================
// VerifyRazorpayPayment
// =====================

func verifyInput() usecase.VerifyPaymentInput {
	return usecase.VerifyPaymentInput{
		RazorpayOrderID:   "order_RZP1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: "sig",
		OrderID:           "o1",
	}
}

func TestVerifyRazorpayPayment_MissingFields(t *testing.T) {
	f := newPaymentFixture()

	in := verifyInput()
	in.RazorpaySignature = ""
	err := f.uc.VerifyRazorpayPayment(context.Background(), "s1", in)
	assertHTTPError(t, err, http.StatusBadRequest, "Missing required fields")
}

func TestVerifyRazorpayPayment_NotConfigured(t *testing.T) {
	uc := usecase.NewPaymentUsecase(usecase.PaymentUsecaseDeps{Log: discardLogger()})

	err := uc.VerifyRazorpayPayment(context.Background(), "s1", verifyInput())
	assertHTTPError(t, err, http.StatusInternalServerError, "not configured")
}

func TestVerifyRazorpayPayment_SecretMissing(t *testing.T) {
	f := newPaymentFixture()
	f.verifier.On("VerifyPayment", "order_RZP1", "pay_1", "sig").Return(usecase.ErrSecretNotConfigured)

	err := f.uc.VerifyRazorpayPayment(context.Background(), "s1", verifyInput())
	assertHTTPError(t, err, http.StatusInternalServerError, "not configured")
}

func TestVerifyRazorpayPayment_InvalidSignature(t *testing.T) {
	f := newPaymentFixture()
	f.verifier.On("VerifyPayment", "order_RZP1", "pay_1", "sig").Return(usecase.ErrInvalidSignature)

	err := f.uc.VerifyRazorpayPayment(context.Background(), "s1", verifyInput())
	assertHTTPError(t, err, http.StatusBadRequest, "Invalid signature")
	f.orders.AssertNotCalled(t, "FindInStore", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyRazorpayPayment_OrderNotInStore(t *testing.T) {
	f := newPaymentFixture()
	f.verifier.On("VerifyPayment", "order_RZP1", "pay_1", "sig").Return(nil)
	f.orders.On("FindInStore", mock.Anything, "s1", "o1").Return(model.Order{}, repo.ErrNotFound)

	err := f.uc.VerifyRazorpayPayment(context.Background(), "s1", verifyInput())
	assertHTTPError(t, err, http.StatusNotFound, "Order not found")
}

// 別の注文のrazorpay order idで署名されたもの
func TestVerifyRazorpayPayment_ReferenceMismatch(t *testing.T) {
	f := newPaymentFixture()
	f.verifier.On("VerifyPayment", "order_RZP1", "pay_1", "sig").Return(nil)
	f.orders.On("FindInStore", mock.Anything, "s1", "o1").Return(model.Order{ID: "o1", PaymentReference: "order_OTHER"}, nil)

	err := f.uc.VerifyRazorpayPayment(context.Background(), "s1", verifyInput())
	assertHTTPError(t, err, http.StatusBadRequest, "order does not match payment")
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestVerifyRazorpayPayment_Success(t *testing.T) {
	f := newPaymentFixture()
	f.verifier.On("VerifyPayment", "order_RZP1", "pay_1", "sig").Return(nil)
	f.orders.On("FindInStore", mock.Anything, "s1", "o1").Return(model.Order{ID: "o1", StoreID: "s1", PaymentReference: "order_RZP1"}, nil)
	f.expectFlip("pay_1")

	err := f.uc.VerifyRazorpayPayment(context.Background(), "s1", verifyInput())
	require.NoError(t, err)
	f.orders.AssertExpectations(t)
}

// =====================
// HandleWebhook
// =====================

func TestHandleWebhook_MissingSignature(t *testing.T) {
	f := newPaymentFixture()

	err := f.uc.HandleWebhook(context.Background(), model.PaymentProviderRazorpay, []byte(`{}`), "", "evt_1")
	assertHTTPError(t, err, http.StatusBadRequest, "Missing signature")
}

func TestHandleWebhook_ParserErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"secret missing", usecase.ErrSecretNotConfigured, http.StatusInternalServerError, "not configured"},
		{"bad signature", fmt.Errorf("%w: mismatch", usecase.ErrInvalidSignature), http.StatusBadRequest, "Invalid signature"},
		{"bad payload", usecase.ErrInvalidPayload, http.StatusBadRequest, "invalid payload"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPaymentFixture()
			f.rzpHook.On("ParseWebhook", []byte(`{}`), "sig").Return(usecase.GatewayEvent{}, tc.err)

			err := f.uc.HandleWebhook(context.Background(), model.PaymentProviderRazorpay, []byte(`{}`), "sig", "evt_1")
			assertHTTPError(t, err, tc.status, tc.msg)
		})
	}
}

func TestHandleWebhook_ProviderNotConfigured(t *testing.T) {
	uc := usecase.NewPaymentUsecase(usecase.PaymentUsecaseDeps{Log: discardLogger()})

	err := uc.HandleWebhook(context.Background(), model.PaymentProviderStripe, []byte(`{}`), "t=1,v1=x", "")
	assertHTTPError(t, err, http.StatusInternalServerError, "not configured")
}

func TestHandleWebhook_Duplicate_Skipped(t *testing.T) {
	f := newPaymentFixture()
	f.rzpHook.On("ParseWebhook", mock.Anything, "sig").Return(usecase.GatewayEvent{Type: "order.paid", Paid: true, OrderID: "o1"}, nil)
	f.dedup.On("Seen", mock.Anything, "webhook:razorpay:evt_1").Return(true, nil)

	err := f.uc.HandleWebhook(context.Background(), model.PaymentProviderRazorpay, []byte(`{}`), "sig", "evt_1")
	require.NoError(t, err)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

// 関係ないイベントは200で受け取るだけ
func TestHandleWebhook_UnpaidEvent_Acknowledged(t *testing.T) {
	f := newPaymentFixture()
	f.stripe.On("ParseWebhook", mock.Anything, "sig").Return(usecase.GatewayEvent{ID: "evt_s1", Type: "customer.created"}, nil)
	f.dedup.On("Seen", mock.Anything, "webhook:stripe:evt_s1").Return(false, nil)

	err := f.uc.HandleWebhook(context.Background(), model.PaymentProviderStripe, []byte(`{}`), "sig", "")
	require.NoError(t, err)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

// stripeはイベントIDをbodyから取る
func TestHandleWebhook_StripePaid_Confirms(t *testing.T) {
	f := newPaymentFixture()
	f.stripe.On("ParseWebhook", mock.Anything, "sig").Return(usecase.GatewayEvent{
		ID:        "evt_s2",
		Type:      "checkout.session.completed",
		Paid:      true,
		OrderID:   "o1",
		PaymentID: "pi_1",
		Email:     "buyer@example.com",
	}, nil)
	f.dedup.On("Seen", mock.Anything, "webhook:stripe:evt_s2").Return(false, nil)
	f.expectFlip("pi_1")

	err := f.uc.HandleWebhook(context.Background(), model.PaymentProviderStripe, []byte(`{}`), "sig", "")
	require.NoError(t, err)
	f.orders.AssertCalled(t, "MarkPaidIfUnpaid", mock.Anything, "o1", mock.MatchedBy(func(c repo.PaymentConfirmation) bool {
		return c.Email == "buyer@example.com"
	}))
}

// 失敗したら再送で処理できるようにキーを消す
func TestHandleWebhook_ConfirmFails_ForgetsKey(t *testing.T) {
	f := newPaymentFixture()
	f.rzpHook.On("ParseWebhook", mock.Anything, "sig").Return(usecase.GatewayEvent{Paid: true, OrderID: "o1"}, nil)
	f.dedup.On("Seen", mock.Anything, "webhook:razorpay:evt_9").Return(false, nil)
	f.dedup.On("Forget", mock.Anything, "webhook:razorpay:evt_9").Return(nil)
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("MarkPaidIfUnpaid", mock.Anything, "o1", mock.Anything).Return(false, errors.New("db down"))

	err := f.uc.HandleWebhook(context.Background(), model.PaymentProviderRazorpay, []byte(`{}`), "sig", "evt_9")
	assertHTTPError(t, err, http.StatusInternalServerError, "db error")
	f.dedup.AssertCalled(t, "Forget", mock.Anything, "webhook:razorpay:evt_9")
}

// 重複排除が落ちていても処理は続ける
func TestHandleWebhook_DedupUnavailable_StillConfirms(t *testing.T) {
	f := newPaymentFixture()
	f.rzpHook.On("ParseWebhook", mock.Anything, "sig").Return(usecase.GatewayEvent{Paid: true, OrderID: "o1", PaymentID: "pay_7"}, nil)
	f.dedup.On("Seen", mock.Anything, "webhook:razorpay:evt_7").Return(false, errors.New("redis down"))
	f.expectFlip("pay_7")

	err := f.uc.HandleWebhook(context.Background(), model.PaymentProviderRazorpay, []byte(`{}`), "sig", "evt_7")
	require.NoError(t, err)
	f.dedup.AssertNotCalled(t, "Forget", mock.Anything, mock.Anything)
}
