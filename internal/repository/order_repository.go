package repository

import (
	"context"
	"time"

	"storeadmin/internal/domain/model"
)

// ダッシュボードの注文一覧の絞り込み
type OrderListFilter struct {
	StoreID string
	Status  string
	IsPaid  *bool
	From    *time.Time
	To      *time.Time
}

// 支払い確定時に書き込む内容
type PaymentConfirmation struct {
	PaymentID string
	//空でなく、注文側が空のときだけ上書き
	Email  string
	Mobile string
	PaidAt time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (string, error)
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	//明細付き
	FindInStore(ctx context.Context, storeID string, orderID string) (model.Order, error)

	//未払いのときだけ支払い済みにする。更新したらtrue
	MarkPaidIfUnpaid(ctx context.Context, orderID string, c PaymentConfirmation) (bool, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	SetPaymentReference(ctx context.Context, orderID string, provider model.PaymentProvider, reference string) error

	//明細・商品・住所付き、新しい順
	ListByStore(ctx context.Context, f OrderListFilter) ([]model.Order, error)
	ListByCustomer(ctx context.Context, storeID string, customerID string) ([]model.Order, error)
	//顧客付き
	ListRecent(ctx context.Context, storeID string, limit int) ([]model.Order, error)
}
