package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"github.com/shopspring/decimal"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	auditRepo repo.AuditLogRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, auditRepo repo.AuditLogRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders, auditRepo: auditRepo}
}

// ダッシュボードの注文テーブルの1行
type OrderRow struct {
	ID         string          `json:"id"`
	FullName   string          `json:"fullName"`
	Mobile     string          `json:"mobile"`
	Address    string          `json:"address"`
	Products   string          `json:"products"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	IsPaid     bool            `json:"isPaid"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type AdminListOrdersInput struct {
	Status string
	IsPaid *bool
	From   *time.Time
	To     *time.Time
}

// 注文一覧（住所は注文のコピー、空なら紐づく住所）
func (u *AdminOrderUsecase) List(ctx context.Context, storeID string, in AdminListOrdersInput) ([]OrderRow, error) {
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status != "" && !isKnownStatus(model.OrderStatus(status)) {
		return []OrderRow{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	orders, err := u.orders.ListByStore(ctx, repo.OrderListFilter{
		StoreID: storeID,
		Status:  status,
		IsPaid:  in.IsPaid,
		From:    in.From,
		To:      in.To,
	})
	if err != nil {
		return []OrderRow{}, dbError(err)
	}

	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, toOrderRow(o))
	}
	return rows, nil
}

func toOrderRow(o model.Order) OrderRow {
	ship := o.ResolvedShipping()

	products := make([]string, 0, len(o.OrderItems))
	total := decimal.Zero
	for _, it := range o.OrderItems {
		name := it.ProductNameSnapshot
		if name == "" && it.Product != nil {
			name = it.Product.Name
		}
		products = append(products, fmt.Sprintf("%s (%d)", name, it.Quantity))
		total = total.Add(it.LineTotal())
	}
	//明細が無い古い注文は保存済みの合計
	if len(o.OrderItems) == 0 {
		total = o.TotalPrice
	}

	return OrderRow{
		ID:         o.ID,
		FullName:   ship.FullName,
		Mobile:     ship.Mobile,
		Address:    ship.Line(),
		Products:   strings.Join(products, ", "),
		TotalPrice: total,
		IsPaid:     o.IsPaid,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
	}
}

func isKnownStatus(s model.OrderStatus) bool {
	switch s {
	case model.OrderStatusPending, model.OrderStatusPaid, model.OrderStatusFailed, model.OrderStatusShipped, model.OrderStatusCanceled:
		return true
	}
	return false
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// ステータス更新（支払い済みをCANCELEDにしたら在庫戻し）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor string, storeID string, orderID string, in AdminUpdateOrderStatusInput) error {
	if actor == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	switch newStatus {
	case model.OrderStatusShipped, model.OrderStatusCanceled:
		// OK
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindInStore(ctx, storeID, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return dbError(err)
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}
		// 終端ガード
		if o.Status == model.OrderStatusCanceled {
			return NewHTTPError(http.StatusBadRequest, "cannot change canceled order")
		}
		if o.Status == model.OrderStatusShipped {
			return NewHTTPError(http.StatusBadRequest, "cannot change shipped order")
		}
		// 未払いは発送できない
		if newStatus == model.OrderStatusShipped && !o.IsPaid {
			return NewHTTPError(http.StatusBadRequest, "cannot ship unpaid order")
		}

		// 在庫を減らしているのは支払い済みの注文だけ
		if newStatus == model.OrderStatusCanceled && o.IsPaid {
			for _, it := range o.OrderItems {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					if err == repo.ErrNotFound {
						continue
					}
					return dbError(err)
				}
				if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
					ProductID: it.ProductID,
					Actor:     actor,
					Delta:     it.Quantity,
					Reason:    fmt.Sprintf("order %s canceled", o.ID),
				}); err != nil {
					return dbError(err)
				}
			}
		}

		// ステータス更新
		beforeStatus := string(o.Status)
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return dbError(err)
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON := `{"status":"` + beforeStatus + `"}`
		afterJSON := `{"status":"` + string(newStatus) + `"}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			StoreID:      storeID,
			Actor:        actor,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return dbError(err)
		}

		return nil
	})
}

// 顧客の紐づけ確認用
type DebugOrderRow struct {
	OrderID       string    `json:"orderId"`
	CreatedAt     time.Time `json:"createdAt"`
	IsPaid        bool      `json:"isPaid"`
	DBCustomerID  *string   `json:"dbCustomerId"`
	ClerkID       string    `json:"clerkId"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	OrderEmail    string    `json:"orderEmail"`
}

func (u *AdminOrderUsecase) DebugRecent(ctx context.Context, storeID string) ([]DebugOrderRow, error) {
	orders, err := u.orders.ListRecent(ctx, storeID, 5)
	if err != nil {
		return []DebugOrderRow{}, dbError(err)
	}

	rows := make([]DebugOrderRow, 0, len(orders))
	for _, o := range orders {
		row := DebugOrderRow{
			OrderID:      o.ID,
			CreatedAt:    o.CreatedAt,
			IsPaid:       o.IsPaid,
			DBCustomerID: o.CustomerID,
			ClerkID:      "NO_MATCHING_CUSTOMER",
			OrderEmail:   o.Email,
		}
		if o.Customer != nil {
			row.ClerkID = o.Customer.ClerkID
			row.CustomerEmail = o.Customer.Email
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type ListAuditLogsInput struct {
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}

// ストアの監査ログ（新しい順）
func (u *AdminOrderUsecase) ListAuditLogs(ctx context.Context, storeID string, in ListAuditLogsInput) ([]model.AuditLog, error) {
	f := repo.AuditLogFilter{
		StoreID: storeID,
		Limit:   in.Limit,
		Offset:  in.Offset,
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		f.Action = &a
	}
	if in.ResourceType != "" {
		rt := model.AuditResourceType(in.ResourceType)
		f.ResourceType = &rt
	}
	if in.ResourceID != "" {
		f.ResourceID = &in.ResourceID
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, dbError(err)
	}
	return logs, nil
}

// 期間パラメータでtime.Timeが必要なら、handlerでtime.Parseしてここに入れる
func ParseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
