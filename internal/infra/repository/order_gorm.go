package repository

import (
	"context"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (string, error) {
	//明細はOrderItemsで別に作る
	order.OrderItems = nil
	if err := r.db.WithContext(ctx).Omit("Customer", "CustomerAddress").Create(&order).Error; err != nil {
		return "", err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, mapNotFound(err)
	}
	return o, nil
}

func (r *OrderGormRepository) FindInStore(ctx context.Context, storeID string, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("id = ? AND store_id = ?", orderID, storeID).
		First(&o).Error
	if err != nil {
		return model.Order{}, mapNotFound(err)
	}
	return o, nil
}

// is_paid=falseの行だけ更新するので、同じ注文を二重に確定しない。
// statusはPENDING/FAILEDのときだけPAIDにする（キャンセル済みはCANCELEDのまま）
func (r *OrderGormRepository) MarkPaidIfUnpaid(ctx context.Context, orderID string, c repo.PaymentConfirmation) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND is_paid = ?", orderID, false).
		Updates(map[string]interface{}{
			"is_paid": true,
			"status": gorm.Expr("CASE WHEN status = ? OR status = ? THEN ? ELSE status END",
				model.OrderStatusPending, model.OrderStatusFailed, model.OrderStatusPaid),
			"payment_id": c.PaymentID,
			"paid_at":    c.PaidAt,
			"email":      gorm.Expr("COALESCE(NULLIF(email, ''), ?)", c.Email),
			"mobile":     gorm.Expr("COALESCE(NULLIF(mobile, ''), ?)", c.Mobile),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	return affectedOrNotFound(res)
}

func (r *OrderGormRepository) SetPaymentReference(ctx context.Context, orderID string, provider model.PaymentProvider, reference string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_provider":  provider,
			"payment_reference": reference,
		})
	return affectedOrNotFound(res)
}

func (r *OrderGormRepository) ListByStore(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Preload("OrderItems.Product").
		Preload("CustomerAddress").
		Where("store_id = ?", f.StoreID)

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.IsPaid != nil {
		q = q.Where("is_paid = ?", *f.IsPaid)
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	items := []model.Order{}
	if err := q.Order("created_at desc").Find(&items).Error; err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListByCustomer(ctx context.Context, storeID string, customerID string) ([]model.Order, error) {
	items := []model.Order{}
	err := r.db.WithContext(ctx).
		Preload("OrderItems.Product").
		Where("store_id = ? AND customer_id = ?", storeID, customerID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListRecent(ctx context.Context, storeID string, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	items := []model.Order{}
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("store_id = ?", storeID).
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

var _ repo.OrderRepository = (*OrderGormRepository)(nil)
