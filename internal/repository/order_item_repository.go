package repository

import (
	"context"

	"storeadmin/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error)
	//商品削除時の参照チェック
	CountByProduct(ctx context.Context, productID string) (int64, error)
}
