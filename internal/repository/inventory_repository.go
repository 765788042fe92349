package repository

import (
	"context"

	"storeadmin/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫の現在値を設定
	SetStock(ctx context.Context, productID string, newStock int64) error

	// 足りなければ0にする。0に丸めたときはoversold=true
	DecreaseStockClamped(ctx context.Context, productID string, qty int64) (oversold bool, err error)

	// 在庫戻し（キャンセルなど）
	IncreaseStock(ctx context.Context, productID string, qty int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
