package repository

import (
	"context"

	"storeadmin/internal/domain/model"
)

// 一覧の絞り込み（空/nilは条件なし）
type ProductFilter struct {
	StoreID    string
	CategoryID string
	ColorID    string
	IsFeatured *bool
	IsArchived *bool
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	//新しい順、Category/Color付き
	List(ctx context.Context, f ProductFilter) ([]model.Product, error)
	FindInStore(ctx context.Context, storeID string, productID string) (model.Product, error)
	//ストア内の指定IDだけ返す（見つからないIDは含まれない）
	FindByIDs(ctx context.Context, storeID string, productIDs []string) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, storeID string, productID string) error

	//カテゴリ・カラー削除時の参照チェック
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	CountByColor(ctx context.Context, colorID string) (int64, error)
}
