package repository

import (
	"context"

	"storeadmin/internal/domain/model"
)

// ストアの保存・取得
type StoreRepository interface {
	Create(ctx context.Context, s model.Store) (model.Store, error)
	FindByID(ctx context.Context, storeID string) (model.Store, error)
	//オーナー（sub）のストア一覧
	ListByUserID(ctx context.Context, userID string) ([]model.Store, error)
	UpdateName(ctx context.Context, storeID string, name string) error
	Delete(ctx context.Context, storeID string) error
}
