package repository

import (
	"context"

	"storeadmin/internal/domain/model"
)

type CategoryRepository interface {
	ListByStore(ctx context.Context, storeID string) ([]model.Category, error)
	FindInStore(ctx context.Context, storeID string, categoryID string) (model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, storeID string, categoryID string) error
}
