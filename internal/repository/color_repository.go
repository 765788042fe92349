package repository

import (
	"context"

	"storeadmin/internal/domain/model"
)

type ColorRepository interface {
	ListByStore(ctx context.Context, storeID string) ([]model.Color, error)
	FindInStore(ctx context.Context, storeID string, colorID string) (model.Color, error)
	Create(ctx context.Context, c model.Color) (model.Color, error)
	Update(ctx context.Context, c model.Color) error
	Delete(ctx context.Context, storeID string, colorID string) error
}
