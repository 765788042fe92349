package repository

import (
	"context"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"gorm.io/gorm"
)

type colorGormRepository struct {
	db *gorm.DB
}

func NewColorGormRepository(db *gorm.DB) repo.ColorRepository {
	return &colorGormRepository{db: db}
}

func (r *colorGormRepository) ListByStore(ctx context.Context, storeID string) ([]model.Color, error) {
	var list []model.Color
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *colorGormRepository) FindInStore(ctx context.Context, storeID string, colorID string) (model.Color, error) {
	var c model.Color
	if err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", colorID, storeID).
		First(&c).Error; err != nil {
		return model.Color{}, mapNotFound(err)
	}
	return c, nil
}

func (r *colorGormRepository) Create(ctx context.Context, c model.Color) (model.Color, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Color{}, err
	}
	return c, nil
}

func (r *colorGormRepository) Update(ctx context.Context, c model.Color) error {
	return affectedOrNotFound(r.db.WithContext(ctx).
		Model(&model.Color{}).
		Where("id = ? AND store_id = ?", c.ID, c.StoreID).
		Updates(map[string]interface{}{
			"name":  c.Name,
			"value": c.Value,
		}))
}

func (r *colorGormRepository) Delete(ctx context.Context, storeID string, colorID string) error {
	return affectedOrNotFound(r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", colorID, storeID).
		Delete(&model.Color{}))
}
