package repository

import (
	"context"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"gorm.io/gorm"
)

type categoryGormRepository struct {
	db *gorm.DB
}

func NewCategoryGormRepository(db *gorm.DB) repo.CategoryRepository {
	return &categoryGormRepository{db: db}
}

func (r *categoryGormRepository) ListByStore(ctx context.Context, storeID string) ([]model.Category, error) {
	var list []model.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *categoryGormRepository) FindInStore(ctx context.Context, storeID string, categoryID string) (model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", categoryID, storeID).
		First(&c).Error; err != nil {
		return model.Category{}, mapNotFound(err)
	}
	return c, nil
}

func (r *categoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (r *categoryGormRepository) Update(ctx context.Context, c model.Category) error {
	return affectedOrNotFound(r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ? AND store_id = ?", c.ID, c.StoreID).
		Update("name", c.Name))
}

func (r *categoryGormRepository) Delete(ctx context.Context, storeID string, categoryID string) error {
	return affectedOrNotFound(r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", categoryID, storeID).
		Delete(&model.Category{}))
}
