package repository

import (
	"context"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"gorm.io/gorm"
)

type storeGormRepository struct {
	db *gorm.DB
}

func NewStoreGormRepository(db *gorm.DB) repo.StoreRepository {
	return &storeGormRepository{db: db}
}

func (r *storeGormRepository) Create(ctx context.Context, s model.Store) (model.Store, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Store{}, err
	}
	return s, nil
}

func (r *storeGormRepository) FindByID(ctx context.Context, storeID string) (model.Store, error) {
	var s model.Store
	if err := r.db.WithContext(ctx).Where("id = ?", storeID).First(&s).Error; err != nil {
		return model.Store{}, mapNotFound(err)
	}
	return s, nil
}

func (r *storeGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.Store, error) {
	var list []model.Store
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *storeGormRepository) UpdateName(ctx context.Context, storeID string, name string) error {
	return affectedOrNotFound(r.db.WithContext(ctx).
		Model(&model.Store{}).
		Where("id = ?", storeID).
		Update("name", name))
}

func (r *storeGormRepository) Delete(ctx context.Context, storeID string) error {
	return affectedOrNotFound(r.db.WithContext(ctx).
		Where("id = ?", storeID).
		Delete(&model.Store{}))
}
