package repository

import (
	"context"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"gorm.io/gorm"
)

type addressGormRepository struct {
	db *gorm.DB
}

// DI
func NewAddressGormRepository(db *gorm.DB) repo.AddressRepository {
	return &addressGormRepository{db: db}
}

// 住所を作成
func (r *addressGormRepository) Create(ctx context.Context, address model.CustomerAddress) (model.CustomerAddress, error) {
	if err := r.db.WithContext(ctx).Create(&address).Error; err != nil {
		return model.CustomerAddress{}, err
	}
	return address, nil
}

// 顧客の住所一覧を返す
func (r *addressGormRepository) ListByCustomer(ctx context.Context, customerID string) ([]model.CustomerAddress, error) {
	list := []model.CustomerAddress{}
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default DESC, created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// その顧客の住所だけ取得
func (r *addressGormRepository) FindOwned(ctx context.Context, addressID, customerID string) (model.CustomerAddress, error) {
	var a model.CustomerAddress
	if err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", addressID, customerID).
		First(&a).Error; err != nil {
		return model.CustomerAddress{}, mapNotFound(err)
	}
	return a, nil
}

// 住所を削除
func (r *addressGormRepository) Delete(ctx context.Context, addressID, customerID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", addressID, customerID).
		Delete(&model.CustomerAddress{})
	return affectedOrNotFound(result)
}

func (r *addressGormRepository) ClearDefault(ctx context.Context, customerID string) error {
	return r.db.WithContext(ctx).
		Model(&model.CustomerAddress{}).
		Where("customer_id = ? AND is_default = TRUE", customerID).
		Update("is_default", false).Error
}

// デフォルト住所を切り替える
func (r *addressGormRepository) SetDefault(ctx context.Context, customerID, addressID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//指定住所がこの顧客のものか確認
		var count int64
		if err := tx.Model(&model.CustomerAddress{}).
			Where("id = ? AND customer_id = ?", addressID, customerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return repo.ErrNotFound
		}

		//その顧客のdefaultを全て false
		if err := tx.Model(&model.CustomerAddress{}).
			Where("customer_id = ? AND is_default = TRUE", customerID).
			Update("is_default", false).Error; err != nil {
			return err
		}

		//指定住所だけ true
		result := tx.Model(&model.CustomerAddress{}).
			Where("id = ? AND customer_id = ?", addressID, customerID).
			Update("is_default", true)
		return affectedOrNotFound(result)
	})
}

func (r *addressGormRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.CustomerAddress{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
