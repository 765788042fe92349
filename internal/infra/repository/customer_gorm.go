package repository

import (
	"context"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type customerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) repo.CustomerRepository {
	return &customerGormRepository{db: db}
}

func (r *customerGormRepository) FindByClerkID(ctx context.Context, clerkID string) (model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).Where("clerk_id = ?", clerkID).First(&c).Error; err != nil {
		return model.Customer{}, mapNotFound(err)
	}
	return c, nil
}

// 同時に初回リクエストが来てもclerk_idのuniqueで1件に収まる
func (r *customerGormRepository) GetOrCreate(ctx context.Context, clerkID string) (model.Customer, error) {
	c := model.Customer{ClerkID: clerkID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "clerk_id"}}, DoNothing: true}).
		Create(&c).Error; err != nil {
		return model.Customer{}, err
	}
	return r.FindByClerkID(ctx, clerkID)
}

// 空の項目だけ埋める
func (r *customerGormRepository) FillProfile(ctx context.Context, customerID string, fullName, email, mobile string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]interface{}{
			"full_name": gorm.Expr("COALESCE(NULLIF(full_name, ''), ?)", fullName),
			"email":     gorm.Expr("COALESCE(NULLIF(email, ''), ?)", email),
			"mobile":    gorm.Expr("COALESCE(NULLIF(mobile, ''), ?)", mobile),
		})
	return affectedOrNotFound(res)
}
