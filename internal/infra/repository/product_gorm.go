package repository

import (
	"context"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// ストアの商品を条件付きで返す（新しい順）
func (r *ProductGormRepository) List(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Preload("Category").
		Preload("Color").
		Where("store_id = ?", f.StoreID)

	if f.CategoryID != "" {
		tx = tx.Where("category_id = ?", f.CategoryID)
	}
	if f.ColorID != "" {
		tx = tx.Where("color_id = ?", f.ColorID)
	}
	if f.IsFeatured != nil {
		tx = tx.Where("is_featured = ?", *f.IsFeatured)
	}
	if f.IsArchived != nil {
		tx = tx.Where("is_archived = ?", *f.IsArchived)
	}

	var products []model.Product
	if err := tx.Order("created_at desc").Order("id desc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得（ストア外はnot found）
func (r *ProductGormRepository) FindInStore(ctx context.Context, storeID string, productID string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Color").
		Where("id = ? AND store_id = ?", productID, storeID).
		First(&p).Error
	if err != nil {
		return model.Product{}, mapNotFound(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindByIDs(ctx context.Context, storeID string, productIDs []string) ([]model.Product, error) {
	if len(productIDs) == 0 {
		return []model.Product{}, nil
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id IN ?", storeID, productIDs).
		Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品の更新（在庫はinventoryで変える）
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND store_id = ?", p.ID, p.StoreID).
		Updates(map[string]interface{}{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"category_id": p.CategoryID,
			"color_id":    p.ColorID,
			"is_featured": p.IsFeatured,
			"is_archived": p.IsArchived,
		})
	return affectedOrNotFound(res)
}

// 商品削除
func (r *ProductGormRepository) Delete(ctx context.Context, storeID string, productID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", productID, storeID).
		Delete(&model.Product{})
	return affectedOrNotFound(res)
}

func (r *ProductGormRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

func (r *ProductGormRepository) CountByColor(ctx context.Context, colorID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("color_id = ?", colorID).Count(&n).Error
	return n, err
}

var _ repo.ProductRepository = (*ProductGormRepository)(nil)
