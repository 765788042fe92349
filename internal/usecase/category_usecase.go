package usecase

import (
	"context"
	"net/http"
	"strings"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
	products   repo.ProductRepository
}

func NewCategoryUsecase(categories repo.CategoryRepository, products repo.ProductRepository) *CategoryUsecase {
	return &CategoryUsecase{categories: categories, products: products}
}

func (u *CategoryUsecase) List(ctx context.Context, storeID string) ([]model.Category, error) {
	list, err := u.categories.ListByStore(ctx, storeID)
	if err != nil {
		return []model.Category{}, dbError(err)
	}
	return list, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, storeID string, categoryID string) (model.Category, error) {
	c, err := u.categories.FindInStore(ctx, storeID, categoryID)
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Category{}, dbError(err)
	}
	return c, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, storeID string, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	c, err := u.categories.Create(ctx, model.Category{StoreID: storeID, Name: name})
	if err != nil {
		return model.Category{}, dbError(err)
	}
	return c, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, storeID string, categoryID string, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	err := u.categories.Update(ctx, model.Category{ID: categoryID, StoreID: storeID, Name: name})
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Category{}, dbError(err)
	}
	return u.Get(ctx, storeID, categoryID)
}

// 商品が使っているカテゴリは消せない
func (u *CategoryUsecase) Delete(ctx context.Context, storeID string, categoryID string) error {
	n, err := u.products.CountByCategory(ctx, categoryID)
	if err != nil {
		return dbError(err)
	}
	if n > 0 {
		return NewHTTPError(http.StatusConflict, "category is used by products")
	}

	err = u.categories.Delete(ctx, storeID, categoryID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}
