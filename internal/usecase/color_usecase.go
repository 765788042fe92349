package usecase

import (
	"context"
	"net/http"
	"strings"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"
	"storeadmin/internal/validator"
)

type ColorUsecase struct {
	colors   repo.ColorRepository
	products repo.ProductRepository
}

func NewColorUsecase(colors repo.ColorRepository, products repo.ProductRepository) *ColorUsecase {
	return &ColorUsecase{colors: colors, products: products}
}

type ColorInput struct {
	Name  string
	Value string
}

func (in ColorInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if validator.Var(strings.TrimSpace(in.Value), "required,hexcolor") != nil {
		return NewHTTPError(http.StatusBadRequest, "Value must be a hex code")
	}
	return nil
}

func (u *ColorUsecase) List(ctx context.Context, storeID string) ([]model.Color, error) {
	list, err := u.colors.ListByStore(ctx, storeID)
	if err != nil {
		return []model.Color{}, dbError(err)
	}
	return list, nil
}

func (u *ColorUsecase) Get(ctx context.Context, storeID string, colorID string) (model.Color, error) {
	c, err := u.colors.FindInStore(ctx, storeID, colorID)
	if err == repo.ErrNotFound {
		return model.Color{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Color{}, dbError(err)
	}
	return c, nil
}

func (u *ColorUsecase) Create(ctx context.Context, storeID string, in ColorInput) (model.Color, error) {
	if err := in.validate(); err != nil {
		return model.Color{}, err
	}
	c, err := u.colors.Create(ctx, model.Color{
		StoreID: storeID,
		Name:    strings.TrimSpace(in.Name),
		Value:   strings.TrimSpace(in.Value),
	})
	if err != nil {
		return model.Color{}, dbError(err)
	}
	return c, nil
}

func (u *ColorUsecase) Update(ctx context.Context, storeID string, colorID string, in ColorInput) (model.Color, error) {
	if err := in.validate(); err != nil {
		return model.Color{}, err
	}
	err := u.colors.Update(ctx, model.Color{
		ID:      colorID,
		StoreID: storeID,
		Name:    strings.TrimSpace(in.Name),
		Value:   strings.TrimSpace(in.Value),
	})
	if err == repo.ErrNotFound {
		return model.Color{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Color{}, dbError(err)
	}
	return u.Get(ctx, storeID, colorID)
}

func (u *ColorUsecase) Delete(ctx context.Context, storeID string, colorID string) error {
	n, err := u.products.CountByColor(ctx, colorID)
	if err != nil {
		return dbError(err)
	}
	if n > 0 {
		return NewHTTPError(http.StatusConflict, "color is used by products")
	}

	err = u.colors.Delete(ctx, storeID, colorID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}
