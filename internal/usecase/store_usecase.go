package usecase

import (
	"context"
	"net/http"
	"strings"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"
)

type StoreUsecase struct {
	stores repo.StoreRepository
}

func NewStoreUsecase(stores repo.StoreRepository) *StoreUsecase {
	return &StoreUsecase{stores: stores}
}

func (u *StoreUsecase) Create(ctx context.Context, ownerID string, name string) (model.Store, error) {
	if ownerID == "" {
		return model.Store{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Store{}, NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	s, err := u.stores.Create(ctx, model.Store{Name: name, UserID: ownerID})
	if err != nil {
		return model.Store{}, dbError(err)
	}
	return s, nil
}

func (u *StoreUsecase) List(ctx context.Context, ownerID string) ([]model.Store, error) {
	if ownerID == "" {
		return []model.Store{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	list, err := u.stores.ListByUserID(ctx, ownerID)
	if err != nil {
		return []model.Store{}, dbError(err)
	}
	return list, nil
}

// 所有チェックはStoreOwnerGuardで済んでいる前提
func (u *StoreUsecase) Rename(ctx context.Context, storeID string, name string) (model.Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Store{}, NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	if err := u.stores.UpdateName(ctx, storeID, name); err != nil {
		if err == repo.ErrNotFound {
			return model.Store{}, NewHTTPError(http.StatusNotFound, "store not found")
		}
		return model.Store{}, dbError(err)
	}

	s, err := u.stores.FindByID(ctx, storeID)
	if err != nil {
		return model.Store{}, dbError(err)
	}
	return s, nil
}

func (u *StoreUsecase) Delete(ctx context.Context, storeID string) error {
	err := u.stores.Delete(ctx, storeID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "store not found")
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}
