package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type StoreUsecase struct {
	storeRepo repo.StoreRepository
}

// DI
func NewStoreUsecase(storeRepo repo.StoreRepository) *StoreUsecase {
	return &StoreUsecase{storeRepo: storeRepo}
}

func (u *StoreUsecase) ListStores(ctx context.Context) ([]model.Store, error) {
	stores, err := u.storeRepo.ListActive(ctx)
	if err != nil {
		return []model.Store{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return stores, nil
}

func (u *StoreUsecase) GetStoreDetail(ctx context.Context, storeID int64) (model.Store, error) {
	if storeID <= 0 {
		return model.Store{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	s, err := u.storeRepo.FindByID(ctx, storeID)
	if err == repo.ErrNotFound {
		return model.Store{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Store{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !s.IsActive {
		return model.Store{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return s, nil
}
