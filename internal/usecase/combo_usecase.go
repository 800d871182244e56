package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ComboUsecase struct {
	comboRepo repo.ComboRepository
}

// DI
func NewComboUsecase(comboRepo repo.ComboRepository) *ComboUsecase {
	return &ComboUsecase{comboRepo: comboRepo}
}

type ComboListOutput struct {
	Items []model.Combo `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// セット詳細は内訳込みで返す
type ComboDetailOutput struct {
	model.Combo
	Items []model.ComboItem `json:"items"`
}

func (u *ComboUsecase) ListCombos(ctx context.Context, storeID *int64, page int, limit int) (ComboListOutput, error) {
	if page < 1 {
		return ComboListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return ComboListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.comboRepo.ListActive(ctx, storeID, page, limit)
	if err != nil {
		return ComboListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ComboListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (u *ComboUsecase) GetComboDetail(ctx context.Context, comboID int64) (ComboDetailOutput, error) {
	if comboID <= 0 {
		return ComboDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	cb, err := u.comboRepo.FindByID(ctx, comboID)
	if err == repo.ErrNotFound {
		return ComboDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ComboDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !cb.IsActive {
		return ComboDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.comboRepo.ListItems(ctx, comboID)
	if err != nil {
		return ComboDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ComboDetailOutput{Combo: cb, Items: items}, nil
}
