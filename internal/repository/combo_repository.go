package repository

import (
	"context"

	"app/internal/domain/model"
)

type ComboRepository interface {
	ListActive(ctx context.Context, storeID *int64, page int, limit int) ([]model.Combo, int64, error)
	FindByID(ctx context.Context, comboID int64) (model.Combo, error)

	//セットの内訳（在庫減算の単位）
	ListItems(ctx context.Context, comboID int64) ([]model.ComboItem, error)
}
