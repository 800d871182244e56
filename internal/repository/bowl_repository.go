package repository

import (
	"context"

	"app/internal/domain/model"
)

type BowlRepository interface {
	//材料も一緒に保存する（価格・カロリーは呼び出し側で合計済み）
	Create(ctx context.Context, bowl model.Bowl, ingredients []model.BowlIngredient) (model.Bowl, error)
	FindByID(ctx context.Context, bowlID int64) (model.Bowl, error)
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Bowl, error)
	ListIngredients(ctx context.Context, bowlID int64) ([]model.BowlIngredient, error)
}
