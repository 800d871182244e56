package repository

import (
	"context"

	"app/internal/domain/model"
)

type StoreRepository interface {
	ListActive(ctx context.Context) ([]model.Store, error)
	FindByID(ctx context.Context, storeID int64) (model.Store, error)
}
