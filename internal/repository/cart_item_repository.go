package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同じ対象（Product/Combo/Bowl）の明細があれば数量をプラス
	UpsertByCartAndRef(ctx context.Context, cartID int64, ref model.LineRef, addQty int64, unitPriceSnapshot int64, nameSnapshot string) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	IsOwnedByCustomer(ctx context.Context, cartItemID int64, customerID int64) (bool, error)
}
