package repository

import (
	"context"

	"app/internal/domain/model"
)

// 会員の参照だけ。登録・認証は外部サービス
type CustomerRepository interface {
	FindByID(ctx context.Context, customerID int64) (model.Customer, error)
}
