package repository

import (
	"context"

	"app/internal/domain/model"
)

type VoucherRepository interface {
	//コードは正規化（大文字）済みを渡す
	FindByCode(ctx context.Context, code string) (model.Voucher, error)

	//その会員がこのバウチャーを使った回数
	CountRedemptions(ctx context.Context, voucherID int64, customerID int64) (int64, error)

	//利用履歴の記録（注文確定トランザクション内で呼ぶ）
	CreateRedemption(ctx context.Context, r model.VoucherRedemption) error
}
