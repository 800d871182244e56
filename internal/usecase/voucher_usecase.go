package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type VoucherUsecase struct {
	voucherRepo repo.VoucherRepository
}

// DI
func NewVoucherUsecase(voucherRepo repo.VoucherRepository) *VoucherUsecase {
	return &VoucherUsecase{voucherRepo: voucherRepo}
}

type ValidateVoucherInput struct {
	Code       string `json:"code"`
	OrderTotal int64  `json:"order_total"`
}

// 業務ルールで弾かれたときは valid=false＋理由（HTTPは200）。
// 通信・DB障害だけがエラーになる
type ValidateVoucherOutput struct {
	Valid          bool   `json:"valid"`
	DiscountAmount int64  `json:"discount_amount,omitempty"`
	Message        string `json:"message,omitempty"`
}

// コードは大文字に正規化して照合する
func NormalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (u *VoucherUsecase) Validate(ctx context.Context, customerID int64, in ValidateVoucherInput) (ValidateVoucherOutput, error) {
	if customerID <= 0 {
		return ValidateVoucherOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	code := NormalizeVoucherCode(in.Code)
	if code == "" {
		return ValidateVoucherOutput{}, NewHTTPError(http.StatusBadRequest, "code is required")
	}
	if in.OrderTotal < 0 {
		return ValidateVoucherOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order_total")
	}

	v, err := u.voucherRepo.FindByCode(ctx, code)
	if err == repo.ErrNotFound {
		return ValidateVoucherOutput{Valid: false, Message: "voucher not found"}, nil
	}
	if err != nil {
		return ValidateVoucherOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	used, err := u.voucherRepo.CountRedemptions(ctx, v.ID, customerID)
	if err != nil {
		return ValidateVoucherOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	discount, reason, ok := evaluateVoucher(v, used, in.OrderTotal, time.Now())
	if !ok {
		return ValidateVoucherOutput{Valid: false, Message: reason}, nil
	}

	return ValidateVoucherOutput{Valid: true, DiscountAmount: discount}, nil
}

// バウチャーの判定本体。
// ここは純粋な計算にして、validateと注文確定の両方から同じルールを使う
func evaluateVoucher(v model.Voucher, priorUses int64, orderTotal int64, now time.Time) (int64, string, bool) {
	if !v.IsActive {
		return 0, "voucher is not active", false
	}
	if now.After(v.ExpiresAt) {
		return 0, "voucher expired", false
	}
	if v.ValidFrom != nil && now.Before(*v.ValidFrom) {
		return 0, "voucher not yet valid", false
	}
	if v.ValidTo != nil && now.After(*v.ValidTo) {
		return 0, "voucher expired", false
	}
	if orderTotal < v.MinOrderValue {
		return 0, "minimum order value not met", false
	}
	if v.MaxUsePerCustomer > 0 && priorUses >= int64(v.MaxUsePerCustomer) {
		return 0, "voucher usage limit reached", false
	}

	var discount int64
	switch v.DiscountType {
	case model.DiscountTypePercent:
		discount = orderTotal * v.DiscountValue / 100
		if v.MaxDiscount > 0 && discount > v.MaxDiscount {
			discount = v.MaxDiscount
		}
	case model.DiscountTypeFixed:
		discount = v.DiscountValue
	default:
		//ここに来るのはデータ不整合（未知の割引種別）
		return 0, "invalid voucher configuration", false
	}

	if discount < 0 {
		discount = 0
	}
	return discount, "", true
}
