package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type VoucherGormRepository struct {
	db *gorm.DB
}

// DI
func NewVoucherGormRepository(db *gorm.DB) *VoucherGormRepository {
	return &VoucherGormRepository{db: db}
}

// コードは正規化（大文字）済みを前提に完全一致で引く
func (r *VoucherGormRepository) FindByCode(ctx context.Context, code string) (model.Voucher, error) {
	var v model.Voucher
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Voucher{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Voucher{}, err
	}
	return v, nil
}

// 会員ごとの利用回数
func (r *VoucherGormRepository) CountRedemptions(ctx context.Context, voucherID int64, customerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.VoucherRedemption{}).
		Where("voucher_id = ? AND customer_id = ?", voucherID, customerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VoucherGormRepository) CreateRedemption(ctx context.Context, red model.VoucherRedemption) error {
	return r.db.WithContext(ctx).Create(&red).Error
}
