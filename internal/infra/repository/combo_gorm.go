package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ComboGormRepository struct {
	db *gorm.DB
}

// DI
func NewComboGormRepository(db *gorm.DB) *ComboGormRepository {
	return &ComboGormRepository{db: db}
}

// 公開セットの一覧（店舗絞り込み任意）
func (r *ComboGormRepository) ListActive(ctx context.Context, storeID *int64, page int, limit int) ([]model.Combo, int64, error) {
	var combos []model.Combo
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Combo{}).Where("is_active = ?", true)
	if storeID != nil {
		tx = tx.Where("store_id = ?", *storeID)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Combo{}, 0, err
	}

	offset := (page - 1) * limit
	err := tx.Order("id desc").Offset(offset).Limit(limit).Find(&combos).Error
	if err != nil {
		return []model.Combo{}, 0, err
	}

	return combos, total, nil
}

func (r *ComboGormRepository) FindByID(ctx context.Context, comboID int64) (model.Combo, error) {
	var cb model.Combo
	err := r.db.WithContext(ctx).First(&cb, comboID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Combo{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Combo{}, err
	}
	return cb, nil
}

// セットの内訳
func (r *ComboGormRepository) ListItems(ctx context.Context, comboID int64) ([]model.ComboItem, error) {
	var items []model.ComboItem
	err := r.db.WithContext(ctx).Where("combo_id = ?", comboID).Order("id asc").Find(&items).Error
	if err != nil {
		return []model.ComboItem{}, err
	}
	return items, nil
}
