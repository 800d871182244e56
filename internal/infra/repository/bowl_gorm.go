package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type BowlGormRepository struct {
	db *gorm.DB
}

// DI
func NewBowlGormRepository(db *gorm.DB) *BowlGormRepository {
	return &BowlGormRepository{db: db}
}

// ボウル本体と材料を同一トランザクションで保存
func (r *BowlGormRepository) Create(ctx context.Context, bowl model.Bowl, ingredients []model.BowlIngredient) (model.Bowl, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&bowl).Error; err != nil {
			return err
		}
		for i := range ingredients {
			ingredients[i].BowlID = bowl.ID
		}
		if len(ingredients) > 0 {
			if err := tx.Create(&ingredients).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Bowl{}, err
	}
	return bowl, nil
}

func (r *BowlGormRepository) FindByID(ctx context.Context, bowlID int64) (model.Bowl, error) {
	var b model.Bowl
	err := r.db.WithContext(ctx).First(&b, bowlID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Bowl{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Bowl{}, err
	}
	return b, nil
}

func (r *BowlGormRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Bowl, error) {
	var bowls []model.Bowl
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id desc").
		Find(&bowls).Error
	if err != nil {
		return []model.Bowl{}, err
	}
	return bowls, nil
}

func (r *BowlGormRepository) ListIngredients(ctx context.Context, bowlID int64) ([]model.BowlIngredient, error) {
	var ings []model.BowlIngredient
	err := r.db.WithContext(ctx).Where("bowl_id = ?", bowlID).Order("id asc").Find(&ings).Error
	if err != nil {
		return []model.BowlIngredient{}, err
	}
	return ings, nil
}
