package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

func (r *CartItemGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Order("id asc").Find(&items).Error
	if err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

// 同じ対象を指す明細があれば数量をプラス、無ければ新規作成。
// 価格・名前のスナップショットは最初の追加時点のまま据え置く
func (r *CartItemGormRepository) UpsertByCartAndRef(ctx context.Context, cartID int64, ref model.LineRef, addQty int64, unitPriceSnapshot int64, nameSnapshot string) error {

	if addQty <= 0 {
		return errors.New("invalid quantity")
	}
	if !ref.Valid() {
		return errors.New("invalid line ref")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem

		q := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ?", cartID)
		q = whereRef(q, ref)

		err := q.First(&item).Error

		if err == nil {
			// 既存ありだったら数量を増やす
			newQty := item.Quantity + addQty

			res := tx.Model(&model.CartItem{}).
				Where("id = ?", item.ID).
				Update("quantity", newQty)

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//新規明細
		newItem := model.CartItem{
			CartID:            cartID,
			ProductID:         ref.ProductID,
			ComboID:           ref.ComboID,
			BowlID:            ref.BowlID,
			NameSnapshot:      nameSnapshot,
			Quantity:          addQty,
			UnitPriceSnapshot: unitPriceSnapshot,
		}
		return tx.Create(&newItem).Error
	})
}

// 排他参照のWHERE句（NULL込みで一致させる）
func whereRef(tx *gorm.DB, ref model.LineRef) *gorm.DB {
	if ref.ProductID != nil {
		return tx.Where("product_id = ?", *ref.ProductID)
	}
	if ref.ComboID != nil {
		return tx.Where("combo_id = ?", *ref.ComboID)
	}
	return tx.Where("bowl_id = ?", *ref.BowlID)
}

func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartItemGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", cartItemID).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartItemGormRepository) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).First(&item, cartItemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 明細→カート→会員の順でたどって所有を確認
func (r *CartItemGormRepository) IsOwnedByCustomer(ctx context.Context, cartItemID int64, customerID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.customer_id = ?", cartItemID, customerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 1, nil
}
