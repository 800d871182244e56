package model

import "time"

type DiscountType string

const (
	DiscountTypePercent DiscountType = "PERCENT"
	DiscountTypeFixed   DiscountType = "FIXED"
)

// 割引コード。コードは大文字で保存する
type Voucher struct {
	ID          int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Description string       `gorm:"type:text" json:"description"`
	DiscountType DiscountType `gorm:"type:varchar(20);not null" json:"discount_type"`

	//PERCENTなら割引率（1-100）、FIXEDなら割引額
	DiscountValue int64 `gorm:"not null" json:"discount_value"`

	//PERCENT時の割引上限額（0は上限なし）
	MaxDiscount int64 `gorm:"not null;default:0" json:"max_discount"`

	//最低注文額
	MinOrderValue int64 `gorm:"not null;default:0" json:"min_order_value"`

	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`

	//1会員あたりの利用回数上限（0は無制限）
	MaxUsePerCustomer int `gorm:"not null;default:0" json:"max_use_per_customer"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 利用履歴。注文確定トランザクションの中で記録する
type VoucherRedemption struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VoucherID  int64     `gorm:"not null;index" json:"voucher_id"`
	CustomerID int64     `gorm:"not null;index" json:"customer_id"`
	OrderID    int64     `gorm:"not null;index" json:"order_id"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
