package model

import "time"

type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;index" json:"order_id"`

	//Product / Combo / Bowl は排他（カート明細と同じ約束）
	ProductID *int64 `gorm:"index" json:"product_id,omitempty"`
	ComboID   *int64 `gorm:"index" json:"combo_id,omitempty"`
	BowlID    *int64 `gorm:"index" json:"bowl_id,omitempty"`

	NameSnapshot      string    `gorm:"type:varchar(255);not null" json:"name_snapshot"`
	UnitPriceSnapshot int64     `gorm:"not null" json:"unit_price_snapshot"`
	Quantity          int64     `gorm:"not null" json:"quantity"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
