package model

import "time"

// カート明細が指す対象。Product / Combo / Bowl のどれか1つだけを持つ
type LineRef struct {
	ProductID *int64 `json:"product_id,omitempty"`
	ComboID   *int64 `json:"combo_id,omitempty"`
	BowlID    *int64 `json:"bowl_id,omitempty"`
}

// 参照がちょうど1つか
func (r LineRef) Valid() bool {
	n := 0
	if r.ProductID != nil {
		n++
	}
	if r.ComboID != nil {
		n++
	}
	if r.BowlID != nil {
		n++
	}
	return n == 1
}

func (r LineRef) Equal(o LineRef) bool {
	return eqID(r.ProductID, o.ProductID) &&
		eqID(r.ComboID, o.ComboID) &&
		eqID(r.BowlID, o.BowlID)
}

func eqID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// カートの明細。
// 追加時点の価格と名前を必ずスナップショットで保存する
type CartItem struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID int64 `gorm:"not null;index" json:"cart_id"`

	//Product / Combo / Bowl は排他（どれか1つだけ非NULL）
	ProductID *int64 `gorm:"index" json:"product_id,omitempty"`
	ComboID   *int64 `gorm:"index" json:"combo_id,omitempty"`
	BowlID    *int64 `gorm:"index" json:"bowl_id,omitempty"`

	NameSnapshot      string    `gorm:"type:varchar(255);not null" json:"name_snapshot"`
	Quantity          int64     `gorm:"not null" json:"quantity"`
	UnitPriceSnapshot int64     `gorm:"not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ci CartItem) Ref() LineRef {
	return LineRef{ProductID: ci.ProductID, ComboID: ci.ComboID, BowlID: ci.BowlID}
}

// subTotal = quantity × unitPrice
func (ci CartItem) SubTotal() int64 {
	return ci.Quantity * ci.UnitPriceSnapshot
}
