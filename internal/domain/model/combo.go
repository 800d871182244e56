package model

import (
	"time"

	"gorm.io/gorm"
)

// セット商品。複数商品を1つの単位としてカートに入れられる
type Combo struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreID     int64          `gorm:"not null;index" json:"store_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"`
	ImageURL    string         `gorm:"type:varchar(512)" json:"image_url"`
	IsActive    bool           `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// セットの内訳。注文確定時の在庫減算はこの単位で行う
type ComboItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ComboID   int64 `gorm:"not null;index" json:"combo_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`
}
