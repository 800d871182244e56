package model

import "time"

// 店舗（テナント）。注文と商品は必ず1店舗に属する
type Store struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone         string    `gorm:"type:varchar(30)" json:"phone"`
	StreetAddress string    `gorm:"type:varchar(255);not null" json:"street_address"`
	Ward          string    `gorm:"type:varchar(100)" json:"ward"`
	District      string    `gorm:"type:varchar(100)" json:"district"`
	City          string    `gorm:"type:varchar(100);not null" json:"city"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
