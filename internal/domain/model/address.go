package model

import "time"

// 配送先住所
type Address struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"address_id"`
	CustomerID int64 `gorm:"not null;index" json:"customer_id"`

	//宛名
	ReceiverName string `gorm:"type:varchar(255);not null" json:"receiver_name"`

	//電話番号
	PhoneNumber string `gorm:"type:varchar(30);not null" json:"phone_number"`

	//番地など
	StreetAddress string `gorm:"type:varchar(255);not null" json:"street_address"`

	//最小行政区（phường）
	Ward string `gorm:"type:varchar(100);not null" json:"ward"`

	//区（quận）
	District string `gorm:"type:varchar(100);not null" json:"district"`

	//市
	City string `gorm:"type:varchar(100);not null" json:"city"`

	//この会員のデフォルト住所か
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
