package model

import "time"

// 会員（認証・発行は外部サービス。ここでは参照のみ）
type Customer struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	FullName  string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone     string     `gorm:"type:varchar(30)" json:"phone"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
