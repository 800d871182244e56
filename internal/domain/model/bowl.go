package model

import "time"

// 会員が自分で組み立てるボウル。
// 価格とカロリーは作成時点で合計して確定する
type Bowl struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID    int64     `gorm:"not null;index" json:"customer_id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Price         int64     `gorm:"not null" json:"price"`
	TotalCalories int64     `gorm:"not null" json:"total_calories"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// ボウルの材料。価格・カロリーは選択時点のスナップショット
type BowlIngredient struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	BowlID   int64  `gorm:"not null;index" json:"bowl_id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Price    int64  `gorm:"not null" json:"price"`
	Calories int64  `gorm:"not null" json:"calories"`
	Quantity int64  `gorm:"not null" json:"quantity"`
}
