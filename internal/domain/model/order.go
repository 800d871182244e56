package model

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

type OrderType string

const (
	//住所へ配達
	OrderTypeShipping OrderType = "SHIPPING"
	//店頭受け取り
	OrderTypePickup OrderType = "PICKUP"
)

type PaymentMethod string

const (
	//代金引換（確定後すぐ完了画面へ）
	PaymentMethodCOD PaymentMethod = "COD"
	//外部決済ゲートウェイ（payment_urlへリダイレクト）
	PaymentMethodVNPay PaymentMethod = "VNPAY"
)

type Order struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64       `gorm:"not null;index" json:"customer_id"`
	StoreID    int64       `gorm:"not null;index" json:"store_id"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	OrderType     OrderType     `gorm:"type:varchar(20);not null" json:"order_type"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`

	//SHIPPING のときだけ入る
	AddressID    *int64     `gorm:"index" json:"address_id,omitempty"`
	CourierName  string     `gorm:"type:varchar(100)" json:"courier_name,omitempty"`
	ShipDate     *time.Time `json:"ship_date,omitempty"`
	ShippingCost int64      `gorm:"not null;default:0" json:"shipping_cost"`

	//PICKUP のときだけ入る（店頭提示用）
	PickupCode string `gorm:"type:varchar(64)" json:"pickup_code,omitempty"`

	VoucherID      *int64 `gorm:"index" json:"voucher_id,omitempty"`
	DiscountAmount int64  `gorm:"not null;default:0" json:"discount_amount"`

	Subtotal   int64 `gorm:"not null" json:"subtotal"`
	TaxAmount  int64 `gorm:"not null" json:"tax_amount"`
	TotalPrice int64 `gorm:"not null" json:"total_price"`

	IdempotencyKey string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 注文確定イベント（Kafkaへ発行）
type OrderPlacedEvent struct {
	OrderID       int64         `json:"order_id"`
	CustomerID    int64         `json:"customer_id"`
	StoreID       int64         `json:"store_id"`
	OrderType     OrderType     `json:"order_type"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	TotalPrice    int64         `json:"total_price"`
	PlacedAt      time.Time     `json:"placed_at"`
}
