package pricing

// 注文金額の計算。状態は持たない純粋な計算だけを置く

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
	ShippingPickup   ShippingMethod = "pickup"
)

// 配送方法。価格と配送業者は固定
type ShippingOption struct {
	Method  ShippingMethod `json:"method"`
	Label   string         `json:"label"`
	Price   int64          `json:"price"`
	Courier string         `json:"courier,omitempty"`
}

var shippingOptions = map[ShippingMethod]ShippingOption{
	ShippingStandard: {
		Method:  ShippingStandard,
		Label:   "Giao hàng tiêu chuẩn (2-3 ngày)",
		Price:   30000,
		Courier: "GiaoHangTietKiem",
	},
	ShippingExpress: {
		Method:  ShippingExpress,
		Label:   "Giao hàng nhanh (trong ngày)",
		Price:   50000,
		Courier: "GrabExpress",
	},
	ShippingPickup: {
		Method: ShippingPickup,
		Label:  "Nhận tại cửa hàng",
		Price:  0,
	},
}

// 選択肢の一覧（表示用）
func Options() []ShippingOption {
	return []ShippingOption{
		shippingOptions[ShippingStandard],
		shippingOptions[ShippingExpress],
		shippingOptions[ShippingPickup],
	}
}

func Option(m ShippingMethod) (ShippingOption, bool) {
	opt, ok := shippingOptions[m]
	return opt, ok
}

// 不明なキーは0
func ShippingCost(m ShippingMethod) int64 {
	return shippingOptions[m].Price
}

// pickupは業者なし（空文字）
func Courier(m ShippingMethod) string {
	return shippingOptions[m].Courier
}

func IsPickup(m ShippingMethod) bool {
	return m == ShippingPickup
}

// VAT 8%
const taxRatePercent = 8

// 税額は1đ単位に四捨五入する
func Tax(subtotal int64) int64 {
	return (subtotal*taxRatePercent + 50) / 100
}

type Quote struct {
	Subtotal     int64 `json:"subtotal"`
	ShippingCost int64 `json:"shipping_cost"`
	Tax          int64 `json:"tax"`
	Discount     int64 `json:"discount"`
	Total        int64 `json:"total"`
}

// total = subtotal + shipping + tax − discount。
// 割引が上回る場合は0で止める（マイナスの請求は作らない）
func Calculate(subtotal int64, method ShippingMethod, discount int64) Quote {
	ship := ShippingCost(method)
	tax := Tax(subtotal)

	total := subtotal + ship + tax - discount
	if total < 0 {
		total = 0
	}

	return Quote{
		Subtotal:     subtotal,
		ShippingCost: ship,
		Tax:          tax,
		Discount:     discount,
		Total:        total,
	}
}
