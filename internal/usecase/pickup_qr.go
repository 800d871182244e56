package usecase

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// 店頭受け取り用のQR。スタッフ側の確認ページURLを埋め込む
type PickupQRGenerator struct {
	BaseURL string
}

func (g PickupQRGenerator) Generate(pickupCode string) ([]byte, error) {
	data := fmt.Sprintf("%s/pickup/confirm?code=%s", g.BaseURL, pickupCode)
	return qrcode.Encode(data, qrcode.Medium, 256)
}
