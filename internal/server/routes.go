package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

// ルーティングを一箇所に集める
type Handlers struct {
	Store    *handler.StoreHandler
	Product  *handler.ProductHandler
	Combo    *handler.ComboHandler
	Bowl     *handler.BowlHandler
	Cart     *handler.CartHandler
	Address  *handler.AddressHandler
	Voucher  *handler.VoucherHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	//公開API
	h.Store.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Combo.RegisterRoutes(e)

	//要ログイン
	h.Bowl.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Address.RegisterRoutes(e, cfg)
	h.Voucher.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
}
