package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/pricing"
	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// POST /checkout
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type CheckoutRequest struct {
	StoreID        int64  `json:"store_id"`
	ShippingMethod string `json:"shipping_method"`
	AddressID      *int64 `json:"address_id,omitempty"`
	PaymentMethod  string `json:"payment_method"`
	VoucherCode    string `json:"voucher_code,omitempty"`
	TermsAccepted  bool   `json:"terms_accepted"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	//配送方法の選択肢は未ログインでも見られる
	e.GET("/shipping-options", h.shippingOptions)

	g := e.Group("/checkout")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.checkout)
}

func (h *CheckoutHandler) shippingOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, pricing.Options())
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//二重送信防止キーはヘッダーから受け取る。
	//古いクライアントは送ってこないので、その場合はこちらで採番する
	idemKey := c.Request().Header.Get("X-Idempotency-Key")
	if idemKey == "" {
		idemKey = uuid.NewString()
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), customerID, usecase.CheckoutInput{
		StoreID:        req.StoreID,
		ShippingMethod: req.ShippingMethod,
		AddressID:      req.AddressID,
		PaymentMethod:  req.PaymentMethod,
		VoucherCode:    req.VoucherCode,
		TermsAccepted:  req.TermsAccepted,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
