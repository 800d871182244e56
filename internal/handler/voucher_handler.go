package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /vouchers/validate
type VoucherHandler struct {
	uc *usecase.VoucherUsecase
}

// DI
func NewVoucherHandler(uc *usecase.VoucherUsecase) *VoucherHandler {
	return &VoucherHandler{uc: uc}
}

type ValidateVoucherRequest struct {
	Code       string `json:"code"`
	OrderTotal int64  `json:"order_total"`
}

func (h *VoucherHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/vouchers")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/validate", h.validate)
}

func (h *VoucherHandler) validate(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ValidateVoucherRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Validate(c.Request().Context(), customerID, usecase.ValidateVoucherInput{
		Code:       req.Code,
		OrderTotal: req.OrderTotal,
	})
	if err != nil {
		return writeError(c, err)
	}

	//業務ルールで弾かれたときも200（valid=falseと理由を返す）
	return c.JSON(http.StatusOK, out)
}
