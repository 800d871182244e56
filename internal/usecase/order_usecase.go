package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 店頭提示QRの生成（実装はpickup_qr.go）
type QRGenerator interface {
	Generate(pickupCode string) ([]byte, error)
}

type OrderUsecase struct {
	tx repo.TransactionManager
	qr QRGenerator
}

func NewOrderUsecase(tx repo.TransactionManager, qr QRGenerator) *OrderUsecase {
	return &OrderUsecase{tx: tx, qr: qr}
}

type OrderItemOutput struct {
	ProductID *int64 `json:"product_id,omitempty"`
	ComboID   *int64 `json:"combo_id,omitempty"`
	BowlID    *int64 `json:"bowl_id,omitempty"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	CustomerID    int64             `json:"customer_id"`
	StoreID       int64             `json:"store_id"`
	Status        string            `json:"status"`
	OrderType     string            `json:"order_type"`
	PaymentMethod string            `json:"payment_method"`
	AddressID     *int64            `json:"address_id,omitempty"`
	CourierName   string            `json:"courier_name,omitempty"`
	ShipDate      *time.Time        `json:"ship_date,omitempty"`
	ShippingCost  int64             `json:"shipping_cost"`
	PickupCode    string            `json:"pickup_code,omitempty"`
	Subtotal      int64             `json:"subtotal"`
	TaxAmount     int64             `json:"tax_amount"`
	Discount      int64             `json:"discount"`
	TotalPrice    int64             `json:"total_price"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderItemOutput `json:"items"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, customerID int64) ([]OrderOutput, error) {
	if customerID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//ページングはまずは固定で取る
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByCustomerID(ctx, customerID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, customerID int64, orderID int64) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.CustomerID != customerID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// PENDINGの自分の注文だけキャンセルできる。引き当てた在庫は戻す。
func (u *OrderUsecase) CancelMyOrder(ctx context.Context, customerID int64, orderID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.CustomerID != customerID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if o.Status != model.OrderStatusPending {
			return NewHTTPError(http.StatusBadRequest, "order cannot be canceled")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//在庫戻し（どんぶりは在庫を持たないので対象外）
		for _, it := range items {
			switch {
			case it.ProductID != nil:
				if err := r.Inventory().IncreaseStock(ctx, *it.ProductID, it.Quantity); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			case it.ComboID != nil:
				comboItems, err := r.Combos().ListItems(ctx, *it.ComboID)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				for _, ci := range comboItems {
					if err := r.Inventory().IncreaseStock(ctx, ci.ProductID, ci.Quantity*it.Quantity); err != nil {
						return NewHTTPError(http.StatusInternalServerError, "db error")
					}
				}
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCanceled); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// PICKUPの注文だけ、店頭提示用QR（PNG）を返す
func (u *OrderUsecase) GetPickupQR(ctx context.Context, customerID int64, orderID int64) ([]byte, error) {
	o, err := u.GetMyOrderDetail(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if o.OrderType != string(model.OrderTypePickup) || o.PickupCode == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "not a pickup order")
	}

	png, err := u.qr.Generate(o.PickupCode)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "qr error")
	}
	return png, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			ComboID:   it.ComboID,
			BowlID:    it.BowlID,
			Name:      it.NameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		StoreID:       o.StoreID,
		Status:        string(o.Status),
		OrderType:     string(o.OrderType),
		PaymentMethod: string(o.PaymentMethod),
		AddressID:     o.AddressID,
		CourierName:   o.CourierName,
		ShipDate:      o.ShipDate,
		ShippingCost:  o.ShippingCost,
		PickupCode:    o.PickupCode,
		Subtotal:      o.Subtotal,
		TaxAmount:     o.TaxAmount,
		Discount:      o.DiscountAmount,
		TotalPrice:    o.TotalPrice,
		CreatedAt:     o.CreatedAt,
		Items:         outItems,
	}
}
