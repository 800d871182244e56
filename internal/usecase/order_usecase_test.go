package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type qrGenStub struct{ png []byte }

func (g *qrGenStub) Generate(pickupCode string) ([]byte, error) { return g.png, nil }

// =====================
// Fixture
// =====================

type orderFixture struct {
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	inventory *InventoryRepoMock
	combos    *ComboRepoMock

	uc *usecase.OrderUsecase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		inventory: new(InventoryRepoMock),
		combos:    new(ComboRepoMock),
	}

	tx := &TxManagerStub{Repos: &TxReposStub{
		orders:     f.orders,
		orderItems: f.items,
		inventory:  f.inventory,
		combos:     f.combos,
	}}

	f.uc = usecase.NewOrderUsecase(tx, &qrGenStub{png: []byte("png")})
	return f
}

func pendingOrder(id int64, customerID int64) model.Order {
	return model.Order{
		ID:         id,
		CustomerID: customerID,
		StoreID:    3,
		Status:     model.OrderStatusPending,
		OrderType:  model.OrderTypePickup,
	}
}

// =====================
// Cancel
// =====================

func TestOrderUsecase_CancelMyOrder_RestoresStockAndCancels(t *testing.T) {
	f := newOrderFixture()

	productID := int64(20)
	f.orders.On("FindByID", mock.Anything, int64(77)).Return(pendingOrder(77, 1), nil)
	f.items.On("ListByOrderID", mock.Anything, int64(77)).Return([]model.OrderItem{
		{ID: 1, OrderID: 77, ProductID: &productID, Quantity: 2},
	}, nil)
	f.inventory.On("IncreaseStock", mock.Anything, int64(20), int64(2)).Return(nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(77), model.OrderStatusCanceled).Return(nil)

	err := f.uc.CancelMyOrder(context.Background(), 1, 77)
	assert.NoError(t, err)

	f.inventory.AssertCalled(t, "IncreaseStock", mock.Anything, int64(20), int64(2))
	f.orders.AssertCalled(t, "UpdateStatus", mock.Anything, int64(77), model.OrderStatusCanceled)
}

func TestOrderUsecase_CancelMyOrder_ComboRestoresComponents(t *testing.T) {
	f := newOrderFixture()

	comboID := int64(30)
	f.orders.On("FindByID", mock.Anything, int64(78)).Return(pendingOrder(78, 1), nil)
	f.items.On("ListByOrderID", mock.Anything, int64(78)).Return([]model.OrderItem{
		{ID: 1, OrderID: 78, ComboID: &comboID, Quantity: 2},
	}, nil)
	f.combos.On("ListItems", mock.Anything, comboID).Return([]model.ComboItem{
		{ComboID: comboID, ProductID: 20, Quantity: 1},
		{ComboID: comboID, ProductID: 21, Quantity: 2},
	}, nil)
	//セット数量2 × 内訳数量
	f.inventory.On("IncreaseStock", mock.Anything, int64(20), int64(2)).Return(nil)
	f.inventory.On("IncreaseStock", mock.Anything, int64(21), int64(4)).Return(nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(78), model.OrderStatusCanceled).Return(nil)

	err := f.uc.CancelMyOrder(context.Background(), 1, 78)
	assert.NoError(t, err)

	f.inventory.AssertCalled(t, "IncreaseStock", mock.Anything, int64(21), int64(4))
}

func TestOrderUsecase_CancelMyOrder_OthersOrderIsNotFound(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(77)).Return(pendingOrder(77, 999), nil)

	err := f.uc.CancelMyOrder(context.Background(), 1, 77)
	assertErrContains(t, err, "not found")
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_CancelMyOrder_OnlyPendingCanBeCanceled(t *testing.T) {
	f := newOrderFixture()

	o := pendingOrder(77, 1)
	o.Status = model.OrderStatusCanceled
	f.orders.On("FindByID", mock.Anything, int64(77)).Return(o, nil)

	err := f.uc.CancelMyOrder(context.Background(), 1, 77)
	assertErrContains(t, err, "order cannot be canceled")
	f.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
