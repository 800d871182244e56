package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerStub は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerStub struct {
	Repos repository.TxRepos
}

func (m *TxManagerStub) WithinTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	return fn(m.Repos)
}

type TxReposStub struct {
	orders     repository.OrderRepository
	orderItems repository.OrderItemRepository
	carts      repository.CartRepository
	cartItems  repository.CartItemRepository
	inventory  repository.InventoryRepository
	products   repository.ProductRepository
	combos     repository.ComboRepository
	bowls      repository.BowlRepository
	vouchers   repository.VoucherRepository
}

func (r *TxReposStub) Orders() repository.OrderRepository         { return r.orders }
func (r *TxReposStub) OrderItems() repository.OrderItemRepository { return r.orderItems }
func (r *TxReposStub) Carts() repository.CartRepository           { return r.carts }
func (r *TxReposStub) CartItems() repository.CartItemRepository   { return r.cartItems }
func (r *TxReposStub) Inventory() repository.InventoryRepository  { return r.inventory }
func (r *TxReposStub) Products() repository.ProductRepository     { return r.products }
func (r *TxReposStub) Combos() repository.ComboRepository         { return r.combos }
func (r *TxReposStub) Bowls() repository.BowlRepository           { return r.bowls }
func (r *TxReposStub) Vouchers() repository.VoucherRepository     { return r.vouchers }

// =====================
// Repository mocks
// =====================

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

type StoreRepoMock struct{ mock.Mock }

func (m *StoreRepoMock) ListActive(ctx context.Context) ([]model.Store, error) {
	panic("not used in usecase tests")
}

func (m *StoreRepoMock) FindByID(ctx context.Context, storeID int64) (model.Store, error) {
	args := m.Called(ctx, storeID)
	s, _ := args.Get(0).(model.Store)
	return s, args.Error(1)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, address model.Address) (model.Address, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Address, error) {
	args := m.Called(ctx, customerID)
	list, _ := args.Get(0).([]model.Address)
	return list, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, address model.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID int64) error {
	args := m.Called(ctx, addressID)
	return args.Error(0)
}

func (m *AddressRepoMock) IsOwnedByCustomer(ctx context.Context, addressID, customerID int64) (bool, error) {
	args := m.Called(ctx, addressID, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, customerID, addressID int64) error {
	args := m.Called(ctx, customerID, addressID)
	return args.Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindActiveByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndRef(ctx context.Context, cartID int64, ref model.LineRef, addQty int64, unitPriceSnapshot int64, nameSnapshot string) error {
	args := m.Called(ctx, cartID, ref, addQty, unitPriceSnapshot, nameSnapshot)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	ci, _ := args.Get(0).(model.CartItem)
	return ci, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedByCustomer(ctx context.Context, cartItemID int64, customerID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, customerID)
	return args.Bool(0), args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, customerID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, customerID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repository.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in usecase tests")
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

type ComboRepoMock struct{ mock.Mock }

func (m *ComboRepoMock) ListActive(ctx context.Context, storeID *int64, page int, limit int) ([]model.Combo, int64, error) {
	panic("not used in usecase tests")
}

func (m *ComboRepoMock) FindByID(ctx context.Context, comboID int64) (model.Combo, error) {
	args := m.Called(ctx, comboID)
	c, _ := args.Get(0).(model.Combo)
	return c, args.Error(1)
}

func (m *ComboRepoMock) ListItems(ctx context.Context, comboID int64) ([]model.ComboItem, error) {
	args := m.Called(ctx, comboID)
	items, _ := args.Get(0).([]model.ComboItem)
	return items, args.Error(1)
}

type BowlRepoMock struct{ mock.Mock }

func (m *BowlRepoMock) Create(ctx context.Context, bowl model.Bowl, ingredients []model.BowlIngredient) (model.Bowl, error) {
	panic("not used in usecase tests")
}

func (m *BowlRepoMock) FindByID(ctx context.Context, bowlID int64) (model.Bowl, error) {
	args := m.Called(ctx, bowlID)
	b, _ := args.Get(0).(model.Bowl)
	return b, args.Error(1)
}

func (m *BowlRepoMock) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Bowl, error) {
	panic("not used in usecase tests")
}

func (m *BowlRepoMock) ListIngredients(ctx context.Context, bowlID int64) ([]model.BowlIngredient, error) {
	panic("not used in usecase tests")
}

// =====================
// Mirror / Events / IDGen
// =====================

type CartMirrorMock struct{ mock.Mock }

func (m *CartMirrorMock) Save(ctx context.Context, customerID int64, payload []byte) error {
	args := m.Called(ctx, customerID, payload)
	return args.Error(0)
}

func (m *CartMirrorMock) Load(ctx context.Context, customerID int64) ([]byte, bool, error) {
	args := m.Called(ctx, customerID)
	b, _ := args.Get(0).([]byte)
	return b, args.Bool(1), args.Error(2)
}

func (m *CartMirrorMock) Delete(ctx context.Context, customerID int64) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

type OrderEventsMock struct{ mock.Mock }

func (m *OrderEventsMock) PublishOrderPlaced(ctx context.Context, e model.OrderPlacedEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type fixedIDGen struct{ id string }

func (g *fixedIDGen) NewID() string { return g.id }

// =====================
// Fixture
// =====================

type checkoutFixture struct {
	customers *CustomerRepoMock
	stores    *StoreRepoMock
	addresses *AddressRepoMock
	carts     *CartRepoMock
	cartItems *CartItemRepoMock
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	inventory *InventoryRepoMock
	products  *ProductRepoMock
	combos    *ComboRepoMock
	bowls     *BowlRepoMock
	vouchers  *VoucherRepoMock
	mirror    *CartMirrorMock
	events    *OrderEventsMock

	uc *usecase.CheckoutUsecase
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		customers: new(CustomerRepoMock),
		stores:    new(StoreRepoMock),
		addresses: new(AddressRepoMock),
		carts:     new(CartRepoMock),
		cartItems: new(CartItemRepoMock),
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		inventory: new(InventoryRepoMock),
		products:  new(ProductRepoMock),
		combos:    new(ComboRepoMock),
		bowls:     new(BowlRepoMock),
		vouchers:  new(VoucherRepoMock),
		mirror:    new(CartMirrorMock),
		events:    new(OrderEventsMock),
	}

	tx := &TxManagerStub{Repos: &TxReposStub{
		orders:     f.orders,
		orderItems: f.items,
		carts:      f.carts,
		cartItems:  f.cartItems,
		inventory:  f.inventory,
		products:   f.products,
		combos:     f.combos,
		bowls:      f.bowls,
		vouchers:   f.vouchers,
	}}

	f.uc = usecase.NewCheckoutUsecase(
		tx, f.customers, f.addresses, f.stores,
		f.mirror, f.events, &fixedIDGen{id: "pickup-code-1"},
		"https://pay.example.com",
	)
	return f
}

func (f *checkoutFixture) activeCustomerAndStore() {
	f.customers.On("FindByID", mock.Anything, int64(1)).Return(model.Customer{ID: 1, IsActive: true}, nil)
	f.stores.On("FindByID", mock.Anything, int64(3)).Return(model.Store{ID: 3, IsActive: true}, nil)
}

func productLine(productID int64, qty int64, price int64, name string) model.CartItem {
	return model.CartItem{
		ID:                1,
		CartID:            5,
		ProductID:         &productID,
		NameSnapshot:      name,
		Quantity:          qty,
		UnitPriceSnapshot: price,
	}
}

func pickupInput() usecase.CheckoutInput {
	return usecase.CheckoutInput{
		StoreID:        3,
		ShippingMethod: "pickup",
		PaymentMethod:  "COD",
		TermsAccepted:  true,
		IdempotencyKey: "key-1",
	}
}

// =====================
// Guardrails
// =====================

func TestCheckoutUsecase_PlaceOrder_TermsNotAccepted(t *testing.T) {
	f := newCheckoutFixture()

	in := pickupInput()
	in.TermsAccepted = false

	_, err := f.uc.PlaceOrder(context.Background(), 1, in)
	assertErrContains(t, err, "terms must be accepted")
	f.customers.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_InvalidShippingMethod(t *testing.T) {
	f := newCheckoutFixture()

	in := pickupInput()
	in.ShippingMethod = "drone"

	_, err := f.uc.PlaceOrder(context.Background(), 1, in)
	assertErrContains(t, err, "invalid shipping method")
}

func TestCheckoutUsecase_PlaceOrder_InvalidPaymentMethod(t *testing.T) {
	f := newCheckoutFixture()

	in := pickupInput()
	in.PaymentMethod = "BITCOIN"

	_, err := f.uc.PlaceOrder(context.Background(), 1, in)
	assertErrContains(t, err, "invalid payment method")
}

func TestCheckoutUsecase_PlaceOrder_MissingIdempotencyKey(t *testing.T) {
	f := newCheckoutFixture()

	in := pickupInput()
	in.IdempotencyKey = "  "

	_, err := f.uc.PlaceOrder(context.Background(), 1, in)
	assertErrContains(t, err, "invalid idempotency_key")
}

func TestCheckoutUsecase_PlaceOrder_ShippingRequiresAddress(t *testing.T) {
	f := newCheckoutFixture()
	f.activeCustomerAndStore()

	in := pickupInput()
	in.ShippingMethod = "standard"
	in.AddressID = nil

	_, err := f.uc.PlaceOrder(context.Background(), 1, in)
	assertErrContains(t, err, "shipping address required")
}

func TestCheckoutUsecase_PlaceOrder_OthersAddressIsForbidden(t *testing.T) {
	f := newCheckoutFixture()
	f.activeCustomerAndStore()
	f.addresses.On("FindByID", mock.Anything, int64(9)).Return(model.Address{ID: 9, CustomerID: 999}, nil)

	addrID := int64(9)
	in := pickupInput()
	in.ShippingMethod = "standard"
	in.AddressID = &addrID

	_, err := f.uc.PlaceOrder(context.Background(), 1, in)
	assertErrContains(t, err, "forbidden")
}

// =====================
// Happy paths
// =====================

func TestCheckoutUsecase_PlaceOrder_PickupCOD(t *testing.T) {
	f := newCheckoutFixture()
	f.activeCustomerAndStore()

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByCustomerID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, CustomerID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{productLine(20, 2, 100000, "Phở bò")}, nil)
	f.products.On("FindByID", mock.Anything, int64(20)).Return(model.Product{ID: 20, IsActive: true, Stock: 10}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(20), int64(2)).Return(true, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(77), nil)
	f.items.On("CreateBulk", mock.Anything, int64(77), mock.Anything).Return(nil)
	f.carts.On("UpdateStatus", mock.Anything, int64(5), model.CartStatusCheckedOut).Return(nil)
	f.carts.On("Clear", mock.Anything, int64(5)).Return(nil)
	f.mirror.On("Delete", mock.Anything, int64(1)).Return(nil)
	f.events.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.PlaceOrder(context.Background(), 1, pickupInput())
	assert.NoError(t, err)

	//200000 + 送料0 + 税16000
	assert.Equal(t, int64(77), out.OrderID)
	assert.Equal(t, "PICKUP", out.OrderType)
	assert.Equal(t, int64(200000), out.Subtotal)
	assert.Equal(t, int64(0), out.ShippingCost)
	assert.Equal(t, int64(16000), out.Tax)
	assert.Equal(t, int64(216000), out.Total)
	assert.Equal(t, "pickup-code-1", out.PickupCode)
	assert.Empty(t, out.PaymentURL)

	f.carts.AssertCalled(t, "UpdateStatus", mock.Anything, int64(5), model.CartStatusCheckedOut)
	f.mirror.AssertCalled(t, "Delete", mock.Anything, int64(1))
	f.events.AssertCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_ExpressVNPay(t *testing.T) {
	f := newCheckoutFixture()
	f.activeCustomerAndStore()
	f.addresses.On("FindByID", mock.Anything, int64(9)).Return(model.Address{ID: 9, CustomerID: 1}, nil)

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByCustomerID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, CustomerID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{productLine(20, 2, 100000, "Phở bò")}, nil)
	f.products.On("FindByID", mock.Anything, int64(20)).Return(model.Product{ID: 20, IsActive: true, Stock: 10}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(20), int64(2)).Return(true, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(78), nil)
	f.items.On("CreateBulk", mock.Anything, int64(78), mock.Anything).Return(nil)
	f.carts.On("UpdateStatus", mock.Anything, int64(5), model.CartStatusCheckedOut).Return(nil)
	f.carts.On("Clear", mock.Anything, int64(5)).Return(nil)
	f.mirror.On("Delete", mock.Anything, int64(1)).Return(nil)
	f.events.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(nil)

	addrID := int64(9)
	in := pickupInput()
	in.ShippingMethod = "express"
	in.PaymentMethod = "VNPAY"
	in.AddressID = &addrID

	out, err := f.uc.PlaceOrder(context.Background(), 1, in)
	assert.NoError(t, err)

	//200000 + 送料50000 + 税16000
	assert.Equal(t, "SHIPPING", out.OrderType)
	assert.Equal(t, int64(50000), out.ShippingCost)
	assert.Equal(t, int64(266000), out.Total)
	assert.Equal(t, "https://pay.example.com/pay?order_id=78&amount=266000", out.PaymentURL)
	assert.Empty(t, out.PickupCode)
}

func TestCheckoutUsecase_PlaceOrder_VoucherAppliedInTx(t *testing.T) {
	f := newCheckoutFixture()
	f.activeCustomerAndStore()

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByCustomerID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, CustomerID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{productLine(20, 2, 100000, "Phở bò")}, nil)
	f.products.On("FindByID", mock.Anything, int64(20)).Return(model.Product{ID: 20, IsActive: true, Stock: 10}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(20), int64(2)).Return(true, nil)
	f.vouchers.On("FindByCode", mock.Anything, "GIAM10").Return(activeVoucher(), nil)
	f.vouchers.On("CountRedemptions", mock.Anything, int64(10), int64(1)).Return(int64(0), nil)
	f.vouchers.On("CreateRedemption", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(79), nil)
	f.items.On("CreateBulk", mock.Anything, int64(79), mock.Anything).Return(nil)
	f.carts.On("UpdateStatus", mock.Anything, int64(5), model.CartStatusCheckedOut).Return(nil)
	f.carts.On("Clear", mock.Anything, int64(5)).Return(nil)
	f.mirror.On("Delete", mock.Anything, int64(1)).Return(nil)
	f.events.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(nil)

	in := pickupInput()
	in.VoucherCode = "giam10"

	out, err := f.uc.PlaceOrder(context.Background(), 1, in)
	assert.NoError(t, err)

	//10% = 20000引き
	assert.Equal(t, int64(20000), out.Discount)
	assert.Equal(t, int64(196000), out.Total)

	f.vouchers.AssertCalled(t, "CreateRedemption", mock.Anything, mock.MatchedBy(func(r model.VoucherRedemption) bool {
		return r.VoucherID == 10 && r.CustomerID == 1 && r.OrderID == 79
	}))
}

// =====================
// Replays and failures
// =====================

func TestCheckoutUsecase_PlaceOrder_IdempotentReplay(t *testing.T) {
	f := newCheckoutFixture()
	f.activeCustomerAndStore()

	existing := model.Order{
		ID:            77,
		OrderType:     model.OrderTypePickup,
		PaymentMethod: model.PaymentMethodCOD,
		Subtotal:      200000,
		TaxAmount:     16000,
		TotalPrice:    216000,
		PickupCode:    "pickup-code-1",
	}
	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(existing, true, nil)

	out, err := f.uc.PlaceOrder(context.Background(), 1, pickupInput())
	assert.NoError(t, err)

	//同じキーなら同じ注文が返り、新規作成も在庫減算も走らない
	assert.Equal(t, int64(77), out.OrderID)
	assert.Equal(t, int64(216000), out.Total)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)

	//副作用（ミラー削除・イベント）は初回に済んでいるので繰り返さない
	f.mirror.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.events.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_OutOfStock(t *testing.T) {
	f := newCheckoutFixture()
	f.activeCustomerAndStore()

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByCustomerID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, CustomerID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{productLine(20, 99, 100000, "Phở bò")}, nil)
	f.products.On("FindByID", mock.Anything, int64(20)).Return(model.Product{ID: 20, IsActive: true, Stock: 1}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(20), int64(99)).Return(false, nil)

	_, err := f.uc.PlaceOrder(context.Background(), 1, pickupInput())
	assertErrContains(t, err, "out of stock")

	//失敗時はカートもミラーも残す（再試行できる）
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.mirror.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	f.activeCustomerAndStore()

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByCustomerID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, CustomerID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)

	_, err := f.uc.PlaceOrder(context.Background(), 1, pickupInput())
	assertErrContains(t, err, "cart empty")
}

func TestCheckoutUsecase_PlaceOrder_ComboDecrementsComponents(t *testing.T) {
	f := newCheckoutFixture()
	f.activeCustomerAndStore()

	comboID := int64(30)
	line := model.CartItem{
		ID: 1, CartID: 5, ComboID: &comboID,
		NameSnapshot: "Combo trưa", Quantity: 2, UnitPriceSnapshot: 150000,
	}

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByCustomerID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, CustomerID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{line}, nil)
	f.combos.On("FindByID", mock.Anything, comboID).Return(model.Combo{ID: comboID, IsActive: true}, nil)
	f.combos.On("ListItems", mock.Anything, comboID).Return([]model.ComboItem{
		{ComboID: comboID, ProductID: 20, Quantity: 1},
		{ComboID: comboID, ProductID: 21, Quantity: 2},
	}, nil)
	//セット数量2 × 内訳数量
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(20), int64(2)).Return(true, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(21), int64(4)).Return(true, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(80), nil)
	f.items.On("CreateBulk", mock.Anything, int64(80), mock.Anything).Return(nil)
	f.carts.On("UpdateStatus", mock.Anything, int64(5), model.CartStatusCheckedOut).Return(nil)
	f.carts.On("Clear", mock.Anything, int64(5)).Return(nil)
	f.mirror.On("Delete", mock.Anything, int64(1)).Return(nil)
	f.events.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.PlaceOrder(context.Background(), 1, pickupInput())
	assert.NoError(t, err)
	assert.Equal(t, int64(300000), out.Subtotal)

	f.inventory.AssertCalled(t, "DecreaseStockIfEnough", mock.Anything, int64(21), int64(4))
}

func TestCheckoutUsecase_PlaceOrder_CreateConflictReturnsExisting(t *testing.T) {
	f := newCheckoutFixture()
	f.activeCustomerAndStore()

	existing := model.Order{ID: 77, OrderType: model.OrderTypePickup, PaymentMethod: model.PaymentMethodCOD, TotalPrice: 216000, PickupCode: "pickup-code-1"}

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(model.Order{}, false, nil).Once()
	f.carts.On("FindActiveByCustomerID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, CustomerID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{productLine(20, 2, 100000, "Phở bò")}, nil)
	f.products.On("FindByID", mock.Anything, int64(20)).Return(model.Product{ID: 20, IsActive: true, Stock: 10}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(20), int64(2)).Return(true, nil)

	//同時リクエストで先を越されたケース
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(0), assert.AnError)
	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").Return(existing, true, nil).Once()

	out, err := f.uc.PlaceOrder(context.Background(), 1, pickupInput())
	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.OrderID)

	//イベントは先行リクエスト側が出す
	f.events.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything)
}
