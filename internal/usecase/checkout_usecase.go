package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/pricing"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

// 注文確定イベントの発行先（Kafka実装はinfra/event）
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, e model.OrderPlacedEvent) error
}

// ID生成（uuid実装はmain側）
type IDGenerator interface {
	NewID() string
}

// 注文確定（チェックアウト）の業務ロジック。
// 検証→トランザクション内で確定→後処理（ミラー削除・イベント発行）の順に進む
type CheckoutUsecase struct {
	tx        repo.TransactionManager
	customers repo.CustomerRepository
	addresses repo.AddressRepository
	stores    repo.StoreRepository
	mirror    CartMirror
	events    OrderEventPublisher
	idGen     IDGenerator

	//外部決済ゲートウェイのベースURL（中身は管轄外）
	gatewayBaseURL string
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	customers repo.CustomerRepository,
	addresses repo.AddressRepository,
	stores repo.StoreRepository,
	mirror CartMirror,
	events OrderEventPublisher,
	idGen IDGenerator,
	gatewayBaseURL string,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:             tx,
		customers:      customers,
		addresses:      addresses,
		stores:         stores,
		mirror:         mirror,
		events:         events,
		idGen:          idGen,
		gatewayBaseURL: gatewayBaseURL,
	}
}

type CheckoutInput struct {
	StoreID        int64
	ShippingMethod string
	AddressID      *int64
	PaymentMethod  string
	VoucherCode    string
	TermsAccepted  bool
	IdempotencyKey string
}

type CheckoutOutput struct {
	OrderID       int64  `json:"order_id"`
	OrderType     string `json:"order_type"`
	PaymentMethod string `json:"payment_method"`
	Subtotal      int64  `json:"subtotal"`
	ShippingCost  int64  `json:"shipping_cost"`
	Tax           int64  `json:"tax"`
	Discount      int64  `json:"discount"`
	Total         int64  `json:"total"`

	//外部決済のときだけ入る（ここへリダイレクトさせる）
	PaymentURL string `json:"payment_url,omitempty"`

	//PICKUPのときだけ入る（店頭提示用）
	PickupCode string `json:"pickup_code,omitempty"`
}

func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, customerID int64, in CheckoutInput) (CheckoutOutput, error) {
	//----- 検証フェーズ。1つでも落ちたらネットワーク呼び出しの前に返す -----

	if customerID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !in.TermsAccepted {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "terms must be accepted")
	}

	method := pricing.ShippingMethod(strings.ToLower(strings.TrimSpace(in.ShippingMethod)))
	opt, ok := pricing.Option(method)
	if !ok {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid shipping method")
	}

	payment := model.PaymentMethod(strings.ToUpper(strings.TrimSpace(in.PaymentMethod)))
	switch payment {
	case model.PaymentMethodCOD, model.PaymentMethodVNPay:
	default:
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment method")
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	//会員の存在確認
	cust, err := u.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !cust.IsActive {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//店舗の存在確認
	store, err := u.stores.FindByID(ctx, in.StoreID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid store")
		}
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !store.IsActive {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid store")
	}

	//pickupなら受け取り、それ以外は配送。
	//配送のときだけ住所が要る（無ければここで止める）
	orderType := model.OrderTypeShipping
	if pricing.IsPickup(method) {
		orderType = model.OrderTypePickup
	}

	var addrID *int64
	if orderType == model.OrderTypeShipping {
		if in.AddressID == nil || *in.AddressID <= 0 {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "shipping address required")
		}

		addr, err := u.addresses.FindByID(ctx, *in.AddressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repo.ErrNotFound) {
				return CheckoutOutput{}, NewHTTPError(http.StatusNotFound, "address not found")
			}
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		//所有チェック（他人の住所なら403）
		if addr.CustomerID != customerID {
			return CheckoutOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
		}
		addrID = in.AddressID
	}

	var out CheckoutOutput
	replayed := false

	//----- 確定フェーズ。在庫・バウチャー・注文は1トランザクション -----
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, customerID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			out = u.toOutput(existing)
			replayed = true
			return nil
		}

		//ACTIVEカート取得
		cart, err := r.Carts().FindActiveByCustomerID(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カート明細取得
		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//明細を注文スナップショットに変換しつつ在庫を減らす
		orderItems, subtotal, err := u.reserveLines(ctx, r, cartItems)
		if err != nil {
			return err
		}

		//バウチャーは確定時に再検証して、同じトランザクションで利用記録を残す。
		//（適用ボタン連打で二重割引にならないのはこのため）
		var voucherID *int64
		var discount int64 = 0
		if code := NormalizeVoucherCode(in.VoucherCode); code != "" {
			v, err := r.Vouchers().FindByCode(ctx, code)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, "voucher not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			used, err := r.Vouchers().CountRedemptions(ctx, v.ID, customerID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			d, reason, ok := evaluateVoucher(v, used, subtotal, time.Now())
			if !ok {
				return NewHTTPError(http.StatusBadRequest, reason)
			}
			voucherID = &v.ID
			discount = d
		}

		quote := pricing.Calculate(subtotal, method, discount)

		now := time.Now()
		order := model.Order{
			CustomerID:     customerID,
			StoreID:        in.StoreID,
			Status:         model.OrderStatusPending,
			OrderType:      orderType,
			PaymentMethod:  payment,
			VoucherID:      voucherID,
			DiscountAmount: quote.Discount,
			Subtotal:       quote.Subtotal,
			TaxAmount:      quote.Tax,
			TotalPrice:     quote.Total,
			IdempotencyKey: key,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		//配送情報は SHIPPING のときだけ埋める
		if orderType == model.OrderTypeShipping {
			shipDate := now.Add(shipLeadTime(method))
			order.AddressID = addrID
			order.CourierName = opt.Courier
			order.ShipDate = &shipDate
			order.ShippingCost = quote.ShippingCost
		} else {
			order.PickupCode = u.idGen.NewID()
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			//競合（同時で同じキーが入った等）はもう一回検索して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, customerID, key)
			if err2 == nil && found2 {
				out = u.toOutput(ex2)
				replayed = true
				return nil
			}
			return NewHTTPError(http.StatusBadRequest, "idempotency conflict")
		}
		order.ID = orderID

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//バウチャー利用記録
		if voucherID != nil {
			err := r.Vouchers().CreateRedemption(ctx, model.VoucherRedemption{
				VoucherID:  *voucherID,
				CustomerID: customerID,
				OrderID:    orderID,
			})
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		//カートをCHECKED_OUTにして、明細をクリア（再注文防止）
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = u.toOutput(order)
		return nil
	})

	if err != nil {
		//失敗ならカートもミラーもそのまま（ユーザーが再試行できる）
		return CheckoutOutput{}, err
	}

	//----- 成功後の副作用。注文自体はもう確定している -----
	//リプレイ（同じキーの再送）なら初回にやった副作用は繰り返さない
	if replayed {
		return out, nil
	}

	//ミラー削除（ベストエフォート。TTLでも消える）
	_ = u.mirror.Delete(ctx, customerID)

	//注文確定イベント（ベストエフォート）
	if u.events != nil {
		_ = u.events.PublishOrderPlaced(ctx, model.OrderPlacedEvent{
			OrderID:       out.OrderID,
			CustomerID:    customerID,
			StoreID:       in.StoreID,
			OrderType:     orderType,
			PaymentMethod: payment,
			TotalPrice:    out.Total,
			PlacedAt:      time.Now(),
		})
	}

	return out, nil
}

// カート明細ごとに在庫を減らし、注文明細スナップショットを作る。
// セットは内訳の商品単位で減算、ボウルは在庫対象外
func (u *CheckoutUsecase) reserveLines(ctx context.Context, r repo.TxRepos, cartItems []model.CartItem) ([]model.OrderItem, int64, error) {
	orderItems := make([]model.OrderItem, 0, len(cartItems))
	var subtotal int64 = 0

	for _, ci := range cartItems {
		if !ci.Ref().Valid() {
			return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid cart item")
		}

		switch {
		case ci.ProductID != nil:
			p, err := r.Products().FindByID(ctx, *ci.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid product")
			}
			if err != nil {
				return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid product")
			}

			//在庫減算（足りないなら false）
			enough, err := r.Inventory().DecreaseStockIfEnough(ctx, *ci.ProductID, ci.Quantity)
			if err != nil {
				return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !enough {
				return nil, 0, NewHTTPError(http.StatusBadRequest, "out of stock")
			}

		case ci.ComboID != nil:
			cb, err := r.Combos().FindByID(ctx, *ci.ComboID)
			if errors.Is(err, repo.ErrNotFound) {
				return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid combo")
			}
			if err != nil {
				return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !cb.IsActive {
				return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid combo")
			}

			//セットは内訳の商品単位で在庫を減らす
			comboItems, err := r.Combos().ListItems(ctx, *ci.ComboID)
			if err != nil {
				return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range comboItems {
				enough, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity*ci.Quantity)
				if err != nil {
					return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if !enough {
					return nil, 0, NewHTTPError(http.StatusBadRequest, "out of stock")
				}
			}

		case ci.BowlID != nil:
			b, err := r.Bowls().FindByID(ctx, *ci.BowlID)
			if errors.Is(err, repo.ErrNotFound) {
				return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid bowl")
			}
			if err != nil {
				return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			_ = b
		}

		//スナップショット
		orderItems = append(orderItems, model.OrderItem{
			ProductID:         ci.ProductID,
			ComboID:           ci.ComboID,
			BowlID:            ci.BowlID,
			NameSnapshot:      ci.NameSnapshot,
			UnitPriceSnapshot: ci.UnitPriceSnapshot,
			Quantity:          ci.Quantity,
		})

		subtotal += ci.SubTotal()
	}

	return orderItems, subtotal, nil
}

func (u *CheckoutUsecase) toOutput(o model.Order) CheckoutOutput {
	out := CheckoutOutput{
		OrderID:       o.ID,
		OrderType:     string(o.OrderType),
		PaymentMethod: string(o.PaymentMethod),
		Subtotal:      o.Subtotal,
		ShippingCost:  o.ShippingCost,
		Tax:           o.TaxAmount,
		Discount:      o.DiscountAmount,
		Total:         o.TotalPrice,
		PickupCode:    o.PickupCode,
	}

	//外部決済はゲートウェイURLへ誘導する
	if o.PaymentMethod == model.PaymentMethodVNPay {
		out.PaymentURL = fmt.Sprintf("%s/pay?order_id=%d&amount=%d", u.gatewayBaseURL, o.ID, o.TotalPrice)
	}

	return out
}

// 発送予定。expressは当日扱いで最短にする
func shipLeadTime(method pricing.ShippingMethod) time.Duration {
	if method == pricing.ShippingExpress {
		return 6 * time.Hour
	}
	return 48 * time.Hour
}
