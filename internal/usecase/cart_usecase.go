package usecase

import (
	"context"
	"encoding/json"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// チェックアウト中のカートの永続ミラー。
// 変更のたびに書き、注文成功のときだけ消す（失敗ではカートを失わない）
type CartMirror interface {
	Save(ctx context.Context, customerID int64, payload []byte) error
	Load(ctx context.Context, customerID int64) ([]byte, bool, error)
	Delete(ctx context.Context, customerID int64) error
}

// /cartの業務ロジック。
// 明細は Product / Combo / Bowl のどれか1つだけを指す
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	comboRepo    repo.ComboRepository
	bowlRepo     repo.BowlRepository
	mirror       CartMirror
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	comboRepo repo.ComboRepository,
	bowlRepo repo.BowlRepository,
	mirror CartMirror,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		comboRepo:    comboRepo,
		bowlRepo:     bowlRepo,
		mirror:       mirror,
	}
}

type CartItemResponse struct {
	ID        int64  `json:"id"`
	ProductID *int64 `json:"product_id,omitempty"`
	ComboID   *int64 `json:"combo_id,omitempty"`
	BowlID    *int64 `json:"bowl_id,omitempty"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	SubTotal  int64  `json:"sub_total"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total int64              `json:"total"`
}

type AddCartInput struct {
	Ref      model.LineRef
	Quantity int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカート取得。ミラーにあればそれを返し、
// 無ければDBから組み立ててミラーを埋め直す
func (u *CartUsecase) GetCart(ctx context.Context, customerID int64) (CartResponse, error) {
	if customerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if payload, ok, err := u.mirror.Load(ctx, customerID); err == nil && ok {
		var res CartResponse
		if err := json.Unmarshal(payload, &res); err == nil {
			return res, nil
		}
		//壊れたミラーは無視してDBから作り直す
	}

	cart, err := u.cartRepo.GetOrCreateActiveByCustomerID(ctx, customerID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildAndMirror(ctx, customerID, cart.ID)
}

// AddToCart はカートに追加（同一対象は数量加算）。
// 単価と名前は追加時点のスナップショット
func (u *CartUsecase) AddToCart(ctx context.Context, customerID int64, in AddCartInput) (CartResponse, error) {
	if customerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !in.Ref.Valid() {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "exactly one of product_id, combo_id, bowl_id is required")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// ACTIVEカート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateActiveByCustomerID(ctx, customerID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//対象の存在・価格を解決
	name, unitPrice, err := u.resolveLine(ctx, customerID, cart.ID, in)
	if err != nil {
		return CartResponse{}, err
	}

	if err := u.cartItemRepo.UpsertByCartAndRef(ctx, cart.ID, in.Ref, in.Quantity, unitPrice, name); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildAndMirror(ctx, customerID, cart.ID)
}

// 対象（Product/Combo/Bowl）ごとの検証と価格解決
func (u *CartUsecase) resolveLine(ctx context.Context, customerID int64, cartID int64, in AddCartInput) (string, int64, error) {
	switch {
	case in.Ref.ProductID != nil:
		p, err := u.productRepo.FindByID(ctx, *in.Ref.ProductID)
		if err == repo.ErrNotFound {
			return "", 0, NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		if err != nil {
			return "", 0, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive {
			return "", 0, NewHTTPError(http.StatusBadRequest, "invalid product")
		}

		//既存数量＋追加分が在庫を超えないか
		items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
		if err != nil {
			return "", 0, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		var existingQty int64 = 0
		for _, it := range items {
			if it.Ref().Equal(in.Ref) {
				existingQty = it.Quantity
				break
			}
		}
		if existingQty+in.Quantity > p.Stock {
			return "", 0, NewHTTPError(http.StatusBadRequest, "stock exceeded")
		}
		return p.Name, p.Price, nil

	case in.Ref.ComboID != nil:
		cb, err := u.comboRepo.FindByID(ctx, *in.Ref.ComboID)
		if err == repo.ErrNotFound {
			return "", 0, NewHTTPError(http.StatusBadRequest, "invalid combo")
		}
		if err != nil {
			return "", 0, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !cb.IsActive {
			return "", 0, NewHTTPError(http.StatusBadRequest, "invalid combo")
		}
		return cb.Name, cb.Price, nil

	default:
		b, err := u.bowlRepo.FindByID(ctx, *in.Ref.BowlID)
		if err == repo.ErrNotFound {
			return "", 0, NewHTTPError(http.StatusBadRequest, "invalid bowl")
		}
		if err != nil {
			return "", 0, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		//他人のボウルは入れられない
		if b.CustomerID != customerID {
			return "", 0, NewHTTPError(http.StatusBadRequest, "invalid bowl")
		}
		return b.Name, b.Price, nil
	}
}

// 数量変更（所有チェック＋商品なら在庫チェック）。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, customerID int64, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if customerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	owned, err := u.cartItemRepo.IsOwnedByCustomer(ctx, cartItemID, customerID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if item.ProductID != nil {
		p, err := u.productRepo.FindByID(ctx, *item.ProductID)
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if in.Quantity > p.Stock {
			return CartResponse{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
		}
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildAndMirror(ctx, customerID, item.CartID)
}

func (u *CartUsecase) DeleteCartItem(ctx context.Context, customerID int64, cartItemID int64) (CartResponse, error) {
	if customerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartItemRepo.IsOwnedByCustomer(ctx, cartItemID, customerID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildAndMirror(ctx, customerID, item.CartID)
}

// DTOを組み立ててミラーへ書く
func (u *CartUsecase) buildAndMirror(ctx context.Context, customerID int64, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	res := CartResponse{Items: make([]CartItemResponse, 0, len(items))}
	for _, it := range items {
		res.Items = append(res.Items, CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			ComboID:   it.ComboID,
			BowlID:    it.BowlID,
			Name:      it.NameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
			SubTotal:  it.SubTotal(),
		})
		res.Total += it.SubTotal()
	}

	//ミラーはベストエフォート（落ちてもDBが正）
	if payload, err := json.Marshal(res); err == nil {
		_ = u.mirror.Save(ctx, customerID, payload)
	}

	return res, nil
}
