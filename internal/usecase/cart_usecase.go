package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"shop/internal/domain/cart"
	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/shopspring/decimal"
)

// チェックアウトで在庫をどう減らすか
type CheckoutMode string

const (
	// 全商品の減算を1トランザクションで行う。失敗したら何も変わらない
	CheckoutAtomic CheckoutMode = "atomic"
	// 減算ごとに即commit。途中で失敗しても前の商品は減ったまま
	CheckoutPartial CheckoutMode = "partial"
)

const (
	msgAdded             = "Product added to cart."
	msgIncreased         = "Product quantity increased."
	msgUnavailable       = "Product is unavailable."
	msgLimitReached      = "Cart quantity for this product has reached available stock."
	msgUpdated           = "Cart updated."
	msgInvalidQuantity   = "Quantity must be zero or greater."
	msgStockExceeded     = "Cannot update cart: quantity exceeds available stock."
	msgCheckoutCompleted = "Purchase completed successfully!"
	msgLoginRequired     = "Please log in to use the cart."
)

// Shopper はリクエストのセッション。ゲストはUserID=0
type Shopper struct {
	SessionID string
	UserID    int64
}

type CartPolicy struct {
	RequireLogin bool
	CheckoutMode CheckoutMode
}

// POST /api/cart, PUT /api/cart/:id, POST /api/checkout の結果
type CartResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID int64  `json:"order_id,omitempty"`
}

// GET /api/cart の1件。availableは現在の在庫
type CartEntryOutput struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	Available int64   `json:"available"`
}

// CartUsecase はカートと在庫の突き合わせを行う。
// 在庫を変えるのはCheckoutだけ。
type CartUsecase struct {
	sessions repo.SessionStore
	products repo.ProductRepository
	direct   repo.TxRepos
	tx       repo.TransactionManager
	policy   CartPolicy
}

func NewCartUsecase(
	sessions repo.SessionStore,
	products repo.ProductRepository,
	direct repo.TxRepos,
	tx repo.TransactionManager,
	policy CartPolicy,
) *CartUsecase {
	if policy.CheckoutMode == "" {
		policy.CheckoutMode = CheckoutAtomic
	}
	return &CartUsecase{
		sessions: sessions,
		products: products,
		direct:   direct,
		tx:       tx,
		policy:   policy,
	}
}

// 1個追加
func (u *CartUsecase) AddOne(ctx context.Context, s Shopper, productID int64) (CartResult, error) {
	if err := u.authorize(s); err != nil {
		return CartResult{}, err
	}

	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return CartResult{}, err
	}

	ledger, err := u.sessions.LoadLedger(ctx, s.SessionID)
	if err != nil {
		return CartResult{}, WrapHTTPError(http.StatusInternalServerError, "session store error", err)
	}

	created, err := ledger.AddOne(p)
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		return CartResult{}, WrapHTTPError(http.StatusBadRequest, msgUnavailable, err)
	case errors.Is(err, cart.ErrLimitReached):
		return CartResult{}, WrapHTTPError(http.StatusBadRequest, msgLimitReached, err)
	case err != nil:
		return CartResult{}, WrapHTTPError(http.StatusInternalServerError, "cart error", err)
	}

	if err := u.save(ctx, s, ledger); err != nil {
		return CartResult{}, err
	}

	if created {
		return CartResult{Success: true, Message: msgAdded}, nil
	}
	return CartResult{Success: true, Message: msgIncreased}, nil
}

// 数量を絶対値で設定。0なら削除
func (u *CartUsecase) SetQuantity(ctx context.Context, s Shopper, productID int64, qty int64) (CartResult, error) {
	if err := u.authorize(s); err != nil {
		return CartResult{}, err
	}

	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return CartResult{}, err
	}

	ledger, err := u.sessions.LoadLedger(ctx, s.SessionID)
	if err != nil {
		return CartResult{}, WrapHTTPError(http.StatusInternalServerError, "session store error", err)
	}

	err = ledger.SetQuantity(p, qty)
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		return CartResult{}, WrapHTTPError(http.StatusBadRequest, msgInvalidQuantity, err)
	case errors.Is(err, cart.ErrStockExceeded):
		return CartResult{}, WrapHTTPError(http.StatusBadRequest, msgStockExceeded, err)
	case err != nil:
		return CartResult{}, WrapHTTPError(http.StatusInternalServerError, "cart error", err)
	}

	if err := u.save(ctx, s, ledger); err != nil {
		return CartResult{}, err
	}
	return CartResult{Success: true, Message: msgUpdated}, nil
}

// 追加順に返す。在庫を超えていてもそのまま見せる
// 商品が消えていたら飛ばす
func (u *CartUsecase) ListEntries(ctx context.Context, s Shopper) ([]CartEntryOutput, error) {
	if u.noGuestSessionYet(s) {
		return []CartEntryOutput{}, nil
	}
	if err := u.authorize(s); err != nil {
		return nil, err
	}

	ledger, err := u.sessions.LoadLedger(ctx, s.SessionID)
	if err != nil {
		return nil, WrapHTTPError(http.StatusInternalServerError, "session store error", err)
	}

	out := make([]CartEntryOutput, 0, ledger.Len())
	for _, e := range ledger.Entries() {
		p, err := u.products.FindByID(ctx, e.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, WrapHTTPError(http.StatusInternalServerError, "db error", err)
		}

		out = append(out, CartEntryOutput{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price.InexactFloat64(),
			Quantity:  e.Quantity,
			Available: p.Quantity,
		})
	}
	return out, nil
}

// Checkout は追加順に在庫を条件付きで減らし、成功したら注文を記録する。
// カートは先に空にしておき、失敗したら元に戻す。注文が確定した後にカートが残ることはない。
func (u *CartUsecase) Checkout(ctx context.Context, s Shopper) (CartResult, error) {
	if u.noGuestSessionYet(s) {
		return CartResult{Success: true, Message: msgCheckoutCompleted}, nil
	}
	if err := u.authorize(s); err != nil {
		return CartResult{}, err
	}

	ledger, err := u.sessions.LoadLedger(ctx, s.SessionID)
	if err != nil {
		return CartResult{}, WrapHTTPError(http.StatusInternalServerError, "session store error", err)
	}

	//空なら何も変えずに成功
	if ledger.IsEmpty() {
		return CartResult{Success: true, Message: msgCheckoutCompleted}, nil
	}

	//在庫に触る前にカートを空にする。ここで失敗すれば何も変わらない
	entries := ledger.Entries()
	if err := u.save(ctx, s, cart.NewLedger()); err != nil {
		return CartResult{}, err
	}

	var orderID int64
	place := func(r repo.TxRepos) error {
		id, err := placeOrder(ctx, r, s, entries)
		if err != nil {
			return err
		}
		orderID = id
		return nil
	}

	if u.policy.CheckoutMode == CheckoutPartial {
		err = place(u.direct)
	} else {
		err = u.tx.WithinTx(ctx, place)
	}

	if err != nil {
		//注文は確定していないのでカートを戻す
		if restoreErr := u.sessions.SaveLedger(ctx, s.SessionID, ledger); restoreErr != nil && !errors.Is(restoreErr, repo.ErrSessionNotFound) {
			err = errors.Join(err, fmt.Errorf("restore cart: %w", restoreErr))
		}
	}

	var insufficient *cart.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		msg := fmt.Sprintf("Product %q is out of stock or insufficient quantity.", insufficient.ProductName)
		return CartResult{}, WrapHTTPError(http.StatusConflict, msg, err)
	case errors.Is(err, cart.ErrNotFound):
		return CartResult{}, WrapHTTPError(http.StatusNotFound, msgUnavailable, err)
	case err != nil:
		return CartResult{}, WrapHTTPError(http.StatusInternalServerError, "db error", err)
	}

	return CartResult{Success: true, Message: msgCheckoutCompleted, OrderID: orderID}, nil
}

// 在庫減算と注文作成。rがTxかどうかで原子性が変わる
func placeOrder(ctx context.Context, r repo.TxRepos, s Shopper, entries []cart.Entry) (int64, error) {
	items := make([]model.OrderItem, 0, len(entries))
	total := decimal.Zero

	for _, e := range entries {
		p, err := r.Products().FindByID(ctx, e.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return 0, fmt.Errorf("product %d: %w", e.ProductID, cart.ErrNotFound)
		}
		if err != nil {
			return 0, err
		}

		//在庫減算（足りないなら false）
		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, p.ID, e.Quantity)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, &cart.InsufficientStockError{ProductID: p.ID, ProductName: p.Name}
		}

		//スナップショット
		items = append(items, model.OrderItem{
			ProductID:           p.ID,
			ProductNameSnapshot: p.Name,
			UnitPriceSnapshot:   p.Price,
			Quantity:            e.Quantity,
		})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(e.Quantity)))
	}

	orderID, err := r.Orders().Create(ctx, model.Order{
		UserID:     s.UserID,
		SessionID:  s.SessionID,
		TotalPrice: total,
	})
	if err != nil {
		return 0, err
	}

	if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
		return 0, err
	}
	return orderID, nil
}

func (u *CartUsecase) authorize(s Shopper) error {
	if s.SessionID == "" {
		return WrapHTTPError(http.StatusUnauthorized, msgLoginRequired, cart.ErrUnauthenticated)
	}
	if u.policy.RequireLogin && s.UserID <= 0 {
		return WrapHTTPError(http.StatusUnauthorized, msgLoginRequired, cart.ErrUnauthenticated)
	}
	return nil
}

// ログイン不要モードでまだセッションが無い＝カートは空
func (u *CartUsecase) noGuestSessionYet(s Shopper) bool {
	return !u.policy.RequireLogin && s.SessionID == ""
}

func (u *CartUsecase) findProduct(ctx context.Context, productID int64) (model.Product, error) {
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, WrapHTTPError(http.StatusNotFound, msgUnavailable, cart.ErrNotFound)
	}
	if err != nil {
		return model.Product{}, WrapHTTPError(http.StatusInternalServerError, "db error", err)
	}
	return p, nil
}

func (u *CartUsecase) save(ctx context.Context, s Shopper, ledger *cart.Ledger) error {
	err := u.sessions.SaveLedger(ctx, s.SessionID, ledger)
	if errors.Is(err, repo.ErrSessionNotFound) {
		return WrapHTTPError(http.StatusUnauthorized, msgLoginRequired, cart.ErrUnauthenticated)
	}
	if err != nil {
		return WrapHTTPError(http.StatusInternalServerError, "session store error", err)
	}
	return nil
}
