// Package cart は1ショッパー分のカート（Ledger）と在庫との突き合わせルールを持つ。
package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"shop/internal/domain/model"
)

var (
	// 商品が存在しない
	ErrNotFound = errors.New("product not found")
	// 在庫0
	ErrOutOfStock = errors.New("product out of stock")
	// カート数量がすでに在庫と同じ
	ErrLimitReached = errors.New("cart quantity reached stock limit")
	// 負の数量
	ErrInvalidQuantity = errors.New("invalid quantity")
	// 在庫を超える数量
	ErrStockExceeded = errors.New("quantity exceeds stock")
	// セッションが解決できない
	ErrUnauthenticated = errors.New("unauthenticated")
)

// チェックアウト時の在庫不足。最初に失敗した商品名を持つ。
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q", e.ProductName)
}

type Entry struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// Ledger は product id -> 数量。追加順を保持する。
// 数量0のエントリは保持しない。
type Ledger struct {
	entries []Entry
}

func NewLedger(entries ...Entry) *Ledger {
	l := &Ledger{}
	for _, e := range entries {
		if e.Quantity > 0 {
			l.put(e.ProductID, e.Quantity)
		}
	}
	return l
}

// 0ならfalse
func (l *Ledger) Quantity(productID int64) (int64, bool) {
	i := l.index(productID)
	if i < 0 {
		return 0, false
	}
	return l.entries[i].Quantity, true
}

// 追加順のコピーを返す
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

func (l *Ledger) IsEmpty() bool {
	return len(l.entries) == 0
}

// AddOne は1個追加する。無ければPresent(1)、あれば在庫未満のときだけ+1。
// 新規作成ならcreated=true。失敗時はLedgerを変更しない。
func (l *Ledger) AddOne(p model.Product) (created bool, err error) {
	if p.Quantity <= 0 {
		return false, ErrOutOfStock
	}

	current, ok := l.Quantity(p.ID)
	if !ok {
		l.put(p.ID, 1)
		return true, nil
	}

	//クランプしない
	if current >= p.Quantity {
		return false, ErrLimitReached
	}

	l.put(p.ID, current+1)
	return false, nil
}

// SetQuantity は絶対値で設定する（差分ではない）。0なら削除。
// 失敗時はLedgerを変更しない。
func (l *Ledger) SetQuantity(p model.Product, qty int64) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	if qty > p.Quantity {
		return ErrStockExceeded
	}

	if qty == 0 {
		l.remove(p.ID)
		return nil
	}

	l.put(p.ID, qty)
	return nil
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Entries())
}

func (l *Ledger) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*l = *NewLedger(entries...)
	return nil
}

func (l *Ledger) index(productID int64) int {
	for i, e := range l.entries {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}

// 既存なら位置を保ったまま上書き
func (l *Ledger) put(productID int64, qty int64) {
	if i := l.index(productID); i >= 0 {
		l.entries[i].Quantity = qty
		return
	}
	l.entries = append(l.entries, Entry{ProductID: productID, Quantity: qty})
}

func (l *Ledger) remove(productID int64) {
	i := l.index(productID)
	if i < 0 {
		return
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
}
