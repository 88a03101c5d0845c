package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品（在庫数を含む）
// quantityはチェックアウト時の減算と初期投入でのみ変わる。
type Product struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	ImageURL  string          `gorm:"column:image_url;type:varchar(200);not null" json:"image_url"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"-"`
}
