package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// チェックアウト成功時の記録
type Order struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64           `gorm:"not null;index" json:"user_id"`
	SessionID  string          `gorm:"type:varchar(64);not null" json:"-"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_price"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
