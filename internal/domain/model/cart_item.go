package model

import "time"

// カートの明細（DBバックエンド用）
// IDの昇順が追加順。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:varchar(64);not null;index" json:"session_id"`
	ProductID int64     `gorm:"not null" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
