package model

import "time"

// ゲストはUserID=0
// 1セッションにつきカート（Ledger）は1つ
type Session struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Username  string    `gorm:"type:varchar(50)" json:"username"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (s Session) IsGuest() bool {
	return s.UserID <= 0
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// セッショントークンの中身
type SessionClaims struct {
	UserID    int64
	SessionID string
	ExpiresAt time.Time
}
