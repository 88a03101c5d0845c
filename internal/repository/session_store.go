package repository

import (
	"context"
	"errors"

	"shop/internal/domain/cart"
	"shop/internal/domain/model"
)

// 存在しないか期限切れ
var ErrSessionNotFound = errors.New("session not found")

// SessionStore はセッションとそのカート（Ledger）を保存する。
// バックエンドはDB（gorm）かRedis。
type SessionStore interface {
	CreateSession(ctx context.Context, s model.Session) error
	FindSession(ctx context.Context, sessionID string) (model.Session, error)
	// Ledgerも一緒に消す
	DeleteSession(ctx context.Context, sessionID string) error

	// 無ければ空のLedger
	LoadLedger(ctx context.Context, sessionID string) (*cart.Ledger, error)
	SaveLedger(ctx context.Context, sessionID string, ledger *cart.Ledger) error

	Ping(ctx context.Context) error
}
