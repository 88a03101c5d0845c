package auth

import (
	"time"

	"shop/internal/domain/model"

	"github.com/google/uuid"
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// セッションIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// セッショントークンを発行する約束
type SessionTokenIssuer interface {
	Issue(userID int64, sessionID string, expiresAt time.Time, now time.Time) (string, error)
}

// セッショントークンを検証する約束
type SessionTokenParser interface {
	Parse(raw string) (model.SessionClaims, error)
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
