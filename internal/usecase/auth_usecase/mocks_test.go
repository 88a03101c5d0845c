package auth

import (
	"context"
	"time"

	"shop/internal/domain/cart"
	"shop/internal/domain/model"
	"shop/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mock: UserRepository
// =====================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

// =====================
// Mock: SessionStore
// =====================

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, s model.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionStore) FindSession(ctx context.Context, sessionID string) (model.Session, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(model.Session)
	return s, args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionStore) LoadLedger(ctx context.Context, sessionID string) (*cart.Ledger, error) {
	args := m.Called(ctx, sessionID)
	l, _ := args.Get(0).(*cart.Ledger)
	return l, args.Error(1)
}

func (m *MockSessionStore) SaveLedger(ctx context.Context, sessionID string, ledger *cart.Ledger) error {
	args := m.Called(ctx, sessionID, ledger)
	return args.Error(0)
}

func (m *MockSessionStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ repository.SessionStore = (*MockSessionStore)(nil)

// =====================
// fakes
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixedID string

func (f fixedID) NewID() string { return string(f) }

// 発行内容をそのまま文字列にする
type fakeIssuer struct{}

func (fakeIssuer) Issue(userID int64, sessionID string, _ time.Time, _ time.Time) (string, error) {
	if userID == 0 {
		return "guest:" + sessionID, nil
	}
	return "user:" + sessionID, nil
}

// 文字列トークンをそのまま返す
type fakeParser map[string]model.SessionClaims

func (p fakeParser) Parse(raw string) (model.SessionClaims, error) {
	c, ok := p[raw]
	if !ok {
		return model.SessionClaims{}, ErrInvalidSession
	}
	return c, nil
}

// 平文の前に印をつけるだけのハッシュ
type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
