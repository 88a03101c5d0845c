package usecase

import (
	"context"

	"shop/internal/domain/cart"
	"shop/internal/domain/model"

	"github.com/stretchr/testify/mock"
)

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type SessionStoreMock struct{ mock.Mock }

func (m *SessionStoreMock) CreateSession(ctx context.Context, s model.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SessionStoreMock) FindSession(ctx context.Context, sessionID string) (model.Session, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(model.Session)
	return s, args.Error(1)
}

func (m *SessionStoreMock) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *SessionStoreMock) LoadLedger(ctx context.Context, sessionID string) (*cart.Ledger, error) {
	args := m.Called(ctx, sessionID)
	l, _ := args.Get(0).(*cart.Ledger)
	return l, args.Error(1)
}

func (m *SessionStoreMock) SaveLedger(ctx context.Context, sessionID string, ledger *cart.Ledger) error {
	args := m.Called(ctx, sessionID, ledger)
	return args.Error(0)
}

func (m *SessionStoreMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Error(1)
}
