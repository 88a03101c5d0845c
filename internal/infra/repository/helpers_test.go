package repository

import (
	"context"
	"path/filepath"
	"testing"

	"shop/internal/domain/model"
	"shop/internal/infra/db"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// テストごとに使い捨てのsqliteを作る
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	gormDB, err := db.Open(sqlite.Open(db.SQLiteDSN(path)), zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func seedProduct(t *testing.T, gormDB *gorm.DB, name string, price int64, qty int64) model.Product {
	t.Helper()
	p, err := NewProductGormRepository(gormDB).Create(context.Background(), model.Product{
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Quantity: qty,
		ImageURL: "https://via.placeholder.com/150",
	})
	require.NoError(t, err)
	return p
}

func stockOf(t *testing.T, gormDB *gorm.DB, id int64) int64 {
	t.Helper()
	p, err := NewProductGormRepository(gormDB).FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}
