package repository

import (
	"context"
	"testing"

	"shop/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOrder(t *testing.T, r *OrderGormRepository, items *OrderItemGormRepository, userID int64, names ...string) int64 {
	t.Helper()
	ctx := context.Background()

	id, err := r.Create(ctx, model.Order{UserID: userID, SessionID: "s1", TotalPrice: decimal.NewFromInt(int64(100 * len(names)))})
	require.NoError(t, err)

	rows := make([]model.OrderItem, 0, len(names))
	for i, n := range names {
		rows = append(rows, model.OrderItem{
			ProductID:           int64(i + 1),
			ProductNameSnapshot: n,
			UnitPriceSnapshot:   decimal.NewFromInt(100),
			Quantity:            1,
		})
	}
	require.NoError(t, items.CreateBulk(ctx, id, rows))
	return id
}

func TestOrderGorm_ListByUserID(t *testing.T) {
	gormDB := newTestDB(t)
	orders := NewOrderGormRepository(gormDB)
	items := NewOrderItemGormRepository(gormDB)

	first := createOrder(t, orders, items, 1, "Laptop")
	second := createOrder(t, orders, items, 1, "Smartphone", "Headphones")
	createOrder(t, orders, items, 2, "Laptop")

	list, err := orders.ListByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)

	//新しい順
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)

	require.Len(t, list[0].Items, 2)
	assert.Equal(t, "Smartphone", list[0].Items[0].ProductNameSnapshot)
	assert.Equal(t, "Headphones", list[0].Items[1].ProductNameSnapshot)
	assert.True(t, list[0].TotalPrice.Equal(decimal.NewFromInt(200)))
}

func TestOrderItemGorm_ListByOrderID(t *testing.T) {
	gormDB := newTestDB(t)
	orders := NewOrderGormRepository(gormDB)
	items := NewOrderItemGormRepository(gormDB)

	id := createOrder(t, orders, items, 1, "Laptop", "Smartphone")

	got, err := items.ListByOrderID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, id, got[0].OrderID)

	//空は何もしない
	require.NoError(t, items.CreateBulk(context.Background(), id, nil))
}
