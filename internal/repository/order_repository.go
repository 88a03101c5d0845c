package repository

import (
	"context"

	"shop/internal/domain/model"
)

type OrderRepository interface {
	// 明細は含めずに注文だけ作る
	Create(ctx context.Context, order model.Order) (int64, error)
	// 新しい順、明細付き
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
}
