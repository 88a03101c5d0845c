package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// id昇順（作成順）
	ListAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	// 初期投入用
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Count(ctx context.Context) (int64, error)
}
