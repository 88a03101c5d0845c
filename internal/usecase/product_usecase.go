package usecase

import (
	"context"
	"errors"
	"net/http"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/shopspring/decimal"
)

const placeholderImageURL = "https://via.placeholder.com/150"

// 商品が空のときに入れる初期データ
var DefaultCatalog = []model.Product{
	{Name: "Laptop", Price: decimal.NewFromInt(1000), Quantity: 5, ImageURL: placeholderImageURL},
	{Name: "Smartphone", Price: decimal.NewFromInt(500), Quantity: 10, ImageURL: placeholderImageURL},
	{Name: "Headphones", Price: decimal.NewFromInt(100), Quantity: 0, ImageURL: placeholderImageURL},
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo}
}

// GET /api/products の1件
type ProductOutput struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	ImageURL string  `json:"image_url"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context) ([]ProductOutput, error) {
	products, err := u.productRepo.ListAll(ctx)
	if err != nil {
		return nil, WrapHTTPError(http.StatusInternalServerError, "db error", err)
	}

	out := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		out = append(out, toProductOutput(p))
	}
	return out, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, id int64) (ProductOutput, error) {
	if id <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "Product not found.")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "Product not found.")
	}
	if err != nil {
		return ProductOutput{}, WrapHTTPError(http.StatusInternalServerError, "db error", err)
	}
	return toProductOutput(p), nil
}

// SeedIfEmpty は商品が1件もなければcatalogを投入する。投入件数を返す
func (u *ProductUsecase) SeedIfEmpty(ctx context.Context, catalog []model.Product) (int, error) {
	n, err := u.productRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for _, p := range catalog {
		if _, err := u.productRepo.Create(ctx, p); err != nil {
			return 0, err
		}
	}
	return len(catalog), nil
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.InexactFloat64(),
		Quantity: p.Quantity,
		ImageURL: p.ImageURL,
	}
}
