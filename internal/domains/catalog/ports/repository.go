package ports

import (
	"context"
	"errors"

	"github.com/onlineshop/backend/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("catalog entry not found")

// Repository persists the product catalog.
type Repository interface {
	SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]*domain.Product, error)

	SaveCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)

	SaveSupplier(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error)
}
