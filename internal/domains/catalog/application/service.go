package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/onlineshop/backend/internal/domains/catalog/domain"
	"github.com/onlineshop/backend/internal/domains/catalog/ports"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid catalog input")

const productCacheTTL = 5 * time.Minute

// Service orchestrates catalog use cases with a cache-aside product lookup.
type Service struct {
	repo  ports.Repository
	cache ports.Cache
}

// NewService wires the catalog service. cache may be nil; lookups then go
// straight to the repository.
func NewService(repo ports.Repository, cache ports.Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// CreateProduct validates and persists a new product.
func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: product is nil", ErrInvalidInput)
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.repo.SaveProduct(ctx, product)
}

// UpdateProduct overrides an existing product and invalidates its cache entry.
func (s *Service) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil || product.ID == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if _, err := s.repo.GetProduct(ctx, product.ID); err != nil {
		return nil, err
	}
	saved, err := s.repo.SaveProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	s.invalidateProduct(ctx, product.ID)
	return saved, nil
}

// GetProduct loads a product, serving repeated reads from the cache.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache != nil {
		key := s.cache.GenerateKey("product", id)
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
			var product domain.Product
			if err := json.Unmarshal([]byte(raw), &product); err == nil {
				return &product, nil
			}
		}
	}
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheProduct(ctx, product)
	return product, nil
}

// DeleteProduct removes a product and its cache entry.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidateProduct(ctx, id)
	return nil
}

// ListProducts returns the whole catalog.
func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

// CreateCategory validates and persists a new category.
func (s *Service) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, fmt.Errorf("%w: category is nil", ErrInvalidInput)
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if err := category.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.repo.SaveCategory(ctx, category)
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

// CreateSupplier validates and persists a new supplier.
func (s *Service) CreateSupplier(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	if supplier == nil {
		return nil, fmt.Errorf("%w: supplier is nil", ErrInvalidInput)
	}
	if supplier.ID == "" {
		supplier.ID = uuid.NewString()
	}
	if err := supplier.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.repo.SaveSupplier(ctx, supplier)
}

// GetProductsByIDs resolves product details for order enrichment.
func (s *Service) GetProductsByIDs(ctx context.Context, ids []string) (map[string]ordersports.ProductInfo, error) {
	products, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make(map[string]ordersports.ProductInfo, len(products))
	for _, product := range products {
		result[product.ID] = ordersports.ProductInfo{ID: product.ID, Name: product.Name, Price: product.Price}
	}
	return result, nil
}

func (s *Service) cacheProduct(ctx context.Context, product *domain.Product) {
	if s.cache == nil || product == nil {
		return
	}
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	key := s.cache.GenerateKey("product", product.ID)
	if err := s.cache.Set(ctx, key, string(raw), productCacheTTL); err != nil {
		slog.WarnContext(ctx, "product cache write failed", slog.String("productId", product.ID), slog.String("error", err.Error()))
	}
}

func (s *Service) invalidateProduct(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cache.GenerateKey("product", id)); err != nil {
		slog.WarnContext(ctx, "product cache invalidation failed", slog.String("productId", id), slog.String("error", err.Error()))
	}
}

var (
	_ ports.Service             = (*Service)(nil)
	_ ordersports.CatalogReader = (*Service)(nil)
)
