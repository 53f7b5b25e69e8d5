package memory

import (
	"context"
	"sync"

	"github.com/onlineshop/backend/internal/domains/catalog/domain"
	"github.com/onlineshop/backend/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps the catalog in memory, used for tests and dev fallbacks.
type Repository struct {
	mu         sync.RWMutex
	products   map[string]*domain.Product
	categories map[string]*domain.Category
	suppliers  map[string]*domain.Supplier
}

func NewRepository() *Repository {
	return &Repository{
		products:   map[string]*domain.Product{},
		categories: map[string]*domain.Category{},
		suppliers:  map[string]*domain.Supplier{},
	}
}

func (r *Repository) SaveProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *product
	r.products[product.ID] = &copy
	result := copy
	return &result, nil
}

func (r *Repository) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := *product
	return &copy, nil
}

func (r *Repository) GetProductsByIDs(_ context.Context, ids []string) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			copy := *product
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (r *Repository) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *Repository) ListProducts(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		copy := *product
		result = append(result, &copy)
	}
	return result, nil
}

func (r *Repository) SaveCategory(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *category
	r.categories[category.ID] = &copy
	result := copy
	return &result, nil
}

func (r *Repository) ListCategories(_ context.Context) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		copy := *category
		result = append(result, &copy)
	}
	return result, nil
}

func (r *Repository) SaveSupplier(_ context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *supplier
	r.suppliers[supplier.ID] = &copy
	result := copy
	return &result, nil
}
