package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	catalogmemory "github.com/onlineshop/backend/internal/domains/catalog/adapters/memory"
	"github.com/onlineshop/backend/internal/domains/catalog/domain"
	"github.com/onlineshop/backend/internal/domains/catalog/ports"
)

type fakeCache struct {
	entries map[string]string
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.entries[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	value, ok := c.entries[key]
	if ok && value != "" {
		c.hits++
	}
	return value, nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("test:%s:%s", operation, key)
}

var _ ports.Cache = (*fakeCache)(nil)

func TestCreateProduct_AssignsIDAndValidates(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository(), nil)

	product, err := svc.CreateProduct(context.Background(), &domain.Product{Name: "Keyboard", Price: 50})
	require.NoError(t, err)
	require.NotEmpty(t, product.ID)

	_, err = svc.CreateProduct(context.Background(), &domain.Product{Price: 10})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateProduct(context.Background(), &domain.Product{Name: "Broken", Price: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetProduct_ServesRepeatedReadsFromCache(t *testing.T) {
	cache := newFakeCache()
	svc := NewService(catalogmemory.NewRepository(), cache)

	created, err := svc.CreateProduct(context.Background(), &domain.Product{Name: "Keyboard", Price: 50})
	require.NoError(t, err)

	first, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Keyboard", first.Name)
	require.Equal(t, 0, cache.hits)

	second, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, cache.hits)
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	cache := newFakeCache()
	svc := NewService(catalogmemory.NewRepository(), cache)

	created, err := svc.CreateProduct(context.Background(), &domain.Product{Name: "Keyboard", Price: 50})
	require.NoError(t, err)
	_, err = svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)

	created.Price = 45
	_, err = svc.UpdateProduct(context.Background(), created)
	require.NoError(t, err)

	updated, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, 45.0, updated.Price)
}

func TestUpdateProduct_UnknownID(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository(), nil)
	_, err := svc.UpdateProduct(context.Background(), &domain.Product{ID: "missing", Name: "Ghost", Price: 1})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestGetProductsByIDs_ForOrderEnrichment(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository(), nil)
	keyboard, err := svc.CreateProduct(context.Background(), &domain.Product{Name: "Keyboard", Price: 50})
	require.NoError(t, err)
	mouse, err := svc.CreateProduct(context.Background(), &domain.Product{Name: "Mouse", Price: 20})
	require.NoError(t, err)

	infos, err := svc.GetProductsByIDs(context.Background(), []string{keyboard.ID, mouse.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, infos, 2)
	require.Equal(t, 50.0, infos[keyboard.ID].Price)
	require.Equal(t, "Mouse", infos[mouse.ID].Name)
}

func TestCreateCategoryAndSupplier(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository(), nil)

	category, err := svc.CreateCategory(context.Background(), &domain.Category{Name: "Peripherals"})
	require.NoError(t, err)
	require.NotEmpty(t, category.ID)

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)

	supplier, err := svc.CreateSupplier(context.Background(), &domain.Supplier{Name: "Acme", Email: "sales@acme.test"})
	require.NoError(t, err)
	require.NotEmpty(t, supplier.ID)

	_, err = svc.CreateSupplier(context.Background(), &domain.Supplier{})
	require.ErrorIs(t, err, ErrInvalidInput)
}
