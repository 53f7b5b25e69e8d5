package ports

import (
	"context"
	"errors"
	"time"

	"github.com/onlineshop/backend/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders and their line items.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
	ListByDate(ctx context.Context, day time.Time) ([]*domain.Order, error)
}
