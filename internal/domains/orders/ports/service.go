package ports

import (
	"context"
	"time"

	"github.com/onlineshop/backend/internal/domains/orders/domain"
)

// PlaceOrderInput carries the order-placement request payload.
type PlaceOrderInput struct {
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	Address       domain.Address
	Items         []domain.LineItem
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	ListOrdersByDate(ctx context.Context, day time.Time) ([]*domain.Order, error)
}
