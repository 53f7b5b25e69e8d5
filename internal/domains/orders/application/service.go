package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/onlineshop/backend/internal/domains/orders/domain"
	"github.com/onlineshop/backend/internal/domains/orders/ports"
)

// Service orchestrates the orders bounded context use cases.
type Service struct {
	repo     ports.Repository
	catalog  ports.CatalogReader
	notifier ports.Notifier
	approval ports.ShipmentApproval
}

// NewService wires the orders service with its dependencies. catalog,
// notifier, and approval may be nil in reduced setups (tests, report job).
func NewService(repo ports.Repository, catalog ports.CatalogReader, notifier ports.Notifier, approval ports.ShipmentApproval) *Service {
	return &Service{repo: repo, catalog: catalog, notifier: notifier, approval: approval}
}

// PlaceOrder persists the order, sends the order-received email, and starts
// the shipment approval saga.
func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	order, err := domain.NewOrder(uuid.NewString(), input.CustomerID, input.CustomerName, input.CustomerEmail, input.Address, input.Items, time.Now().UTC())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	// The confirmation email is best-effort; a failed send must not lose the
	// order or prevent the approval saga from starting.
	if s.notifier != nil {
		if err := s.notifier.SendOrderReceived(ctx, s.buildReceivedNotice(ctx, saved)); err != nil {
			slog.WarnContext(ctx, "order received email failed", slog.String("orderId", saved.ID), slog.String("error", err.Error()))
		}
	}
	if s.approval != nil {
		if err := s.approval.Start(ctx, saved); err != nil {
			return nil, mapError(err)
		}
	}
	return saved, nil
}

// GetOrderByID loads a single order aggregate.
func (s *Service) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// DeleteOrder removes an order.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	return mapError(s.repo.Delete(ctx, id))
}

// ListOrdersByDate returns orders created on the given day, used by the
// daily report job.
func (s *Service) ListOrdersByDate(ctx context.Context, day time.Time) ([]*domain.Order, error) {
	orders, err := s.repo.ListByDate(ctx, day)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

func (s *Service) buildReceivedNotice(ctx context.Context, order *domain.Order) ports.OrderReceivedNotice {
	notice := ports.OrderReceivedNotice{
		Order:       order,
		ProductName: map[string]string{},
		Currency:    "EUR",
	}
	if s.catalog == nil {
		return notice
	}
	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		slog.WarnContext(ctx, "catalog lookup for order notice failed", slog.String("orderId", order.ID), slog.String("error", err.Error()))
		return notice
	}
	for _, item := range order.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		notice.ProductName[item.ProductID] = product.Name
		notice.TotalAmount += product.Price * float64(item.Quantity)
	}
	return notice
}

var _ ports.Service = (*Service)(nil)
