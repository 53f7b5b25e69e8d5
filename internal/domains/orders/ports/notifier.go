package ports

import (
	"context"

	"github.com/onlineshop/backend/internal/domains/orders/domain"
)

// OrderReceivedNotice carries everything the order-received email needs.
type OrderReceivedNotice struct {
	Order       *domain.Order
	ProductName map[string]string
	TotalAmount float64
	Currency    string
}

// Notifier delivers order lifecycle messages to the customer channel.
type Notifier interface {
	SendOrderReceived(ctx context.Context, notice OrderReceivedNotice) error
}

// ProductInfo is the slice of catalog data the orders context needs for
// notification enrichment.
type ProductInfo struct {
	ID    string
	Name  string
	Price float64
}

// CatalogReader resolves product details referenced by order line items.
type CatalogReader interface {
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]ProductInfo, error)
}

// ShipmentApproval starts the durable approval saga for a placed order.
type ShipmentApproval interface {
	Start(ctx context.Context, order *domain.Order) error
}
