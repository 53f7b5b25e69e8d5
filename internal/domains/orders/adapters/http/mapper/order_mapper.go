package mapper

import (
	"time"

	ordersdomain "github.com/onlineshop/backend/internal/domains/orders/domain"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
)

// Address is the transport-layer shipping address.
type Address struct {
	Country string `json:"country" binding:"required"`
	City    string `json:"city" binding:"required"`
	County  string `json:"county,omitempty"`
	Street  string `json:"street" binding:"required"`
}

// LineItem is the transport-layer order line.
type LineItem struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int32  `json:"quantity" binding:"required"`
}

// PlaceOrderRequest is the payload accepted by the order-placement endpoint.
type PlaceOrderRequest struct {
	CustomerID    string     `json:"customerId"`
	CustomerName  string     `json:"customerName"`
	CustomerEmail string     `json:"customerEmail" binding:"required"`
	Address       Address    `json:"address" binding:"required"`
	Items         []LineItem `json:"items" binding:"required"`
}

// Order is the transport representation of a persisted order.
type Order struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customerId"`
	CustomerName  string     `json:"customerName"`
	CustomerEmail string     `json:"customerEmail"`
	Address       Address    `json:"address"`
	Items         []LineItem `json:"items"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ToPlaceOrderInput converts the transport payload into the application input.
func ToPlaceOrderInput(request PlaceOrderRequest) ordersports.PlaceOrderInput {
	items := make([]ordersdomain.LineItem, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, ordersdomain.LineItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return ordersports.PlaceOrderInput{
		CustomerID:    request.CustomerID,
		CustomerName:  request.CustomerName,
		CustomerEmail: request.CustomerEmail,
		Address: ordersdomain.Address{
			Country: request.Address.Country,
			City:    request.Address.City,
			County:  request.Address.County,
			Street:  request.Address.Street,
		},
		Items: items,
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return Order{
		ID:            order.ID,
		CustomerID:    order.CustomerID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Address: Address{
			Country: order.Address.Country,
			City:    order.Address.City,
			County:  order.Address.County,
			Street:  order.Address.Street,
		},
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}

// FromDomainOrderList converts a slice of domain orders.
func FromDomainOrderList(orders []*ordersdomain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}
