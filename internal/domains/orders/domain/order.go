package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingCustomerEmail = errors.New("customer email is required")
	ErrMissingAddress       = errors.New("shipping address is incomplete")
	ErrNoLineItems          = errors.New("order must contain at least one line item")
	ErrInvalidQuantity      = errors.New("line item quantity must be greater than zero")
)

// Address captures the shipping destination of an order.
type Address struct {
	Country string
	City    string
	County  string
	Street  string
}

// LineItem references a purchased product and its quantity.
type LineItem struct {
	ProductID string
	Quantity  int32
}

// Order models the customer purchase aggregate. It is created by the
// order-placement path and deleted when the shipment approval is rejected.
type Order struct {
	ID            string
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	Address       Address
	Items         []LineItem
	CreatedAt     time.Time
}

// NewOrder validates and constructs a new Order aggregate.
func NewOrder(id, customerID, customerName, customerEmail string, address Address, items []LineItem, createdAt time.Time) (*Order, error) {
	order := &Order{
		ID:            id,
		CustomerID:    customerID,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		Address:       address,
		Items:         items,
		CreatedAt:     createdAt,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.CustomerEmail) == "" {
		return ErrMissingCustomerEmail
	}
	if strings.TrimSpace(o.Address.Country) == "" || strings.TrimSpace(o.Address.City) == "" || strings.TrimSpace(o.Address.Street) == "" {
		return ErrMissingAddress
	}
	if len(o.Items) == 0 {
		return ErrNoLineItems
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// ShippingAddress renders the address as a single line for notifications.
func (o *Order) ShippingAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{o.Address.Street, o.Address.County, o.Address.City, o.Address.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
