package domain

import (
	"errors"
	"strings"
)

var (
	ErrMissingName  = errors.New("name is required")
	ErrInvalidPrice = errors.New("price must not be negative")
)

// Product is a sellable catalog item.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	CategoryID  string
	SupplierID  string
}

// Validate enforces invariants on the product.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Category groups products for browsing.
type Category struct {
	ID          string
	Name        string
	Description string
}

// Validate enforces invariants on the category.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// Supplier is a product source, referenced by products.
type Supplier struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// Validate enforces invariants on the supplier.
func (s *Supplier) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrMissingName
	}
	return nil
}
