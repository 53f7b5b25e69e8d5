package mapper

import (
	catalogdomain "github.com/onlineshop/backend/internal/domains/catalog/domain"
)

// Product is the transport representation of a catalog product.
type Product struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"categoryId,omitempty"`
	SupplierID  string  `json:"supplierId,omitempty"`
}

// Category is the transport representation of a product category.
type Category struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// Supplier is the transport representation of a product supplier.
type Supplier struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ToDomainProduct converts a transport product into the catalog domain model.
func ToDomainProduct(product Product) *catalogdomain.Product {
	return &catalogdomain.Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		CategoryID:  product.CategoryID,
		SupplierID:  product.SupplierID,
	}
}

// FromDomainProduct converts a domain product to the transport representation.
func FromDomainProduct(product *catalogdomain.Product) Product {
	if product == nil {
		return Product{}
	}
	return Product(*product)
}

// FromDomainProductList converts a slice of domain products.
func FromDomainProductList(products []*catalogdomain.Product) []Product {
	result := make([]Product, 0, len(products))
	for _, product := range products {
		result = append(result, FromDomainProduct(product))
	}
	return result
}

// ToDomainCategory converts a transport category into the catalog domain model.
func ToDomainCategory(category Category) *catalogdomain.Category {
	converted := catalogdomain.Category(category)
	return &converted
}

// FromDomainCategory converts a domain category to the transport representation.
func FromDomainCategory(category *catalogdomain.Category) Category {
	if category == nil {
		return Category{}
	}
	return Category(*category)
}

// FromDomainCategoryList converts a slice of domain categories.
func FromDomainCategoryList(categories []*catalogdomain.Category) []Category {
	result := make([]Category, 0, len(categories))
	for _, category := range categories {
		result = append(result, FromDomainCategory(category))
	}
	return result
}

// ToDomainSupplier converts a transport supplier into the catalog domain model.
func ToDomainSupplier(supplier Supplier) *catalogdomain.Supplier {
	converted := catalogdomain.Supplier(supplier)
	return &converted
}

// FromDomainSupplier converts a domain supplier to the transport representation.
func FromDomainSupplier(supplier *catalogdomain.Supplier) Supplier {
	if supplier == nil {
		return Supplier{}
	}
	return Supplier(*supplier)
}
