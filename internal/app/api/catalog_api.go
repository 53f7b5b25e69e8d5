package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/onlineshop/backend/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/onlineshop/backend/internal/domains/catalog/ports"
	apierrors "github.com/onlineshop/backend/internal/shared/errors"
)

// CatalogAPI wires HTTP transport with the catalog bounded context service.
type CatalogAPI struct {
	service   catalogports.Service
	responder *apierrors.ChainedResponder
}

// NewCatalogAPI creates a CatalogAPI backed by the provided service.
func NewCatalogAPI(service catalogports.Service, responder *apierrors.ChainedResponder) CatalogAPI {
	return CatalogAPI{service: service, responder: responder}
}

// Post /v2/product
func (api *CatalogAPI) CreateProduct(c *gin.Context) {
	var payload cataloghttpmapper.Product
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	product, err := api.service.CreateProduct(c.Request.Context(), cataloghttpmapper.ToDomainProduct(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cataloghttpmapper.FromDomainProduct(product))
}

// Put /v2/product/:productId
func (api *CatalogAPI) UpdateProduct(c *gin.Context) {
	var payload cataloghttpmapper.Product
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	payload.ID = c.Param("productId")
	product, err := api.service.UpdateProduct(c.Request.Context(), cataloghttpmapper.ToDomainProduct(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainProduct(product))
}

// Get /v2/product/:productId
func (api *CatalogAPI) GetProduct(c *gin.Context) {
	product, err := api.service.GetProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainProduct(product))
}

// Delete /v2/product/:productId
func (api *CatalogAPI) DeleteProduct(c *gin.Context) {
	if err := api.service.DeleteProduct(c.Request.Context(), c.Param("productId")); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Get /v2/products
func (api *CatalogAPI) ListProducts(c *gin.Context) {
	products, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainProductList(products))
}

// Post /v2/category
func (api *CatalogAPI) CreateCategory(c *gin.Context) {
	var payload cataloghttpmapper.Category
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	category, err := api.service.CreateCategory(c.Request.Context(), cataloghttpmapper.ToDomainCategory(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cataloghttpmapper.FromDomainCategory(category))
}

// Get /v2/categories
func (api *CatalogAPI) ListCategories(c *gin.Context) {
	categories, err := api.service.ListCategories(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainCategoryList(categories))
}

// Post /v2/supplier
func (api *CatalogAPI) CreateSupplier(c *gin.Context) {
	var payload cataloghttpmapper.Supplier
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	supplier, err := api.service.CreateSupplier(c.Request.Context(), cataloghttpmapper.ToDomainSupplier(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cataloghttpmapper.FromDomainSupplier(supplier))
}
