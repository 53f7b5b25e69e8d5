package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups the transport handlers mounted on the router.
type Handlers struct {
	ShipmentAPI ShipmentAPI
	OrderAPI    OrderAPI
	CatalogAPI  CatalogAPI
}

// NewRouter builds the gin engine with all routes registered. Middleware is
// applied before route registration so every route is wrapped.
func NewRouter(handlers Handlers, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v2 := router.Group("/v2")
	{
		v2.GET("/shipment/decision", handlers.ShipmentAPI.SubmitDecision)

		v2.POST("/order", handlers.OrderAPI.PlaceOrder)
		v2.GET("/order/:orderId", handlers.OrderAPI.GetOrderByID)
		v2.DELETE("/order/:orderId", handlers.OrderAPI.DeleteOrder)
		v2.GET("/orders", handlers.OrderAPI.ListOrdersByDate)

		v2.POST("/product", handlers.CatalogAPI.CreateProduct)
		v2.PUT("/product/:productId", handlers.CatalogAPI.UpdateProduct)
		v2.GET("/product/:productId", handlers.CatalogAPI.GetProduct)
		v2.DELETE("/product/:productId", handlers.CatalogAPI.DeleteProduct)
		v2.GET("/products", handlers.CatalogAPI.ListProducts)

		v2.POST("/category", handlers.CatalogAPI.CreateCategory)
		v2.GET("/categories", handlers.CatalogAPI.ListCategories)

		v2.POST("/supplier", handlers.CatalogAPI.CreateSupplier)
	}

	return router
}
