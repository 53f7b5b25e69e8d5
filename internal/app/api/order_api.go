package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/onlineshop/backend/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
	apierrors "github.com/onlineshop/backend/internal/shared/errors"
)

// OrderAPI wires HTTP transport with the orders bounded context service.
type OrderAPI struct {
	service   ordersports.Service
	responder *apierrors.ChainedResponder
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ordersports.Service, responder *apierrors.ChainedResponder) OrderAPI {
	return OrderAPI{service: service, responder: responder}
}

// Post /v2/order
// Places a new order and starts its shipment approval.
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload orderhttpmapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	order, err := api.service.PlaceOrder(c.Request.Context(), orderhttpmapper.ToPlaceOrderInput(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomainOrder(order))
}

// Get /v2/order/:orderId
// Returns a single order.
func (api *OrderAPI) GetOrderByID(c *gin.Context) {
	order, err := api.service.GetOrderByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Delete /v2/order/:orderId
// Removes an order.
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	if err := api.service.DeleteOrder(c.Request.Context(), c.Param("orderId")); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Get /v2/orders?date=YYYY-MM-DD
// Lists the orders created on the given day (defaults to today).
func (api *OrderAPI) ListOrdersByDate(c *gin.Context) {
	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail("date must be formatted as YYYY-MM-DD"))
			return
		}
		day = parsed
	}
	orders, err := api.service.ListOrdersByDate(c.Request.Context(), day)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrderList(orders))
}
