package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	approvalsmemory "github.com/onlineshop/backend/internal/domains/approvals/adapters/memory"
	approvalsworkflows "github.com/onlineshop/backend/internal/domains/approvals/adapters/workflows"
	approvalsapp "github.com/onlineshop/backend/internal/domains/approvals/application"
	catalogmemory "github.com/onlineshop/backend/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/onlineshop/backend/internal/domains/catalog/application"
	catalogdomain "github.com/onlineshop/backend/internal/domains/catalog/domain"
	orderhttpmapper "github.com/onlineshop/backend/internal/domains/orders/adapters/http/mapper"
	ordersmemory "github.com/onlineshop/backend/internal/domains/orders/adapters/memory"
	ordersapp "github.com/onlineshop/backend/internal/domains/orders/application"
	"github.com/onlineshop/backend/internal/notifications/lognotify"
)

// apiFixture stands up the full router on in-memory adapters with the
// inline approval path, so requests exercise the same wiring as the binary.
type apiFixture struct {
	router *gin.Engine
	tokens *approvalsmemory.TokenStore
	orders *ordersmemory.Repository
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orderRepo := ordersmemory.NewRepository()
	tokenStore := approvalsmemory.NewTokenStore()
	notifier := lognotify.New(nil)

	catalogService := catalogapp.NewService(catalogmemory.NewRepository(), nil)
	_, err := catalogService.CreateProduct(context.Background(), &catalogdomain.Product{
		ID:    "P1",
		Name:  "Mechanical Keyboard",
		Price: 49.90,
	})
	require.NoError(t, err)

	saga := approvalsworkflows.NewInlineApprovalSaga(tokenStore, notifier, "http://localhost/v2/shipment/decision")
	orderService := ordersapp.NewService(orderRepo, catalogService, notifier, saga)
	dispatcher := approvalsworkflows.NewInlineDecisionDispatcher(tokenStore, orderRepo, notifier)
	decisionService := approvalsapp.NewService(tokenStore, orderRepo, dispatcher)

	responder := newResponder()
	handlers := Handlers{
		ShipmentAPI: NewShipmentAPI(decisionService, responder),
		OrderAPI:    NewOrderAPI(orderService, responder),
		CatalogAPI:  NewCatalogAPI(catalogService, responder),
	}
	return &apiFixture{
		router: NewRouter(handlers),
		tokens: tokenStore,
		orders: orderRepo,
	}
}

func (f *apiFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func (f *apiFixture) placeOrder(t *testing.T) orderhttpmapper.Order {
	t.Helper()
	recorder := f.do(t, http.MethodPost, "/v2/order", `{
		"customerId": "C1",
		"customerName": "Ada Lovelace",
		"customerEmail": "ada@example.com",
		"address": {"country": "UK", "city": "London", "street": "12 Analytical Row"},
		"items": [{"productId": "P1", "quantity": 2}]
	}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var order orderhttpmapper.Order
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &order))
	require.NotEmpty(t, order.ID)
	return order
}

func (f *apiFixture) activeToken(t *testing.T, orderID string) string {
	t.Helper()
	execution, err := f.tokens.FindActiveByOrder(context.Background(), orderID)
	require.NoError(t, err)
	return execution.Token
}

func TestRouter_HealthEndpoint(t *testing.T) {
	fixture := newAPIFixture(t)

	recorder := fixture.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"ok"`)
}

func TestRouter_PlaceOrderRegistersApprovalExecution(t *testing.T) {
	fixture := newAPIFixture(t)

	order := fixture.placeOrder(t)

	execution, err := fixture.tokens.FindActiveByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, execution.Token)

	recorder := fixture.do(t, http.MethodGet, "/v2/order/"+order.ID, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ada@example.com")
}

func TestRouter_PlaceOrderRejectsInvalidPayload(t *testing.T) {
	fixture := newAPIFixture(t)

	recorder := fixture.do(t, http.MethodPost, "/v2/order", `{"customerName": "Ada"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_DecisionApprove(t *testing.T) {
	fixture := newAPIFixture(t)
	order := fixture.placeOrder(t)
	token := fixture.activeToken(t, order.ID)

	recorder := fixture.do(t, http.MethodGet,
		"/v2/shipment/decision?orderId="+order.ID+"&taskToken="+url.QueryEscape(token)+"&result=approve", "")

	assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), "Order approved successfully.")

	// Approved orders stay on file.
	_, err := fixture.orders.GetByID(context.Background(), order.ID)
	assert.NoError(t, err)
}

func TestRouter_DecisionRejectDeletesOrder(t *testing.T) {
	fixture := newAPIFixture(t)
	order := fixture.placeOrder(t)
	token := fixture.activeToken(t, order.ID)

	recorder := fixture.do(t, http.MethodGet,
		"/v2/shipment/decision?orderId="+order.ID+"&taskToken="+url.QueryEscape(token)+"&result=reject", "")

	assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), "Order rejected successfully.")

	recorder = fixture.do(t, http.MethodGet, "/v2/order/"+order.ID, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRouter_DecisionSecondClickIsInformational(t *testing.T) {
	fixture := newAPIFixture(t)
	order := fixture.placeOrder(t)
	token := fixture.activeToken(t, order.ID)
	target := "/v2/shipment/decision?orderId=" + order.ID + "&taskToken=" + url.QueryEscape(token) + "&result=approve"

	first := fixture.do(t, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, first.Code)

	second := fixture.do(t, http.MethodGet, target, "")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), "Decision already recorded.")
}

func TestRouter_DecisionMissingParams(t *testing.T) {
	fixture := newAPIFixture(t)

	recorder := fixture.do(t, http.MethodGet, "/v2/shipment/decision?orderId=O1", "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "required")
}

func TestRouter_DecisionUnknownToken(t *testing.T) {
	fixture := newAPIFixture(t)
	order := fixture.placeOrder(t)

	recorder := fixture.do(t, http.MethodGet,
		"/v2/shipment/decision?orderId="+order.ID+"&taskToken=bogus&result=approve", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRouter_ProductLifecycle(t *testing.T) {
	fixture := newAPIFixture(t)

	created := fixture.do(t, http.MethodPost, "/v2/product", `{"name": "Desk Lamp", "price": 19.99}`)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	var product struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &product))
	require.NotEmpty(t, product.ID)

	got := fixture.do(t, http.MethodGet, "/v2/product/"+product.ID, "")
	assert.Equal(t, http.StatusOK, got.Code)
	assert.Contains(t, got.Body.String(), "Desk Lamp")

	deleted := fixture.do(t, http.MethodDelete, "/v2/product/"+product.ID, "")
	assert.Equal(t, http.StatusOK, deleted.Code)

	gone := fixture.do(t, http.MethodGet, "/v2/product/"+product.ID, "")
	assert.Equal(t, http.StatusNotFound, gone.Code)
}
