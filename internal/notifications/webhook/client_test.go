package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	approvalports "github.com/onlineshop/backend/internal/domains/approvals/ports"
	ordersdomain "github.com/onlineshop/backend/internal/domains/orders/domain"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
	"github.com/onlineshop/backend/internal/notifications"
)

func newTestServer(t *testing.T, status int) (*Client, *[]notifications.Message) {
	t.Helper()
	var received []notifications.Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var message notifications.Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&message))
		received = append(received, message)
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)
	return client, &received
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := NewClient("  ", nil)
	require.Error(t, err)
}

func TestSendApprovalRequest_EmbedsDecisionLinks(t *testing.T) {
	client, received := newTestServer(t, http.StatusOK)

	err := client.SendApprovalRequest(context.Background(), approvalports.ApprovalRequest{
		OrderID:      "O1",
		CustomerName: "Ada",
		Token:        "tok+en==",
		DecisionURL:  "http://localhost:8080/v2/shipment/decision?orderId=O1&taskToken=tok%2Ben%3D%3D",
	})

	require.NoError(t, err)
	require.Len(t, *received, 1)
	message := (*received)[0]
	require.Equal(t, notifications.TopicShipmentApproval, message.Topic)
	require.Contains(t, message.Subject, "O1")
	require.Contains(t, message.Body, "result=approve")
	require.Contains(t, message.Body, "result=reject")
}

func TestSendOrderReceived_RendersLineItems(t *testing.T) {
	client, received := newTestServer(t, http.StatusOK)

	order, err := ordersdomain.NewOrder("O1", "C1", "Ada", "ada@example.com",
		ordersdomain.Address{Country: "RO", City: "Cluj", Street: "Main 1"},
		[]ordersdomain.LineItem{{ProductID: "P1", Quantity: 2}},
		time.Now().UTC(),
	)
	require.NoError(t, err)

	err = client.SendOrderReceived(context.Background(), ordersports.OrderReceivedNotice{
		Order:       order,
		ProductName: map[string]string{"P1": "Keyboard"},
		TotalAmount: 100,
		Currency:    "EUR",
	})

	require.NoError(t, err)
	message := (*received)[0]
	require.Equal(t, notifications.TopicCustomerEmail, message.Topic)
	require.Equal(t, "ada@example.com", message.Recipient)
	require.True(t, message.HTML)
	require.Contains(t, message.Body, "Keyboard")
}

func TestPublish_FailsOnServerError(t *testing.T) {
	client, _ := newTestServer(t, http.StatusBadGateway)

	err := client.SendShipmentConfirmed(context.Background(), approvalports.OutcomeNotice{
		OrderID:       "O1",
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
	})

	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "502"))
}

func TestPublishReportNotice(t *testing.T) {
	client, received := newTestServer(t, http.StatusAccepted)

	err := client.PublishReportNotice(context.Background(), "2024-05-10", 12, 1234.5, "file:///reports/daily-order-report-2024-05-10.html")

	require.NoError(t, err)
	message := (*received)[0]
	require.Equal(t, notifications.TopicDailyReport, message.Topic)
	require.Contains(t, message.Body, "2024-05-10")
	require.Contains(t, message.Body, "12")
}
