// Package webhook delivers rendered notifications to the external
// notification service over HTTP.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	approvalports "github.com/onlineshop/backend/internal/domains/approvals/ports"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
	"github.com/onlineshop/backend/internal/notifications"
)

var (
	_ approvalports.NotificationGateway = (*Client)(nil)
	_ ordersports.Notifier              = (*Client)(nil)
)

// Client publishes notification messages to the configured endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient instantiates the notification client with sane defaults.
func NewClient(endpoint string, httpClient *http.Client) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("notification endpoint is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}, nil
}

// SendApprovalRequest publishes the approval-request message with both
// decision links to the approver channel.
func (c *Client) SendApprovalRequest(ctx context.Context, request approvalports.ApprovalRequest) error {
	body, err := notifications.RenderText("shipment-approval-request.txt.tmpl", map[string]any{
		"OrderID":      request.OrderID,
		"CustomerName": request.CustomerName,
		"DecisionURL":  request.DecisionURL,
	})
	if err != nil {
		return err
	}
	return c.publish(ctx, notifications.Message{
		Topic:   notifications.TopicShipmentApproval,
		Subject: fmt.Sprintf("Shipment approval needed for order %s", request.OrderID),
		Body:    body,
	})
}

// SendShipmentConfirmed emails the customer the shipment confirmation.
func (c *Client) SendShipmentConfirmed(ctx context.Context, notice approvalports.OutcomeNotice) error {
	return c.sendCustomerEmail(ctx, notice, "shipment-confirmed-email.html.tmpl", "Order Shipment Confirmation")
}

// SendOrderRejected emails the customer the cancellation notice.
func (c *Client) SendOrderRejected(ctx context.Context, notice approvalports.OutcomeNotice) error {
	return c.sendCustomerEmail(ctx, notice, "shipment-rejected-email.html.tmpl", "Order Cancellation Notification")
}

// SendFeedbackRequest emails the customer the feedback request.
func (c *Client) SendFeedbackRequest(ctx context.Context, notice approvalports.OutcomeNotice) error {
	return c.sendCustomerEmail(ctx, notice, "feedback-request-email.html.tmpl", "We love to hear your feedback")
}

// PublishOperatorAlert pushes a downstream failure to the operator channel.
func (c *Client) PublishOperatorAlert(ctx context.Context, alert approvalports.OperatorAlert) error {
	return c.publish(ctx, notifications.Message{
		Topic:   notifications.TopicOperatorAlert,
		Subject: fmt.Sprintf("Approval saga action failed for order %s", alert.OrderID),
		Body:    fmt.Sprintf("stage=%s reason=%s", alert.Stage, alert.Reason),
	})
}

// SendOrderReceived emails the customer the order confirmation with the
// enriched line items.
func (c *Client) SendOrderReceived(ctx context.Context, notice ordersports.OrderReceivedNotice) error {
	type itemRow struct {
		ProductName string
		Quantity    int32
	}
	items := make([]itemRow, 0, len(notice.Order.Items))
	for _, item := range notice.Order.Items {
		name := notice.ProductName[item.ProductID]
		if name == "" {
			name = item.ProductID
		}
		items = append(items, itemRow{ProductName: name, Quantity: item.Quantity})
	}
	body, err := notifications.RenderHTML("order-received-email.html.tmpl", map[string]any{
		"OrderID":         notice.Order.ID,
		"CustomerName":    notice.Order.CustomerName,
		"ShippingAddress": notice.Order.ShippingAddress(),
		"Items":           items,
		"TotalAmount":     notice.TotalAmount,
		"Currency":        notice.Currency,
	})
	if err != nil {
		return err
	}
	return c.publish(ctx, notifications.Message{
		Topic:     notifications.TopicCustomerEmail,
		Recipient: notice.Order.CustomerEmail,
		Subject:   "Order Confirmation",
		Body:      body,
		HTML:      true,
	})
}

// PublishReportNotice announces a generated daily report to the report channel.
func (c *Client) PublishReportNotice(ctx context.Context, reportDate string, totalOrders int, grandTotal float64, reportURL string) error {
	body, err := notifications.RenderText("daily-report-notification.txt.tmpl", map[string]any{
		"ReportDate":  reportDate,
		"TotalOrders": totalOrders,
		"GrandTotal":  grandTotal,
		"ReportURL":   reportURL,
	})
	if err != nil {
		return err
	}
	return c.publish(ctx, notifications.Message{
		Topic:   notifications.TopicDailyReport,
		Subject: fmt.Sprintf("Daily order report %s", reportDate),
		Body:    body,
	})
}

func (c *Client) sendCustomerEmail(ctx context.Context, notice approvalports.OutcomeNotice, template, subject string) error {
	body, err := notifications.RenderHTML(template, map[string]any{
		"OrderID":      notice.OrderID,
		"CustomerName": notice.CustomerName,
	})
	if err != nil {
		return err
	}
	return c.publish(ctx, notifications.Message{
		Topic:     notifications.TopicCustomerEmail,
		Recipient: notice.CustomerEmail,
		Subject:   subject,
		Body:      body,
		HTML:      true,
	})
}

func (c *Client) publish(ctx context.Context, message notifications.Message) error {
	if c == nil || c.httpClient == nil {
		return errors.New("notification client not configured")
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("notification service returned %s", response.Status)
	}
	return nil
}
