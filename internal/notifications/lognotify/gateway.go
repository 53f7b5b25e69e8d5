// Package lognotify is the development fallback for the notification
// service: every message is written to the structured log instead of being
// delivered.
package lognotify

import (
	"context"
	"log/slog"

	approvalports "github.com/onlineshop/backend/internal/domains/approvals/ports"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
)

var (
	_ approvalports.NotificationGateway = (*Gateway)(nil)
	_ ordersports.Notifier              = (*Gateway)(nil)
)

// Gateway logs notifications instead of sending them.
type Gateway struct {
	logger *slog.Logger
}

// New builds a logging gateway. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{logger: logger}
}

func (g *Gateway) SendApprovalRequest(ctx context.Context, request approvalports.ApprovalRequest) error {
	g.logger.InfoContext(ctx, "approval request (log only)",
		slog.String("order_id", request.OrderID),
		slog.String("decision_url", request.DecisionURL))
	return nil
}

func (g *Gateway) SendShipmentConfirmed(ctx context.Context, notice approvalports.OutcomeNotice) error {
	g.logger.InfoContext(ctx, "shipment confirmed (log only)", slog.String("order_id", notice.OrderID))
	return nil
}

func (g *Gateway) SendOrderRejected(ctx context.Context, notice approvalports.OutcomeNotice) error {
	g.logger.InfoContext(ctx, "order rejected (log only)", slog.String("order_id", notice.OrderID))
	return nil
}

func (g *Gateway) SendFeedbackRequest(ctx context.Context, notice approvalports.OutcomeNotice) error {
	g.logger.InfoContext(ctx, "feedback request (log only)", slog.String("order_id", notice.OrderID))
	return nil
}

func (g *Gateway) PublishOperatorAlert(ctx context.Context, alert approvalports.OperatorAlert) error {
	g.logger.WarnContext(ctx, "operator alert (log only)",
		slog.String("order_id", alert.OrderID),
		slog.String("stage", alert.Stage),
		slog.String("reason", alert.Reason))
	return nil
}

func (g *Gateway) SendOrderReceived(ctx context.Context, notice ordersports.OrderReceivedNotice) error {
	g.logger.InfoContext(ctx, "order received (log only)", slog.String("order_id", notice.Order.ID))
	return nil
}
