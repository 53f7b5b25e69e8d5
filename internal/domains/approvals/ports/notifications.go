package ports

import "context"

// ApprovalRequest is the outbound payload asking a human to approve or
// reject a shipment. DecisionURL embeds the continuation token; appending
// result=approve or result=reject yields the two action links.
type ApprovalRequest struct {
	OrderID      string
	CustomerName string
	Token        string
	DecisionURL  string
}

// OutcomeNotice informs the customer about a resolved shipment decision.
type OutcomeNotice struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
}

// OperatorAlert surfaces failures inside suspended execution where no
// synchronous caller is waiting for a response.
type OperatorAlert struct {
	OrderID string
	Stage   string
	Reason  string
}

// NotificationGateway is the boundary to the human notification channel.
type NotificationGateway interface {
	SendApprovalRequest(ctx context.Context, request ApprovalRequest) error
	SendShipmentConfirmed(ctx context.Context, notice OutcomeNotice) error
	SendOrderRejected(ctx context.Context, notice OutcomeNotice) error
	SendFeedbackRequest(ctx context.Context, notice OutcomeNotice) error
	PublishOperatorAlert(ctx context.Context, alert OperatorAlert) error
}
