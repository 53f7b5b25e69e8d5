package workflows

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/onlineshop/backend/internal/domains/approvals/domain"
	approvalports "github.com/onlineshop/backend/internal/domains/approvals/ports"
	ordersdomain "github.com/onlineshop/backend/internal/domains/orders/domain"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
	approvalworkflows "github.com/onlineshop/backend/internal/durable/temporal/workflows/approvals"
)

var (
	_ ordersports.ShipmentApproval = (*TemporalApprovalSaga)(nil)
	_ ordersports.ShipmentApproval = (*InlineApprovalSaga)(nil)
)

// TemporalApprovalSaga starts approval sagas on a Temporal cluster.
type TemporalApprovalSaga struct {
	client    client.Client
	taskQueue string
}

// NewTemporalApprovalSaga wires a Temporal client into the saga starter.
func NewTemporalApprovalSaga(c client.Client) *TemporalApprovalSaga {
	return &TemporalApprovalSaga{client: c, taskQueue: approvalworkflows.OrderApprovalTaskQueue}
}

// Start launches the durable saga and returns once it is accepted. It never
// waits for the saga result; the wait can span the full 48 hour deadline.
func (s *TemporalApprovalSaga) Start(ctx context.Context, order *ordersdomain.Order) error {
	if s == nil || s.client == nil {
		return errors.New("temporal approval saga not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        approvalworkflows.WorkflowID(order.ID),
		TaskQueue: s.taskQueue,
	}
	_, err := s.client.ExecuteWorkflow(ctx, options, approvalworkflows.OrderApprovalWorkflow,
		approvalworkflows.OrderApprovalWorkflowInput{
			OrderID:      order.ID,
			CustomerName: order.CustomerName,
		})
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return domain.ErrDuplicateActiveExecution
		}
		return err
	}
	return nil
}

// InlineApprovalSaga registers the execution and sends the approval request
// without durable orchestration. Decisions are applied synchronously by the
// inline dispatcher. Dev fallback only: it provides no deadline timer.
type InlineApprovalSaga struct {
	tokens   approvalports.TokenStore
	notifier approvalports.NotificationGateway
	baseURL  string
}

// NewInlineApprovalSaga wraps the token store and notifier for synchronous use.
func NewInlineApprovalSaga(tokens approvalports.TokenStore, notifier approvalports.NotificationGateway, decisionBaseURL string) *InlineApprovalSaga {
	return &InlineApprovalSaga{tokens: tokens, notifier: notifier, baseURL: decisionBaseURL}
}

// Start persists the WAITING execution and sends the approval request.
func (s *InlineApprovalSaga) Start(ctx context.Context, order *ordersdomain.Order) error {
	if s == nil || s.tokens == nil {
		return errors.New("inline approval saga not configured")
	}
	token, err := domain.NewContinuationToken()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	execution := domain.ApprovalExecution{
		OrderID:   order.ID,
		Token:     token,
		Status:    domain.StatusWaiting,
		CreatedAt: now,
		Deadline:  now.Add(domain.DefaultDeadline),
	}
	if err := s.tokens.Create(ctx, execution); err != nil {
		return err
	}
	if s.notifier == nil {
		return nil
	}
	return s.notifier.SendApprovalRequest(ctx, approvalports.ApprovalRequest{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Token:        token,
		DecisionURL:  s.baseURL + "?orderId=" + order.ID + "&taskToken=" + token,
	})
}
