package workflows

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/onlineshop/backend/internal/domains/approvals/domain"
	approvalports "github.com/onlineshop/backend/internal/domains/approvals/ports"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
	approvalworkflows "github.com/onlineshop/backend/internal/durable/temporal/workflows/approvals"
)

var (
	_ approvalports.DecisionDispatcher = (*TemporalDecisionDispatcher)(nil)
	_ approvalports.DecisionDispatcher = (*InlineDecisionDispatcher)(nil)
)

// TemporalDecisionDispatcher relays decisions to the suspended saga as
// workflow signals. Signals are durable and delivered at least once; a
// duplicate relay lands on the saga's already-resolved no-op path.
type TemporalDecisionDispatcher struct {
	client client.Client
}

// NewTemporalDecisionDispatcher wires a Temporal client into the relay.
func NewTemporalDecisionDispatcher(c client.Client) *TemporalDecisionDispatcher {
	return &TemporalDecisionDispatcher{client: c}
}

// Dispatch signals the order's saga with the decision.
func (d *TemporalDecisionDispatcher) Dispatch(ctx context.Context, decision domain.Decision) error {
	if d == nil || d.client == nil {
		return errors.New("temporal decision dispatcher not configured")
	}
	err := d.client.SignalWorkflow(ctx, approvalworkflows.WorkflowID(decision.OrderID), "",
		approvalworkflows.DecisionSignalName,
		approvalworkflows.DecisionSignal{Token: decision.Token, Outcome: decision.Outcome})
	if err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(err, &notFound) {
			// The saga already ran to completion; the decision is recorded.
			return domain.ErrTokenAlreadyResolved
		}
		return err
	}
	return nil
}

// InlineDecisionDispatcher resolves the token and runs the follow-up chain
// synchronously. Dev fallback for setups without a Temporal cluster; it
// skips the feedback delay and provides no durable retry.
type InlineDecisionDispatcher struct {
	tokens   approvalports.TokenStore
	orders   ordersports.Repository
	notifier approvalports.NotificationGateway
}

// NewInlineDecisionDispatcher wires the inline resolution path.
func NewInlineDecisionDispatcher(tokens approvalports.TokenStore, orders ordersports.Repository, notifier approvalports.NotificationGateway) *InlineDecisionDispatcher {
	return &InlineDecisionDispatcher{tokens: tokens, orders: orders, notifier: notifier}
}

// Dispatch performs the resolution transition and the outcome actions in the
// caller's context.
func (d *InlineDecisionDispatcher) Dispatch(ctx context.Context, decision domain.Decision) error {
	if d == nil || d.tokens == nil {
		return errors.New("inline decision dispatcher not configured")
	}
	orderID, err := d.tokens.Resolve(ctx, decision.Token, time.Now().UTC())
	if err != nil {
		return err
	}
	order, err := d.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	notice := approvalports.OutcomeNotice{
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
	}
	if decision.Outcome == domain.OutcomeApprove {
		if d.notifier != nil {
			if err := d.notifier.SendShipmentConfirmed(ctx, notice); err != nil {
				return err
			}
			if err := d.notifier.SendFeedbackRequest(ctx, notice); err != nil {
				return err
			}
		}
		return d.tokens.Complete(ctx, decision.Token, domain.StatusApproved)
	}
	if err := d.orders.Delete(ctx, orderID); err != nil && !errors.Is(err, ordersports.ErrNotFound) {
		return err
	}
	if d.notifier != nil {
		if err := d.notifier.SendOrderRejected(ctx, notice); err != nil {
			return err
		}
	}
	return d.tokens.Complete(ctx, decision.Token, domain.StatusRejected)
}
