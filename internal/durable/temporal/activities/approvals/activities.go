package approvals

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/onlineshop/backend/internal/domains/approvals/domain"
	approvalports "github.com/onlineshop/backend/internal/domains/approvals/ports"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
)

const (
	RegisterExecutionActivityName    = "approvals.activities.RegisterExecution"
	SendApprovalRequestActivityName  = "approvals.activities.SendApprovalRequest"
	ResolveTokenActivityName         = "approvals.activities.ResolveToken"
	ConfirmShipmentActivityName      = "approvals.activities.ConfirmShipment"
	RequestFeedbackActivityName      = "approvals.activities.RequestFeedback"
	RejectOrderActivityName          = "approvals.activities.RejectOrder"
	CompleteExecutionActivityName    = "approvals.activities.CompleteExecution"
	PublishOperatorAlertActivityName = "approvals.activities.PublishOperatorAlert"
)

// Activities groups the side effects of the order approval saga. The
// workflow stays deterministic; everything touching the token store, the
// order repository, or the notification channel lives here.
type Activities struct {
	tokens          approvalports.TokenStore
	orders          ordersports.Repository
	notifier        approvalports.NotificationGateway
	decisionBaseURL string
}

// NewActivities wires the saga collaborators into the activity bundle.
// decisionBaseURL is the public endpoint the approval email links back to.
func NewActivities(tokens approvalports.TokenStore, orders ordersports.Repository, notifier approvalports.NotificationGateway, decisionBaseURL string) *Activities {
	return &Activities{
		tokens:          tokens,
		orders:          orders,
		notifier:        notifier,
		decisionBaseURL: decisionBaseURL,
	}
}

// RegisterExecutionInput starts the WAITING state for one order.
type RegisterExecutionInput struct {
	OrderID  string
	Deadline time.Duration
}

// RegisterExecutionResult carries the persisted token and its deadline back
// into the workflow so the timer can be aligned with the stored row.
type RegisterExecutionResult struct {
	Token    string
	Deadline time.Time
}

// RegisterExecution generates the continuation token and persists the
// execution. A retry after a lost response recovers the already-registered
// token instead of failing on the duplicate-execution guard.
func (a *Activities) RegisterExecution(ctx context.Context, input RegisterExecutionInput) (*RegisterExecutionResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.tokens == nil {
		return nil, errors.New("register execution activity not initialized")
	}
	deadline := input.Deadline
	if deadline <= 0 {
		deadline = domain.DefaultDeadline
	}
	token, err := domain.NewContinuationToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	execution := domain.ApprovalExecution{
		OrderID:   input.OrderID,
		Token:     token,
		Status:    domain.StatusWaiting,
		CreatedAt: now,
		Deadline:  now.Add(deadline),
	}
	if err := a.tokens.Create(ctx, execution); err != nil {
		if errors.Is(err, domain.ErrDuplicateActiveExecution) {
			existing, findErr := a.tokens.FindActiveByOrder(ctx, input.OrderID)
			if findErr == nil {
				logger.Info("recovered existing approval execution", "orderId", input.OrderID)
				return &RegisterExecutionResult{Token: existing.Token, Deadline: existing.Deadline}, nil
			}
		}
		logger.Error("failed to register approval execution", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("approval execution registered", "orderId", input.OrderID, "deadline", execution.Deadline)
	return &RegisterExecutionResult{Token: token, Deadline: execution.Deadline}, nil
}

// SendApprovalRequestInput carries everything the approval email needs.
type SendApprovalRequestInput struct {
	OrderID      string
	CustomerName string
	Token        string
}

// SendApprovalRequest publishes the approval-request notification with the
// embedded decision link.
func (a *Activities) SendApprovalRequest(ctx context.Context, input SendApprovalRequestInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.notifier == nil {
		return errors.New("approval request activity not initialized")
	}
	request := approvalports.ApprovalRequest{
		OrderID:      input.OrderID,
		CustomerName: input.CustomerName,
		Token:        input.Token,
		DecisionURL:  a.buildDecisionURL(input.OrderID, input.Token),
	}
	if err := a.notifier.SendApprovalRequest(ctx, request); err != nil {
		logger.Error("approval request notification failed", "orderId", input.OrderID, "error", err)
		return err
	}
	logger.Info("approval request sent", "orderId", input.OrderID)
	return nil
}

// ResolveTokenInput claims the resolution transition for the token. AsOf is
// the instant the resolution is attributed to: wall clock for an explicit
// decision, the recorded deadline for the timeout branch.
type ResolveTokenInput struct {
	Token string
	AsOf  time.Time
}

// ResolveTokenResult reports whether this claim won the compare-and-set.
// Business losses (already resolved, expired) are results, not errors, so
// Temporal does not retry them.
type ResolveTokenResult struct {
	OrderID         string
	Claimed         bool
	AlreadyResolved bool
	Expired         bool
}

// ResolveToken performs the WAITING -> RESOLVING compare-and-set.
func (a *Activities) ResolveToken(ctx context.Context, input ResolveTokenInput) (*ResolveTokenResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.tokens == nil {
		return nil, errors.New("resolve token activity not initialized")
	}
	orderID, err := a.tokens.Resolve(ctx, input.Token, input.AsOf)
	switch {
	case err == nil:
		logger.Info("resolution transition claimed", "orderId", orderID)
		return &ResolveTokenResult{OrderID: orderID, Claimed: true}, nil
	case errors.Is(err, domain.ErrTokenAlreadyResolved):
		logger.Info("resolution already claimed, no-op")
		return &ResolveTokenResult{AlreadyResolved: true}, nil
	case errors.Is(err, domain.ErrTokenExpired):
		logger.Info("resolution attempted past deadline")
		return &ResolveTokenResult{Expired: true}, nil
	default:
		logger.Error("resolution transition failed", "error", err)
		return nil, err
	}
}

// OrderNoticeInput identifies the order a follow-up notice refers to.
type OrderNoticeInput struct {
	OrderID string
}

// ConfirmShipment emails the customer that the shipment was approved.
func (a *Activities) ConfirmShipment(ctx context.Context, input OrderNoticeInput) error {
	logger := activity.GetLogger(ctx)
	notice, err := a.buildOutcomeNotice(ctx, input.OrderID)
	if err != nil {
		logger.Error("shipment confirmation failed to load order", "orderId", input.OrderID, "error", err)
		return err
	}
	if err := a.notifier.SendShipmentConfirmed(ctx, *notice); err != nil {
		logger.Error("shipment confirmation email failed", "orderId", input.OrderID, "error", err)
		return err
	}
	logger.Info("shipment confirmation sent", "orderId", input.OrderID)
	return nil
}

// RequestFeedback emails the customer a feedback request after the
// post-confirmation delay.
func (a *Activities) RequestFeedback(ctx context.Context, input OrderNoticeInput) error {
	logger := activity.GetLogger(ctx)
	notice, err := a.buildOutcomeNotice(ctx, input.OrderID)
	if err != nil {
		logger.Error("feedback request failed to load order", "orderId", input.OrderID, "error", err)
		return err
	}
	if err := a.notifier.SendFeedbackRequest(ctx, *notice); err != nil {
		logger.Error("feedback request email failed", "orderId", input.OrderID, "error", err)
		return err
	}
	logger.Info("feedback request sent", "orderId", input.OrderID)
	return nil
}

// RejectOrder deletes the order record and emails the cancellation notice.
// A retry that finds the order already deleted is a no-op, keeping the
// deletion exactly-once.
func (a *Activities) RejectOrder(ctx context.Context, input OrderNoticeInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.orders == nil || a.notifier == nil {
		return errors.New("reject order activity not initialized")
	}
	notice, err := a.buildOutcomeNotice(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, ordersports.ErrNotFound) {
			logger.Info("order already removed, skipping rejection cleanup", "orderId", input.OrderID)
			return nil
		}
		return err
	}
	if err := a.orders.Delete(ctx, input.OrderID); err != nil && !errors.Is(err, ordersports.ErrNotFound) {
		logger.Error("order deletion failed", "orderId", input.OrderID, "error", err)
		return err
	}
	if err := a.notifier.SendOrderRejected(ctx, *notice); err != nil {
		logger.Error("cancellation email failed", "orderId", input.OrderID, "error", err)
		return err
	}
	logger.Info("order rejected and removed", "orderId", input.OrderID)
	return nil
}

// CompleteExecutionInput archives the terminal status on the stored row.
type CompleteExecutionInput struct {
	Token  string
	Status domain.Status
}

// CompleteExecution records the terminal status once follow-ups finished.
func (a *Activities) CompleteExecution(ctx context.Context, input CompleteExecutionInput) error {
	if a == nil || a.tokens == nil {
		return errors.New("complete execution activity not initialized")
	}
	if err := a.tokens.Complete(ctx, input.Token, input.Status); err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// PublishOperatorAlert surfaces a downstream action failure to the
// operational channel. It never fails the workflow.
func (a *Activities) PublishOperatorAlert(ctx context.Context, alert approvalports.OperatorAlert) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.notifier == nil {
		return errors.New("operator alert activity not initialized")
	}
	if err := a.notifier.PublishOperatorAlert(ctx, alert); err != nil {
		logger.Error("operator alert delivery failed", "orderId", alert.OrderID, "stage", alert.Stage, "error", err)
		return err
	}
	return nil
}

func (a *Activities) buildOutcomeNotice(ctx context.Context, orderID string) (*approvalports.OutcomeNotice, error) {
	if a == nil || a.orders == nil {
		return nil, errors.New("activity not initialized")
	}
	order, err := a.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &approvalports.OutcomeNotice{
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
	}, nil
}

func (a *Activities) buildDecisionURL(orderID, token string) string {
	values := url.Values{}
	values.Set("orderId", orderID)
	values.Set("taskToken", token)
	return fmt.Sprintf("%s?%s", a.decisionBaseURL, values.Encode())
}
