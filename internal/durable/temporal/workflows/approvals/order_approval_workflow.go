package approvals

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/onlineshop/backend/internal/domains/approvals/domain"
	approvalports "github.com/onlineshop/backend/internal/domains/approvals/ports"
	approvalactivities "github.com/onlineshop/backend/internal/durable/temporal/activities/approvals"
)

const (
	// OrderApprovalWorkflowName is the public identifier for registering the workflow.
	OrderApprovalWorkflowName = "approvals.workflows.OrderApproval"
	// OrderApprovalTaskQueue is the queue consumed by the worker processing approval sagas.
	OrderApprovalTaskQueue = "ORDER_APPROVAL"
	// DecisionSignalName is the channel the dispatcher relays decisions on.
	DecisionSignalName = "approval-decision"
)

// WorkflowID returns the deterministic workflow identifier for an order.
// Workflow ID uniqueness is what refuses a second concurrent saga per order.
func WorkflowID(orderID string) string {
	return fmt.Sprintf("order-approval-%s", orderID)
}

// OrderApprovalWorkflowInput starts one approval saga instance.
type OrderApprovalWorkflowInput struct {
	OrderID       string
	CustomerName  string
	Deadline      time.Duration
	FeedbackDelay time.Duration
}

// DecisionSignal is the payload relayed by the dispatcher when a human
// clicked the approval link.
type DecisionSignal struct {
	Token   string
	Outcome domain.Outcome
}

// OrderApprovalResult reports the terminal state the saga reached.
type OrderApprovalResult struct {
	OrderID string
	Status  domain.Status
}

// OrderApprovalWorkflow is the durable state machine coordinating a human
// shipment approval:
//
//	register token -> send approval request -> wait (decision | deadline)
//	-> approved: confirm shipment, delayed feedback request
//	-> rejected/expired: delete order, cancellation notice
//
// The first signal out of the wait claims the resolution through the token
// store compare-and-set; the competing signal lands on a no-op.
func OrderApprovalWorkflow(ctx workflow.Context, input OrderApprovalWorkflowInput) (*OrderApprovalResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderApprovalWorkflow started", "orderId", input.OrderID)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	deadline := input.Deadline
	if deadline <= 0 {
		deadline = domain.DefaultDeadline
	}
	feedbackDelay := input.FeedbackDelay
	if feedbackDelay <= 0 {
		feedbackDelay = domain.DefaultFeedbackDelay
	}

	var registration approvalactivities.RegisterExecutionResult
	err := workflow.ExecuteActivity(ctx, approvalactivities.RegisterExecutionActivityName,
		approvalactivities.RegisterExecutionInput{OrderID: input.OrderID, Deadline: deadline}).
		Get(ctx, &registration)
	if err != nil {
		logger.Error("OrderApprovalWorkflow failed to register execution", "orderId", input.OrderID, "error", err)
		return nil, err
	}

	err = workflow.ExecuteActivity(ctx, approvalactivities.SendApprovalRequestActivityName,
		approvalactivities.SendApprovalRequestInput{
			OrderID:      input.OrderID,
			CustomerName: input.CustomerName,
			Token:        registration.Token,
		}).Get(ctx, nil)
	if err != nil {
		// The saga must not stay suspended when nobody was ever asked to
		// decide. A failed approval request falls back to rejection, same as
		// a timeout.
		logger.Error("approval request failed, falling back to rejection", "orderId", input.OrderID, "error", err)
		alertOperator(ctx, input.OrderID, "approval-request", err)
		var resolution approvalactivities.ResolveTokenResult
		if err := workflow.ExecuteActivity(ctx, approvalactivities.ResolveTokenActivityName,
			approvalactivities.ResolveTokenInput{Token: registration.Token, AsOf: workflow.Now(ctx).UTC()}).
			Get(ctx, &resolution); err != nil {
			return nil, err
		}
		return finishRejected(ctx, input.OrderID, registration.Token, domain.StatusRejected)
	}

	decision, timedOut := awaitDecision(ctx, registration.Deadline)

	resolveAsOf := workflow.Now(ctx).UTC()
	if timedOut {
		resolveAsOf = registration.Deadline
	}
	var resolution approvalactivities.ResolveTokenResult
	err = workflow.ExecuteActivity(ctx, approvalactivities.ResolveTokenActivityName,
		approvalactivities.ResolveTokenInput{Token: registration.Token, AsOf: resolveAsOf}).
		Get(ctx, &resolution)
	if err != nil {
		logger.Error("resolution transition failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}

	switch {
	case resolution.Expired:
		// The decision lost the race against the deadline.
		logger.Info("decision arrived past the deadline, rejecting", "orderId", input.OrderID)
		return finishRejected(ctx, input.OrderID, registration.Token, domain.StatusExpired)
	case timedOut:
		logger.Info("no decision before deadline, rejecting", "orderId", input.OrderID)
		return finishRejected(ctx, input.OrderID, registration.Token, domain.StatusExpired)
	case decision.Outcome == domain.OutcomeApprove:
		return finishApproved(ctx, input.OrderID, registration.Token, feedbackDelay)
	default:
		return finishRejected(ctx, input.OrderID, registration.Token, domain.StatusRejected)
	}
}

// awaitDecision suspends the workflow until either a decision signal or the
// recorded deadline, whichever fires first. Late or duplicate signals are
// left unread; the compare-and-set makes them harmless.
func awaitDecision(ctx workflow.Context, deadline time.Time) (DecisionSignal, bool) {
	var decision DecisionSignal
	timedOut := false
	received := false

	timerCtx, cancelTimer := workflow.WithCancel(ctx)
	timer := workflow.NewTimer(timerCtx, deadline.Sub(workflow.Now(ctx)))
	decisionCh := workflow.GetSignalChannel(ctx, DecisionSignalName)

	selector := workflow.NewSelector(ctx)
	selector.AddReceive(decisionCh, func(c workflow.ReceiveChannel, _ bool) {
		c.Receive(ctx, &decision)
		received = true
	})
	selector.AddFuture(timer, func(workflow.Future) {
		timedOut = true
	})
	selector.Select(ctx)
	if received {
		cancelTimer()
	}
	return decision, timedOut && !received
}

func finishApproved(ctx workflow.Context, orderID, token string, feedbackDelay time.Duration) (*OrderApprovalResult, error) {
	logger := workflow.GetLogger(ctx)

	if err := workflow.ExecuteActivity(ctx, approvalactivities.ConfirmShipmentActivityName,
		approvalactivities.OrderNoticeInput{OrderID: orderID}).Get(ctx, nil); err != nil {
		logger.Error("shipment confirmation failed", "orderId", orderID, "error", err)
		alertOperator(ctx, orderID, "shipment-confirmation", err)
	}

	if err := workflow.Sleep(ctx, feedbackDelay); err != nil {
		return nil, err
	}

	if err := workflow.ExecuteActivity(ctx, approvalactivities.RequestFeedbackActivityName,
		approvalactivities.OrderNoticeInput{OrderID: orderID}).Get(ctx, nil); err != nil {
		logger.Error("feedback request failed", "orderId", orderID, "error", err)
		alertOperator(ctx, orderID, "feedback-request", err)
	}

	if err := completeExecution(ctx, token, domain.StatusApproved); err != nil {
		return nil, err
	}
	logger.Info("OrderApprovalWorkflow completed", "orderId", orderID, "status", domain.StatusApproved)
	return &OrderApprovalResult{OrderID: orderID, Status: domain.StatusApproved}, nil
}

func finishRejected(ctx workflow.Context, orderID, token string, status domain.Status) (*OrderApprovalResult, error) {
	logger := workflow.GetLogger(ctx)

	if err := workflow.ExecuteActivity(ctx, approvalactivities.RejectOrderActivityName,
		approvalactivities.OrderNoticeInput{OrderID: orderID}).Get(ctx, nil); err != nil {
		logger.Error("rejection cleanup failed", "orderId", orderID, "error", err)
		alertOperator(ctx, orderID, "rejection-cleanup", err)
	}

	if err := completeExecution(ctx, token, status); err != nil {
		return nil, err
	}
	logger.Info("OrderApprovalWorkflow completed", "orderId", orderID, "status", status)
	return &OrderApprovalResult{OrderID: orderID, Status: status}, nil
}

func completeExecution(ctx workflow.Context, token string, status domain.Status) error {
	return workflow.ExecuteActivity(ctx, approvalactivities.CompleteExecutionActivityName,
		approvalactivities.CompleteExecutionInput{Token: token, Status: status}).Get(ctx, nil)
}

// alertOperator is best effort: a failed follow-up action is surfaced to the
// operational channel without rolling back the decision itself.
func alertOperator(ctx workflow.Context, orderID, stage string, cause error) {
	alert := approvalports.OperatorAlert{OrderID: orderID, Stage: stage, Reason: cause.Error()}
	if err := workflow.ExecuteActivity(ctx, approvalactivities.PublishOperatorAlertActivityName, alert).
		Get(ctx, nil); err != nil {
		workflow.GetLogger(ctx).Error("operator alert failed", "orderId", orderID, "stage", stage, "error", err)
	}
}
