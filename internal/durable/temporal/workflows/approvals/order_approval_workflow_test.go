package approvals

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	approvalsmemory "github.com/onlineshop/backend/internal/domains/approvals/adapters/memory"
	"github.com/onlineshop/backend/internal/domains/approvals/domain"
	approvalports "github.com/onlineshop/backend/internal/domains/approvals/ports"
	ordersmemory "github.com/onlineshop/backend/internal/domains/orders/adapters/memory"
	ordersdomain "github.com/onlineshop/backend/internal/domains/orders/domain"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
	approvalactivities "github.com/onlineshop/backend/internal/durable/temporal/activities/approvals"
)

type fakeGateway struct {
	mu               sync.Mutex
	approvalErr      error
	approvalRequests []approvalports.ApprovalRequest
	confirmed        int
	rejected         int
	feedback         int
	alerts           []approvalports.OperatorAlert
}

func (g *fakeGateway) SendApprovalRequest(_ context.Context, request approvalports.ApprovalRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.approvalErr != nil {
		return g.approvalErr
	}
	g.approvalRequests = append(g.approvalRequests, request)
	return nil
}

func (g *fakeGateway) SendShipmentConfirmed(_ context.Context, _ approvalports.OutcomeNotice) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.confirmed++
	return nil
}

func (g *fakeGateway) SendOrderRejected(_ context.Context, _ approvalports.OutcomeNotice) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rejected++
	return nil
}

func (g *fakeGateway) SendFeedbackRequest(_ context.Context, _ approvalports.OutcomeNotice) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.feedback++
	return nil
}

func (g *fakeGateway) PublishOperatorAlert(_ context.Context, alert approvalports.OperatorAlert) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.alerts = append(g.alerts, alert)
	return nil
}

type sagaFixture struct {
	tokens  *approvalsmemory.TokenStore
	orders  *ordersmemory.Repository
	gateway *fakeGateway
	env     *testsuite.TestWorkflowEnvironment
}

func newSagaFixture(t *testing.T) *sagaFixture {
	t.Helper()
	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()

	f := &sagaFixture{
		tokens:  approvalsmemory.NewTokenStore(),
		orders:  ordersmemory.NewRepository(),
		gateway: &fakeGateway{},
		env:     env,
	}
	activities := approvalactivities.NewActivities(f.tokens, f.orders, f.gateway, "http://localhost:8080/v2/shipment/decision")

	env.RegisterWorkflowWithOptions(OrderApprovalWorkflow, workflow.RegisterOptions{Name: OrderApprovalWorkflowName})
	env.RegisterActivityWithOptions(activities.RegisterExecution, activity.RegisterOptions{Name: approvalactivities.RegisterExecutionActivityName})
	env.RegisterActivityWithOptions(activities.SendApprovalRequest, activity.RegisterOptions{Name: approvalactivities.SendApprovalRequestActivityName})
	env.RegisterActivityWithOptions(activities.ResolveToken, activity.RegisterOptions{Name: approvalactivities.ResolveTokenActivityName})
	env.RegisterActivityWithOptions(activities.ConfirmShipment, activity.RegisterOptions{Name: approvalactivities.ConfirmShipmentActivityName})
	env.RegisterActivityWithOptions(activities.RequestFeedback, activity.RegisterOptions{Name: approvalactivities.RequestFeedbackActivityName})
	env.RegisterActivityWithOptions(activities.RejectOrder, activity.RegisterOptions{Name: approvalactivities.RejectOrderActivityName})
	env.RegisterActivityWithOptions(activities.CompleteExecution, activity.RegisterOptions{Name: approvalactivities.CompleteExecutionActivityName})
	env.RegisterActivityWithOptions(activities.PublishOperatorAlert, activity.RegisterOptions{Name: approvalactivities.PublishOperatorAlertActivityName})
	return f
}

func (f *sagaFixture) placeOrder(t *testing.T, id string) {
	t.Helper()
	order, err := ordersdomain.NewOrder(id, "C1", "Ada", "ada@example.com",
		ordersdomain.Address{Country: "RO", City: "Cluj", Street: "Main 1"},
		[]ordersdomain.LineItem{{ProductID: "P1", Quantity: 2}},
		time.Now().UTC(),
	)
	require.NoError(t, err)
	_, err = f.orders.Save(context.Background(), order)
	require.NoError(t, err)
}

func (f *sagaFixture) signalDecision(t *testing.T, orderID string, outcome domain.Outcome, after time.Duration) {
	t.Helper()
	f.env.RegisterDelayedCallback(func() {
		execution, err := f.tokens.FindActiveByOrder(context.Background(), orderID)
		require.NoError(t, err)
		f.env.SignalWorkflow(DecisionSignalName, DecisionSignal{Token: execution.Token, Outcome: outcome})
	}, after)
}

func (f *sagaFixture) run(t *testing.T, orderID string) OrderApprovalResult {
	t.Helper()
	f.env.ExecuteWorkflow(OrderApprovalWorkflowName, OrderApprovalWorkflowInput{
		OrderID:      orderID,
		CustomerName: "Ada",
	})
	require.True(t, f.env.IsWorkflowCompleted())
	require.NoError(t, f.env.GetWorkflowError())
	var result OrderApprovalResult
	require.NoError(t, f.env.GetWorkflowResult(&result))
	return result
}

func TestOrderApprovalWorkflow_ApproveBeforeDeadline(t *testing.T) {
	f := newSagaFixture(t)
	f.placeOrder(t, "O1")
	f.signalDecision(t, "O1", domain.OutcomeApprove, 2*time.Hour)

	result := f.run(t, "O1")

	require.Equal(t, domain.StatusApproved, result.Status)
	require.Len(t, f.gateway.approvalRequests, 1)
	require.Equal(t, 1, f.gateway.confirmed)
	require.Equal(t, 1, f.gateway.feedback)
	require.Equal(t, 0, f.gateway.rejected)

	// The order survives an approval.
	_, err := f.orders.GetByID(context.Background(), "O1")
	require.NoError(t, err)
}

func TestOrderApprovalWorkflow_TimeoutRejects(t *testing.T) {
	f := newSagaFixture(t)
	f.placeOrder(t, "O2")

	result := f.run(t, "O2")

	require.Equal(t, domain.StatusExpired, result.Status)
	require.Equal(t, 0, f.gateway.confirmed)
	require.Equal(t, 0, f.gateway.feedback)
	require.Equal(t, 1, f.gateway.rejected)

	_, err := f.orders.GetByID(context.Background(), "O2")
	require.ErrorIs(t, err, ordersports.ErrNotFound)
}

func TestOrderApprovalWorkflow_ExplicitReject(t *testing.T) {
	f := newSagaFixture(t)
	f.placeOrder(t, "O3")
	f.signalDecision(t, "O3", domain.OutcomeReject, time.Hour)

	result := f.run(t, "O3")

	require.Equal(t, domain.StatusRejected, result.Status)
	require.Equal(t, 1, f.gateway.rejected)
	require.Equal(t, 0, f.gateway.confirmed)
	require.Equal(t, 0, f.gateway.feedback)

	_, err := f.orders.GetByID(context.Background(), "O3")
	require.ErrorIs(t, err, ordersports.ErrNotFound)
}

func TestOrderApprovalWorkflow_SecondSignalIsNoOp(t *testing.T) {
	f := newSagaFixture(t)
	f.placeOrder(t, "O1")
	f.signalDecision(t, "O1", domain.OutcomeApprove, 2*time.Hour)
	f.env.RegisterDelayedCallback(func() {
		// The losing decision arrives while the saga already claimed the
		// resolution; it must not trigger a second transition.
		execution, err := f.tokens.Peek(context.Background(), mustActiveTokenBefore(f))
		if err == nil {
			f.env.SignalWorkflow(DecisionSignalName, DecisionSignal{Token: execution.Token, Outcome: domain.OutcomeReject})
		}
	}, 2*time.Hour+time.Minute)

	result := f.run(t, "O1")

	require.Equal(t, domain.StatusApproved, result.Status)
	require.Equal(t, 1, f.gateway.confirmed)
	require.Equal(t, 0, f.gateway.rejected)

	_, err := f.orders.GetByID(context.Background(), "O1")
	require.NoError(t, err)
}

func TestOrderApprovalWorkflow_NotificationFailureFallsBackToRejection(t *testing.T) {
	f := newSagaFixture(t)
	f.placeOrder(t, "O4")
	f.gateway.approvalErr = errors.New("smtp relay unavailable")

	result := f.run(t, "O4")

	require.Equal(t, domain.StatusRejected, result.Status)
	require.Equal(t, 1, f.gateway.rejected)
	require.NotEmpty(t, f.gateway.alerts)
	require.Equal(t, "approval-request", f.gateway.alerts[0].Stage)

	_, err := f.orders.GetByID(context.Background(), "O4")
	require.ErrorIs(t, err, ordersports.ErrNotFound)
}

// mustActiveTokenBefore returns the token of the last registered execution,
// regardless of its current status.
func mustActiveTokenBefore(f *sagaFixture) string {
	execution, err := f.tokens.FindActiveByOrder(context.Background(), "O1")
	if err == nil {
		return execution.Token
	}
	return ""
}
