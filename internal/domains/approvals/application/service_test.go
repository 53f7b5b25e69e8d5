package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	approvalsmemory "github.com/onlineshop/backend/internal/domains/approvals/adapters/memory"
	"github.com/onlineshop/backend/internal/domains/approvals/domain"
	ordersmemory "github.com/onlineshop/backend/internal/domains/orders/adapters/memory"
	ordersdomain "github.com/onlineshop/backend/internal/domains/orders/domain"
)

type recordingDispatcher struct {
	decisions []domain.Decision
}

func (d *recordingDispatcher) Dispatch(_ context.Context, decision domain.Decision) error {
	d.decisions = append(d.decisions, decision)
	return nil
}

type fixture struct {
	tokens     *approvalsmemory.TokenStore
	orders     *ordersmemory.Repository
	dispatcher *recordingDispatcher
	service    *Service
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		tokens:     approvalsmemory.NewTokenStore(),
		orders:     ordersmemory.NewRepository(),
		dispatcher: &recordingDispatcher{},
		now:        time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
	}
	f.service = NewService(f.tokens, f.orders, f.dispatcher).WithClock(func() time.Time { return f.now })

	order, err := ordersdomain.NewOrder("O1", "C1", "Ada", "ada@example.com",
		ordersdomain.Address{Country: "RO", City: "Cluj", Street: "Main 1"},
		[]ordersdomain.LineItem{{ProductID: "P1", Quantity: 1}},
		f.now,
	)
	require.NoError(t, err)
	_, err = f.orders.Save(context.Background(), order)
	require.NoError(t, err)

	require.NoError(t, f.tokens.Create(context.Background(), domain.ApprovalExecution{
		OrderID:   "O1",
		Token:     "tok+en==",
		Status:    domain.StatusWaiting,
		CreatedAt: f.now,
		Deadline:  f.now.Add(48 * time.Hour),
	}))
	return f
}

func TestSubmitDecision_Approve(t *testing.T) {
	f := newFixture(t)

	receipt, err := f.service.SubmitDecision(context.Background(), SubmitDecisionInput{
		OrderID: "O1", Token: "tok+en==", Result: "approve",
	})

	require.NoError(t, err)
	require.Equal(t, "approved", receipt.Action)
	require.Equal(t, "Order approved successfully.", receipt.Message())
	require.Len(t, f.dispatcher.decisions, 1)
	require.Equal(t, domain.OutcomeApprove, f.dispatcher.decisions[0].Outcome)
}

func TestSubmitDecision_RestoresPlusFromSpaces(t *testing.T) {
	f := newFixture(t)

	// URL decoding turns '+' into ' '; the endpoint restores it.
	_, err := f.service.SubmitDecision(context.Background(), SubmitDecisionInput{
		OrderID: "O1", Token: "tok en==", Result: "approve",
	})

	require.NoError(t, err)
	require.Equal(t, "tok+en==", f.dispatcher.decisions[0].Token)
}

func TestSubmitDecision_AnythingElseRejects(t *testing.T) {
	f := newFixture(t)

	receipt, err := f.service.SubmitDecision(context.Background(), SubmitDecisionInput{
		OrderID: "O1", Token: "tok+en==", Result: "maybe-later",
	})

	require.NoError(t, err)
	require.Equal(t, "rejected", receipt.Action)
	require.Equal(t, domain.OutcomeReject, f.dispatcher.decisions[0].Outcome)
}

func TestSubmitDecision_MissingParams(t *testing.T) {
	f := newFixture(t)

	for _, input := range []SubmitDecisionInput{
		{Token: "tok+en==", Result: "approve"},
		{OrderID: "O1", Result: "approve"},
		{OrderID: "O1", Token: "tok+en=="},
	} {
		_, err := f.service.SubmitDecision(context.Background(), input)
		require.ErrorIs(t, err, ErrInvalidRequest)
	}
	require.Empty(t, f.dispatcher.decisions)
}

func TestSubmitDecision_UnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SubmitDecision(context.Background(), SubmitDecisionInput{
		OrderID: "O1", Token: "garbled", Result: "approve",
	})

	require.ErrorIs(t, err, domain.ErrTokenNotFound)
	require.Empty(t, f.dispatcher.decisions)
}

func TestSubmitDecision_TokenForDifferentOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SubmitDecision(context.Background(), SubmitDecisionInput{
		OrderID: "O2", Token: "tok+en==", Result: "approve",
	})

	require.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestSubmitDecision_AlreadyResolved(t *testing.T) {
	f := newFixture(t)
	_, err := f.tokens.Resolve(context.Background(), "tok+en==", f.now)
	require.NoError(t, err)

	_, err = f.service.SubmitDecision(context.Background(), SubmitDecisionInput{
		OrderID: "O1", Token: "tok+en==", Result: "reject",
	})

	require.ErrorIs(t, err, domain.ErrTokenAlreadyResolved)
	require.Empty(t, f.dispatcher.decisions)
}

func TestSubmitDecision_PastDeadline(t *testing.T) {
	f := newFixture(t)
	f.now = f.now.Add(49 * time.Hour)

	_, err := f.service.SubmitDecision(context.Background(), SubmitDecisionInput{
		OrderID: "O1", Token: "tok+en==", Result: "approve",
	})

	require.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestSubmitDecision_OrderGone(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.orders.Delete(context.Background(), "O1"))

	_, err := f.service.SubmitDecision(context.Background(), SubmitDecisionInput{
		OrderID: "O1", Token: "tok+en==", Result: "approve",
	})

	require.ErrorIs(t, err, ErrOrderNotFound)
}
