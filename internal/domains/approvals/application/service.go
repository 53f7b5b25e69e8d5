package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/onlineshop/backend/internal/domains/approvals/domain"
	"github.com/onlineshop/backend/internal/domains/approvals/ports"
	ordersports "github.com/onlineshop/backend/internal/domains/orders/ports"
)

// SubmitDecisionInput carries the raw decision callback parameters.
type SubmitDecisionInput struct {
	OrderID string
	Token   string
	Result  string
}

// DecisionReceipt is returned to the caller once the relay accepted the
// decision. The follow-up chain (confirmation email, feedback request)
// completes asynchronously.
type DecisionReceipt struct {
	OrderID string
	Action  string
}

// Message renders the human-facing confirmation line.
func (r DecisionReceipt) Message() string {
	return fmt.Sprintf("Order %s successfully.", r.Action)
}

// Service implements the decision endpoint use case: validate the token,
// enrich with the order, and hand the decision to the dispatcher.
type Service struct {
	tokens     ports.TokenStore
	orders     ordersports.Repository
	dispatcher ports.DecisionDispatcher
	now        func() time.Time
}

// NewService wires the decision use case with its collaborators.
func NewService(tokens ports.TokenStore, orders ordersports.Repository, dispatcher ports.DecisionDispatcher) *Service {
	return &Service{tokens: tokens, orders: orders, dispatcher: dispatcher, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SubmitDecision validates the callback and relays the decision. It returns
// as soon as the hand-off is accepted; it does not wait for the saga to run
// its follow-up actions.
func (s *Service) SubmitDecision(ctx context.Context, input SubmitDecisionInput) (*DecisionReceipt, error) {
	if strings.TrimSpace(input.OrderID) == "" || strings.TrimSpace(input.Token) == "" || strings.TrimSpace(input.Result) == "" {
		return nil, fmt.Errorf("%w: orderId, taskToken and result are required", ErrInvalidRequest)
	}
	token := domain.NormalizeToken(input.Token)
	outcome := domain.ParseOutcome(input.Result)

	execution, err := s.tokens.Peek(ctx, token)
	if err != nil {
		return nil, err
	}
	// A token submitted against the wrong order is indistinguishable from an
	// unknown token to the caller.
	if execution.OrderID != input.OrderID {
		return nil, domain.ErrTokenNotFound
	}
	if execution.Status.Terminal() || execution.Status == domain.StatusResolving {
		return nil, domain.ErrTokenAlreadyResolved
	}
	if execution.Expired(s.now()) {
		return nil, domain.ErrTokenExpired
	}

	if _, err := s.orders.GetByID(ctx, input.OrderID); err != nil {
		if err == ordersports.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, input.OrderID)
		}
		return nil, err
	}

	decision := domain.Decision{OrderID: input.OrderID, Token: token, Outcome: outcome}
	if err := s.dispatcher.Dispatch(ctx, decision); err != nil {
		return nil, err
	}

	action := "rejected"
	if outcome == domain.OutcomeApprove {
		action = "approved"
	}
	return &DecisionReceipt{OrderID: input.OrderID, Action: action}, nil
}
