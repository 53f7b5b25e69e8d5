package ports

import (
	"context"
	"time"

	"github.com/onlineshop/backend/internal/domains/approvals/domain"
)

// TokenStore persists the mapping from a continuation token to a paused
// saga execution. Only the resolution transition mutates state; the decision
// endpoint is limited to Peek.
type TokenStore interface {
	// Create registers a new WAITING execution. It fails with
	// domain.ErrDuplicateActiveExecution when a non-terminal execution
	// already exists for the order.
	Create(ctx context.Context, execution domain.ApprovalExecution) error

	// Peek returns the execution owning the token without mutating it.
	// Unknown tokens yield domain.ErrTokenNotFound.
	Peek(ctx context.Context, token string) (*domain.ApprovalExecution, error)

	// Resolve performs the WAITING -> RESOLVING compare-and-set and returns
	// the order the token belongs to. It fails with domain.ErrTokenNotFound,
	// domain.ErrTokenExpired (deadline passed at `now`), or
	// domain.ErrTokenAlreadyResolved (a competing signal won the race).
	Resolve(ctx context.Context, token string, now time.Time) (orderID string, err error)

	// FindActiveByOrder returns the non-terminal execution for the order,
	// or domain.ErrTokenNotFound when none exists. Used to recover the token
	// when a registration attempt is retried after a lost response.
	FindActiveByOrder(ctx context.Context, orderID string) (*domain.ApprovalExecution, error)

	// Complete records the terminal status once all follow-up actions for
	// the execution have finished.
	Complete(ctx context.Context, token string, status domain.Status) error
}
