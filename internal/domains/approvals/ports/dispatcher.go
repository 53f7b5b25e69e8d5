package ports

import (
	"context"

	"github.com/onlineshop/backend/internal/domains/approvals/domain"
)

// DecisionDispatcher relays a validated decision to the suspended saga.
// Delivery is at-least-once; duplicate relays must land on the
// already-resolved no-op path of the resolution transition.
type DecisionDispatcher interface {
	Dispatch(ctx context.Context, decision domain.Decision) error
}
