package memory

import (
	"context"
	"sync"
	"time"

	"github.com/onlineshop/backend/internal/domains/approvals/domain"
	"github.com/onlineshop/backend/internal/domains/approvals/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStore keeps approval executions in memory, used for tests and dev
// fallbacks. It honors the same compare-and-set semantics as the postgres
// adapter.
type TokenStore struct {
	mu         sync.Mutex
	executions map[string]*domain.ApprovalExecution
}

func NewTokenStore() *TokenStore {
	return &TokenStore{executions: map[string]*domain.ApprovalExecution{}}
}

func (s *TokenStore) Create(_ context.Context, execution domain.ApprovalExecution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.executions {
		if existing.OrderID == execution.OrderID && !existing.Status.Terminal() {
			return domain.ErrDuplicateActiveExecution
		}
	}
	stored := execution
	s.executions[execution.Token] = &stored
	return nil
}

func (s *TokenStore) Peek(_ context.Context, token string) (*domain.ApprovalExecution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	execution, ok := s.executions[token]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	copy := *execution
	return &copy, nil
}

func (s *TokenStore) Resolve(_ context.Context, token string, now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	execution, ok := s.executions[token]
	if !ok {
		return "", domain.ErrTokenNotFound
	}
	if execution.Status != domain.StatusWaiting {
		return "", domain.ErrTokenAlreadyResolved
	}
	if execution.Expired(now) {
		return "", domain.ErrTokenExpired
	}
	execution.Status = domain.StatusResolving
	return execution.OrderID, nil
}

func (s *TokenStore) FindActiveByOrder(_ context.Context, orderID string) (*domain.ApprovalExecution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, execution := range s.executions {
		if execution.OrderID == orderID && !execution.Status.Terminal() {
			copy := *execution
			return &copy, nil
		}
	}
	return nil, domain.ErrTokenNotFound
}

func (s *TokenStore) Complete(_ context.Context, token string, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	execution, ok := s.executions[token]
	if !ok {
		return domain.ErrTokenNotFound
	}
	execution.Status = status
	return nil
}
