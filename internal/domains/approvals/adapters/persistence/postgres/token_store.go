package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/onlineshop/backend/internal/domains/approvals/domain"
	"github.com/onlineshop/backend/internal/domains/approvals/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

const uniqueViolation = "23505"

// TokenStore persists approval executions in PostgreSQL using GORM.
// The WAITING -> RESOLVING transition is a conditional single-row UPDATE,
// which makes it the sole serialization point for the decision/timeout race.
type TokenStore struct {
	db *gorm.DB
}

// NewTokenStore wires a PostgreSQL-backed store. Caller manages DB lifecycle.
func NewTokenStore(db *gorm.DB) *TokenStore {
	store := &TokenStore{db: db}
	if db != nil {
		_ = db.AutoMigrate(&executionRecord{})
	}
	return store
}

// executionRecord maps one saga execution to a relational row. The partial
// unique index enforces "at most one non-terminal execution per order" at
// create time, without cross-row locking.
type executionRecord struct {
	Token     string    `gorm:"primaryKey;column:token;type:varchar(64)"`
	OrderID   string    `gorm:"column:order_id;type:varchar(64);uniqueIndex:idx_active_execution_per_order,where:status IN ('WAITING','RESOLVING')"`
	Status    string    `gorm:"column:status;type:varchar(16);index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	Deadline  time.Time `gorm:"column:deadline;index"`
}

func (executionRecord) TableName() string { return "approval_executions" }

func (s *TokenStore) Create(ctx context.Context, execution domain.ApprovalExecution) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	record := executionRecord{
		Token:     execution.Token,
		OrderID:   execution.OrderID,
		Status:    string(execution.Status),
		CreatedAt: execution.CreatedAt,
		Deadline:  execution.Deadline,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateActiveExecution
		}
		return err
	}
	return nil
}

func (s *TokenStore) Peek(ctx context.Context, token string) (*domain.ApprovalExecution, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record executionRecord
	if err := s.db.WithContext(ctx).First(&record, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (s *TokenStore) Resolve(ctx context.Context, token string, now time.Time) (string, error) {
	if err := s.ensureDB(); err != nil {
		return "", err
	}
	result := s.db.WithContext(ctx).
		Model(&executionRecord{}).
		Where("token = ? AND status = ? AND deadline >= ?", token, string(domain.StatusWaiting), now).
		Update("status", string(domain.StatusResolving))
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish the loss reasons for the caller.
		execution, err := s.Peek(ctx, token)
		if err != nil {
			return "", err
		}
		if execution.Status != domain.StatusWaiting {
			return "", domain.ErrTokenAlreadyResolved
		}
		return "", domain.ErrTokenExpired
	}
	var record executionRecord
	if err := s.db.WithContext(ctx).First(&record, "token = ?", token).Error; err != nil {
		return "", err
	}
	return record.OrderID, nil
}

func (s *TokenStore) FindActiveByOrder(ctx context.Context, orderID string) (*domain.ApprovalExecution, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record executionRecord
	err := s.db.WithContext(ctx).
		Where("order_id = ? AND status IN ?", orderID, []string{string(domain.StatusWaiting), string(domain.StatusResolving)}).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (s *TokenStore) Complete(ctx context.Context, token string, status domain.Status) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Model(&executionRecord{}).
		Where("token = ?", token).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

func (s *TokenStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres token store not configured")
	}
	return nil
}

func (r executionRecord) toDomain() *domain.ApprovalExecution {
	return &domain.ApprovalExecution{
		OrderID:   r.OrderID,
		Token:     r.Token,
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
		Deadline:  r.Deadline,
	}
}
