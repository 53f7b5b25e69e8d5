package domain

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

// Status enumerates the lifecycle of one shipment approval execution.
type Status string

const (
	// StatusWaiting means the approval request was sent and the saga is
	// suspended until a decision or the deadline.
	StatusWaiting Status = "WAITING"
	// StatusResolving is the transient state claimed by the first signal
	// (decision or timeout) that wins the compare-and-set.
	StatusResolving Status = "RESOLVING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	// StatusExpired marks a rejection caused by the deadline elapsing.
	StatusExpired Status = "EXPIRED"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusExpired:
		return true
	default:
		return false
	}
}

// Outcome is the human decision carried by the callback.
type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeReject  Outcome = "reject"
)

// ParseOutcome maps the raw callback result parameter to an outcome.
// Anything other than "approve" is treated as a rejection.
func ParseOutcome(raw string) Outcome {
	if strings.TrimSpace(raw) == string(OutcomeApprove) {
		return OutcomeApprove
	}
	return OutcomeReject
}

// DefaultDeadline is how long the saga waits for a human decision before
// falling back to rejection.
const DefaultDeadline = 48 * time.Hour

// DefaultFeedbackDelay is the pause between the shipment confirmation and
// the feedback request on the approved path.
const DefaultFeedbackDelay = time.Hour

var (
	ErrTokenNotFound            = errors.New("continuation token not found")
	ErrTokenExpired             = errors.New("continuation token expired")
	ErrTokenAlreadyResolved     = errors.New("continuation token already resolved")
	ErrDuplicateActiveExecution = errors.New("an active approval execution already exists for this order")
)

// ApprovalExecution is one in-flight saga instance. At most one non-terminal
// execution exists per order at any time.
type ApprovalExecution struct {
	OrderID   string
	Token     string
	Status    Status
	CreatedAt time.Time
	Deadline  time.Time
}

// Expired reports whether the deadline has passed at the given instant.
func (e ApprovalExecution) Expired(now time.Time) bool {
	return now.After(e.Deadline)
}

// Decision is the transient value produced by the decision callback and
// consumed by the dispatcher. It is never persisted beyond delivery.
type Decision struct {
	OrderID string
	Token   string
	Outcome Outcome
}

// NewContinuationToken returns an opaque, unguessable, single-use token.
// Standard base64 is used deliberately: tokens may contain '+', which email
// clients and URL decoding mangle into spaces, exercising the restoration
// path in the decision endpoint.
func NewContinuationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// NormalizeToken restores '+' characters that arrive as spaces after URL
// decoding of the callback query string.
func NormalizeToken(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), " ", "+")
}
