package application

import "errors"

var (
	// ErrInvalidRequest signals malformed or missing callback parameters.
	// The caller must resubmit correctly; nothing is retried.
	ErrInvalidRequest = errors.New("invalid decision request")

	// ErrOrderNotFound means the callback referenced an order that no
	// longer exists.
	ErrOrderNotFound = errors.New("order not found")
)
