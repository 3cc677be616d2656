package booking

import "errors"

// Business-rule outcomes, not system failures. Every violation is detected
// before any write and returned to the caller; no partial mutation occurs.
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrNoActivePackage   = errors.New("no active package covers the requested date")
	ErrQuotaExceeded     = errors.New("purchased session count for this type is exhausted")
	ErrSlotTaken         = errors.New("slot already confirmed for another member")
	ErrInvalidTransition = errors.New("status change not allowed from current state")
	ErrReasonRequired    = errors.New("cancellation reason required")
	ErrWindowClosed      = errors.New("cancellation window is closed")
)
