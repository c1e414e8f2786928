package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. All are local,
// recoverable errors reported synchronously to the caller.

var (
	// Not-found errors
	ErrActionTypeNotFound = errors.New("action type not found in catalog")
	ErrBadgeNotFound      = errors.New("badge rule not found")

	// Invalid-input errors
	ErrEmptyDescription = errors.New("description is empty")
	ErrFutureTimestamp  = errors.New("timestamp is in the future")
	ErrEmptyUserID      = errors.New("user id is empty")
	ErrInvalidWindow    = errors.New("window must be at least 1 day")

	// Conflict errors
	ErrDuplicateSubmission = errors.New("duplicate submission — idempotency key already used")

	// Badge rule set errors (configuration, caught at engine construction)
	ErrUnknownPrerequisite = errors.New("badge prerequisite references unknown rule")
	ErrPrerequisiteCycle   = errors.New("badge prerequisites form a cycle")
	ErrUnknownMetric       = errors.New("badge rule has unknown metric")
)
