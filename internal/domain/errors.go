package domain

import (
	"fmt"
	"time"
)

// ValidationError marks malformed or out-of-range input, rejected before the
// pipeline runs.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

// ConflictError marks overlapping locks or a repack that cannot preserve all
// locks. Never silently resolved.
type ConflictError struct {
	Date time.Time
	Msg  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Date.Format("2006-01-02"), e.Msg)
}

// CapacityError marks a day that cannot honor the max-items-per-day limit.
type CapacityError struct {
	Date time.Time
	Msg  string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity on %s: %s", e.Date.Format("2006-01-02"), e.Msg)
}

// VerificationError is raised only in strict mode when a live transfer
// verification failed or was budget-exhausted.
type VerificationError struct {
	Date time.Time
	Msg  string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification on %s: %s", e.Date.Format("2006-01-02"), e.Msg)
}
