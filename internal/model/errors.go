package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds every operation can surface. The same
// auth error covers both "no such group" and "wrong code" so an
// unauthenticated prober cannot learn which groups exist.
var (
	ErrAuthFailed     = errors.New("invalid group or invitation code")
	ErrNotInGroup     = errors.New("guest does not belong to this group")
	ErrNotFound       = errors.New("not found")
	ErrTooManyGuests  = errors.New("guest count exceeds the maximum party size")
	ErrCodeImmutable  = errors.New("invitation code cannot be changed")
	ErrGuestProtected = errors.New("guest was added by an administrator and cannot be removed from the RSVP flow")
)

// Validated field names, used to subtype validation failures.
const (
	FieldName       = "name"
	FieldLocation   = "location"
	FieldDietary    = "dietary_preferences"
	FieldAge        = "age_category"
	FieldNotes      = "notes"
	FieldPartySize  = "party_size"
	FieldSubmission = "guests"
	FieldEmail      = "email"
	FieldLanguage   = "language"
)

// ValidationError reports a malformed field. Failures are never downgraded to
// defaults; the whole operation aborts.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a field-scoped validation failure.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
