package journal

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the entry service and derivation engine.
// Callers match them with errors.Is.
var (
	// ErrNotFound means the requested entry or observation does not exist,
	// or belongs to a different user on a read path. Reads never distinguish
	// the two cases.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied means a mutation targeted another user's record.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrClassificationUnavailable means the emotion gateway failed, timed
	// out, or returned a payload without an emotion label. Entry writes
	// treat this as non-fatal.
	ErrClassificationUnavailable = errors.New("emotion classification unavailable")
)

// ValidationError rejects an entry write before anything is stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
