package pepperplate

import (
	"fmt"
)

const (
	reason_auth_rejected        = "invalid credentials or unreachable"
	reason_count_unavailable    = "count unavailable"
	reason_listing_unavailable  = "listing unavailable"
	reason_load_more_failed     = "load more failed"
	reason_missing_name         = "missing name"
	reason_page_unavailable     = "page unavailable"
	reason_photo_fetch_failed   = "photo fetch failed"
	reason_enumeration_canceled = "canceled"
)

// AuthError is returned when signing in is rejected or cannot be confirmed.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sign in: %s: %s", e.Reason, e.Err.Error())
	}
	return fmt.Sprintf("sign in: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// EnumerationError is returned when the recipe listing cannot be fully loaded.
type EnumerationError struct {
	Reason string
	// Got and Expected are set when the listing stopped short of the expected count
	Got      int
	Expected int
	Err      error
}

func (e *EnumerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("enumerate recipes: %s: %s", e.Reason, e.Err.Error())
	}
	return fmt.Sprintf("enumerate recipes: %s", e.Reason)
}

func (e *EnumerationError) Unwrap() error {
	return e.Err
}

func incompleteError(got, expected int) *EnumerationError {
	return &EnumerationError{
		Reason:   fmt.Sprintf("incomplete: got %d of %d", got, expected),
		Got:      got,
		Expected: expected,
	}
}

// ExtractionError is returned when a single recipe page cannot be read.
type ExtractionError struct {
	Source string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract recipe %s: %s: %s", e.Source, e.Reason, e.Err.Error())
	}
	return fmt.Sprintf("extract recipe %s: %s", e.Source, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
