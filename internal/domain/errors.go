package domain

import (
	"errors"
	"strings"
)

// ErrAuthenticationRequired: ingestion always requires a resolved
// identity (surfaced as HTTP 401).
var ErrAuthenticationRequired = errors.New("Authentication required")

// ErrStoreUnavailable marks series-store failures (surfaced as 5xx).
// The core never retries these and never falls back to simulation on
// the store path; that is a caller-level policy for the read side.
var ErrStoreUnavailable = errors.New("series store unavailable")

type ValidationKind string

const (
	MissingField     ValidationKind = "missing_field"
	OutOfRange       ValidationKind = "out_of_range"
	InvalidTimestamp ValidationKind = "invalid_timestamp"
)

// ValidationError is a client-caused rejection naming the offending
// field(s). Surfaced as HTTP 400 with the message as-is.
type ValidationError struct {
	Kind   ValidationKind
	Fields []string
}

func NewValidationError(kind ValidationKind, fields ...string) *ValidationError {
	return &ValidationError{Kind: kind, Fields: fields}
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return "Missing required fields: " + strings.Join(e.Fields, ", ")
	case OutOfRange:
		return "Value out of range: " + strings.Join(e.Fields, ", ")
	case InvalidTimestamp:
		return "Invalid timestamp"
	}
	return "invalid reading"
}

// IsValidation reports whether err (or anything it wraps) is a
// ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
