package domain

import "errors"

// Error is a domain error carrying a stable code. The code is what adapters
// use to pick a status and a localized message.
type Error struct {
	code string
	msg  string
}

func newError(code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable identifier of the error (e.g. "invalid_date").
func (e *Error) Code() string { return e.code }

// Domain errors.
var (
	ErrMissingRequiredFields = newError("missing_required_fields", "missing required fields")
	ErrInvalidDate           = newError("invalid_date", "invalid date")
	ErrInvalidEventID        = newError("invalid_event_id", "invalid event id")
	ErrUserEmailRequired     = newError("user_email_required", "user email required")
	ErrInvalidPayload        = newError("invalid_payload", "invalid payload")
	ErrAlreadyJoined         = newError("already_joined", "user already joined this event")
)

// Code extracts the domain error code from err, or "" if err is not a domain error.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return ""
}

// IsValidation reports whether err is a client-side input error.
func IsValidation(err error) bool {
	switch Code(err) {
	case "", ErrAlreadyJoined.code:
		return false
	default:
		return true
	}
}
