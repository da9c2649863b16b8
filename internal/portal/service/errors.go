package service

import (
	"errors"
	"strings"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRedirecting      = errors.New("dashboard is redirecting")
	ErrStale            = errors.New("dashboard view is no longer current")
	ErrNoPendingReturn  = errors.New("no pending return url")
	ErrReturnNotAllowed = errors.New("return url host is not allowed")
)

// ValidationError is a local input problem. No request was sent.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + " (" + strings.Join(e.Fields, ", ") + ")"
}

// Is makes errors.Is(err, ErrValidation) hold for every *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AuthError carries the message to show after a failed login or registration:
// the server's own message when it sent one, otherwise a localized fallback.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// UploadError is a failed proof submission. The draft is kept for a retry.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string { return e.Message }
func (e *UploadError) Unwrap() error { return e.Err }

// UserMessage returns the text to show the visitor for err, or "" when err
// should not be surfaced.
func UserMessage(err error) string {
	var (
		vErr *ValidationError
		aErr *AuthError
		uErr *UploadError
	)
	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.As(err, &aErr):
		return aErr.Message
	case errors.As(err, &uErr):
		return uErr.Message
	default:
		return ""
	}
}
