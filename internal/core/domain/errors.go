package domain

import "errors"

// Error kinds. Every failure the core produces unwraps to exactly one of these.
var (
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrInvalidInput    = errors.New("invalid input")
)

// Token verification failures. Both mean "not authenticated"; the split only
// feeds logs and metrics.
var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// Store-level sentinels.
var (
	ErrIdentityNotFound = NotFound("identity not found")
	ErrTaskNotFound     = NotFound("task not found")
	ErrEmailTaken       = Conflict("identity with this email already exists")
)

// Error pairs a kind with a reason that is safe to show to the caller.
type Error struct {
	Kind   error
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func (e *Error) Unwrap() error { return e.Kind }

func Conflict(reason string) error        { return &Error{Kind: ErrConflict, Reason: reason} }
func Unauthenticated(reason string) error { return &Error{Kind: ErrUnauthenticated, Reason: reason} }
func Forbidden(reason string) error       { return &Error{Kind: ErrForbidden, Reason: reason} }
func NotFound(reason string) error        { return &Error{Kind: ErrNotFound, Reason: reason} }
func Invalid(reason string) error         { return &Error{Kind: ErrInvalidInput, Reason: reason} }

// Reason returns the caller-facing reason of err, or "" when err carries none.
func Reason(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Reason
	}
	return ""
}
