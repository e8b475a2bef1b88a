// Package apperr classifies request failures into a small set of kinds that
// map one-to-one onto HTTP status codes.
//
// Kinds:
//   - Authentication: missing, invalid, or expired credentials (401)
//   - Authorization: signed in but not allowed (403, always "not permitted")
//   - NotFound: record or sub-document absent, or a malformed id (404)
//   - Validation: rule violations such as a short GSTIN (400)
//   - Unprocessable: request body has the wrong shape (422)
//   - Conflict: duplicates, lost races, and no-op updates (409)
//   - Internal: everything else (500, cause is logged and never echoed)
package apperr

import (
	"errors"
	"net/http"
)

// Kind is the category of a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindValidation
	KindUnprocessable
	KindConflict
)

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUnprocessable:
		return "unprocessable"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified failure. Msg is safe to show to API callers; Err is
// the underlying cause, kept for logs.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// MsgNotPermitted is the only message an authorization failure ever carries.
const MsgNotPermitted = "not permitted"

// MsgInternal is what callers see for any unclassified error.
const MsgInternal = "internal server error"

// ErrNotPermitted is the shared authorization failure.
var ErrNotPermitted = &Error{Kind: KindAuthorization, Msg: MsgNotPermitted}

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Wrap(kind Kind, msg string, err error) *Error { return &Error{Kind: kind, Msg: msg, Err: err} }

func NotFound(msg string) *Error      { return New(KindNotFound, msg) }
func Unprocessable(msg string) *Error { return New(KindUnprocessable, msg) }
func Conflict(msg string) *Error      { return New(KindConflict, msg) }
func Unauthorized(msg string) *Error  { return New(KindAuthentication, msg) }

// Internal wraps an unexpected error. The message shown to callers is fixed.
func Internal(err error) *Error { return Wrap(KindInternal, MsgInternal, err) }

// As extracts the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
