// Package errors provides a structured error type with stable codes, HTTP mapping and wrapping
//
// Import it as perr.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is a stable machine facing error class, values are part of the wire format
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeDB
)

var codeInfo = [...]struct {
	name   string
	status int
}{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTooManyRequests: {"too_many_requests", http.StatusTooManyRequests},
	ErrorCodeConflict:        {"conflict", http.StatusConflict},
	ErrorCodeUnauthorized:    {"unauthorized", http.StatusUnauthorized},
	ErrorCodeForbidden:       {"forbidden", http.StatusForbidden},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound},
	ErrorCodeDuplicateKey:    {"duplicate_key", http.StatusConflict},
	ErrorCodeDB:              {"db", http.StatusInternalServerError},
}

// String returns the snake case name of c
func (c ErrorCode) String() string {
	if int(c) < len(codeInfo) {
		return codeInfo[c].name
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// HTTPStatusCode maps c to an HTTP status, unknown codes are 500
func HTTPStatusCode(c ErrorCode) int {
	if int(c) < len(codeInfo) {
		return codeInfo[c].status
	}
	return http.StatusInternalServerError
}

// ErrNotFound is a sentinel for missing resources
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a code, a message, an optional field and op label, and the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Wire is the JSON form returned by the API
type Wire struct {
	Code    ErrorCode `json:"code"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.msg
	if e.op != "" {
		msg = e.op + ": " + msg
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", msg, e.orig)
	}
	return msg
}

// Unwrap returns the cause
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending input field
func (e *Error) Field() string { return e.field }

// Op returns the operation label
func (e *Error) Op() string { return e.op }

// ToWire drops the cause, which may hold internals
func (e *Error) ToWire() Wire {
	return Wire{Code: e.code, Kind: e.code.String(), Message: e.msg, Field: e.field}
}

// WireFrom converts any error, foreign errors become Unknown with their text
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Kind: ErrorCodeUnknown.String(), Message: err.Error()}
}

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// As returns the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of err or Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return err != nil && CodeOf(err) == code }

// IsNotFound is IsCode(err, ErrorCodeNotFound)
func IsNotFound(err error) bool { return IsCode(err, ErrorCodeNotFound) }

// HTTPStatus returns the status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// HTTP bundles status and wire payload for handlers
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}

// WithField returns a copy of err naming field, foreign errors are returned unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp returns a copy of err labelled with op, foreign errors are returned unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// New returns an *Error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with formatting
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns an *Error with code and msg wrapping orig
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with formatting
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Validationf returns a validation error
func Validationf(format string, a ...any) error { return Newf(ErrorCodeValidation, format, a...) }

// DBf returns a database error
func DBf(format string, a ...any) error { return Newf(ErrorCodeDB, format, a...) }

// JSONErrf returns a JSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Unauthorizedf returns an unauthorized error
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }

// Forbiddenf returns a forbidden error
func Forbiddenf(format string, a ...any) error { return Newf(ErrorCodeForbidden, format, a...) }

// Conflictf returns a conflict error
func Conflictf(format string, a ...any) error { return Newf(ErrorCodeConflict, format, a...) }

// Unavailablef returns an unavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// Retryable reports whether either store reported a transient failure
func Retryable(err error) bool { return IsRetryable(err) || IsSQLiteBusy(err) }
