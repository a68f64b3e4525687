package domain

import (
	stderr "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// ErrRecordNotFound keeps application logic independent of persistence
// library errors.
var ErrRecordNotFound = errors.New("record not found")

// Common errors used across the application.
var (
	ErrNotFound = DetailedError{
		IDField:         "NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "The requested resource could not be found",
		StatusCodeField: http.StatusNotFound,
	}

	ErrUnauthorized = DetailedError{
		IDField:         "UNAUTHORIZED",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "The request could not be authorized",
		StatusCodeField: http.StatusUnauthorized,
	}

	ErrForbidden = DetailedError{
		IDField:         "FORBIDDEN",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "The requested action was forbidden",
		StatusCodeField: http.StatusForbidden,
	}

	ErrTooManyRequests = DetailedError{
		IDField:         "TOO_MANY_REQUESTS",
		StatusDescField: http.StatusText(http.StatusTooManyRequests),
		ErrorField:      "Too many requests, please try again later",
		StatusCodeField: http.StatusTooManyRequests,
	}

	ErrInternalServerError = DetailedError{
		IDField:         "INTERNAL_SERVER_ERROR",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "An internal server error occurred, please contact the system administrator",
		StatusCodeField: http.StatusInternalServerError,
	}

	ErrBadRequest = DetailedError{
		IDField:         "BAD_REQUEST",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "The request was malformed or contained invalid parameters",
		StatusCodeField: http.StatusBadRequest,
	}

	ErrConflict = DetailedError{
		IDField:         "CONFLICT",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "The resource could not be created due to a conflict",
		StatusCodeField: http.StatusConflict,
	}
)

type DetailedError struct {
	// The error ID, useful when identifying errors in application logic.
	IDField string `json:"id,omitempty"`

	// The HTTP status code.
	StatusCodeField int `json:"code,omitempty"`

	// The status description, e.g. "Not Found".
	StatusDescField string `json:"status,omitempty"`

	// A machine-readable reason for the error, e.g. an evaluator deny code.
	ReasonField string `json:"reason,omitempty"`

	// Debug information, not exposed to clients.
	DebugField string `json:"debug,omitempty"`

	// Human-readable error message.
	ErrorField string `json:"message"`

	// Further error details.
	DetailsField map[string]interface{} `json:"details,omitempty"`

	err error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// StackTrace returns the wrapped error's stack trace, if any.
func (e *DetailedError) StackTrace() (trace errors.StackTrace) {
	if st := stackTracer(nil); stderr.As(e.err, &st) {
		trace = st.StackTrace()
	}
	return
}

func (e DetailedError) Unwrap() error {
	return e.err
}

func (e *DetailedError) Wrap(err error) {
	e.err = err
}

func (e DetailedError) WithWrap(err error) *DetailedError {
	e.err = err
	return &e
}

func (e *DetailedError) WithTrace(err error) *DetailedError {
	if st := stackTracer(nil); !stderr.As(e.err, &st) {
		e.Wrap(errors.WithStack(err))
	} else {
		e.Wrap(err)
	}
	return e
}

func (e DetailedError) Is(err error) bool {
	switch te := err.(type) {
	case DetailedError:
		return e.matches(&te)
	case *DetailedError:
		return e.matches(te)
	default:
		return false
	}
}

func (e DetailedError) matches(other *DetailedError) bool {
	return e.IDField == other.IDField &&
		e.StatusCodeField == other.StatusCodeField &&
		e.StatusDescField == other.StatusDescField &&
		e.ErrorField == other.ErrorField
}

func (e DetailedError) ID() string {
	return e.IDField
}

func (e DetailedError) Status() string {
	return e.StatusDescField
}

func (e DetailedError) StatusCode() int {
	return e.StatusCodeField
}

func (e DetailedError) Error() string {
	return e.ErrorField
}

func (e DetailedError) Reason() string {
	return e.ReasonField
}

func (e DetailedError) Debug() string {
	return e.DebugField
}

func (e DetailedError) Details() map[string]interface{} {
	return e.DetailsField
}

func (e DetailedError) WithReason(reason string) *DetailedError {
	e.ReasonField = reason
	return &e
}

func (e DetailedError) WithReasonf(reason string, args ...interface{}) *DetailedError {
	return e.WithReason(fmt.Sprintf(reason, args...))
}

func (e DetailedError) WithError(message string) *DetailedError {
	e.ErrorField = message
	return &e
}

func (e DetailedError) WithErrorf(message string, args ...interface{}) *DetailedError {
	return e.WithError(fmt.Sprintf(message, args...))
}

func (e DetailedError) WithDebug(debug string) *DetailedError {
	e.DebugField = debug
	return &e
}

func (e DetailedError) WithDebugf(debug string, args ...interface{}) *DetailedError {
	return e.WithDebug(fmt.Sprintf(debug, args...))
}

func (e DetailedError) WithDetail(key string, detail interface{}) *DetailedError {
	if e.DetailsField == nil {
		e.DetailsField = map[string]interface{}{}
	}
	e.DetailsField[key] = detail
	return &e
}

func (e DetailedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "id=%s\n", e.IDField)
			_, _ = fmt.Fprintf(s, "error=%s\n", e.ErrorField)
			_, _ = fmt.Fprintf(s, "reason=%s\n", e.ReasonField)
			_, _ = fmt.Fprintf(s, "details=%+v\n", e.DetailsField)
			_, _ = fmt.Fprintf(s, "debug=%s\n", e.DebugField)
			e.StackTrace().Format(s, verb)
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.ErrorField)
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.ErrorField)
	}
}
