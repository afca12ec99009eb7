package wex

import (
	"net/http"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code is an HTTP status code used to project a framework [*Error] onto the
// wire. It mirrors the status codes defined by net/http.
type Code int

// The error kinds this framework's taxonomy distinguishes, plus their
// canonical HTTP projection.
const (
	CodeUnknown Code = 0

	CodeBadRequest          Code = http.StatusBadRequest
	CodeUnauthorized        Code = http.StatusUnauthorized
	CodeForbidden           Code = http.StatusForbidden
	CodeNotFound            Code = http.StatusNotFound
	CodeMethodNotAllowed    Code = http.StatusMethodNotAllowed
	CodeInternalServerError Code = http.StatusInternalServerError
)

// Error describes a framework error together with its HTTP projection.
// Construct one with [NewError], [NewCustom], [NewRouteNotFound],
// [NewMethodNotAllowed], [NewBadRequest], or [NewInternalError].
type Error struct {
	code    Code
	err     error
	message string // response-body message; see responseMessage
	custom  bool   // set by NewCustom: message bypasses the 5xx scrub
	details string
	allowed []string // only set for CodeMethodNotAllowed
}

// NewError creates an error with an explicit status code and an underlying
// cause. The cause's text reaches the client's response body for 4xx
// codes, following the same echo-what-the-caller-gave-us policy as
// [NewBadRequest]'s details; for 5xx codes it is scrubbed to a generic
// message, just like [NewInternalError], since an uncaught 5xx cause may
// carry internals the caller never meant to expose.
func NewError(code Code, underlying error) *Error {
	e := &Error{code: code, err: underlying}
	if underlying != nil {
		e.message = underlying.Error()
	}
	return e
}

// NewCustom creates the Custom{status, message} escape hatch: message is
// emitted to the client exactly as given, regardless of status, since the
// caller wrote it for exactly this purpose rather than it arriving as a
// wrapped cause from somewhere deeper. status must be a valid HTTP status
// code.
func NewCustom(status int, message string) *Error {
	return &Error{code: Code(status), message: message, custom: true}
}

// NewBadRequest creates a 400 error whose details are safe to echo to the
// client: 4xx bodies may echo user-provided substrings.
func NewBadRequest(details string, underlying error) *Error {
	return &Error{code: CodeBadRequest, err: underlying, details: details}
}

// NewRouteNotFound creates the 404 signal produced when no route pattern
// matches the request path.
func NewRouteNotFound(path string) *Error {
	return &Error{code: CodeNotFound, err: errors.Newf("no route matches path %q", path)}
}

// NewMethodNotAllowed creates the 405 signal produced when a route pattern
// matches but not for the requested method. allowed is the distinct,
// sorted set of methods that would have matched.
func NewMethodNotAllowed(allowed []string) *Error {
	sorted := append([]string(nil), allowed...)
	sort.Strings(sorted)
	return &Error{
		code:    CodeMethodNotAllowed,
		err:     errors.Newf("method not allowed, allowed: %s", strings.Join(sorted, ", ")),
		allowed: sorted,
	}
}

// NewInternalError wraps an uncaught failure as a 500. The underlying
// error's message is never exposed to the client; callers needing to expose
// diagnostic text should use [NewBadRequest] instead.
func NewInternalError(underlying error) *Error {
	return &Error{code: CodeInternalServerError, err: underlying}
}

// Code returns the error's HTTP status code.
func (e *Error) Code() Code { return e.code }

// Allowed returns the method set for a [CodeMethodNotAllowed] error, or nil
// otherwise.
func (e *Error) Allowed() []string { return e.allowed }

// Details returns the safe-to-expose diagnostic text, if any.
func (e *Error) Details() string { return e.details }

// responseMessage returns the text the client's response body should carry
// for this error's "message" field. A [NewCustom] message always wins,
// scrubbed or not, since the caller chose it deliberately. Otherwise a
// 5xx status never exposes the message (matching [NewInternalError]'s
// scrubbing); a 4xx status does. An empty return means the caller gets
// the plain status text instead.
func (e *Error) responseMessage() string {
	if e.custom {
		return e.message
	}
	if int(e.code) >= 500 {
		return ""
	}
	return e.message
}

func (e *Error) Error() string {
	status := http.StatusText(int(e.code))
	if status == "" {
		status = "Unknown"
	}
	if e.err == nil {
		return status
	}
	return status + ": " + e.err.Error()
}

func (e *Error) Unwrap() error { return e.err }

// CodeOf returns err's status code if it is or wraps an [*Error], and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Code()
	}
	return CodeUnknown
}

// errorBody is the JSON error response shape.
type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Details string `json:"details,omitempty"`
	} `json:"error"`
}

// errorToResponse converts err into the framework's canonical error
// Response. Any error, not just [*Error], can be converted: unrecognized
// errors project onto 500 with a scrubbed message.
func errorToResponse(err error) *Response {
	var werr *Error
	if !errors.As(err, &werr) {
		werr = NewInternalError(err)
	}

	status := int(werr.code)
	if http.StatusText(status) == "" {
		status = http.StatusInternalServerError
	}

	body := errorBody{}
	body.Error.Status = status
	body.Error.Message = werr.responseMessage()
	if body.Error.Message == "" {
		body.Error.Message = http.StatusText(status)
	}
	if body.Error.Message == "" {
		body.Error.Message = "Unknown Error"
	}
	body.Error.Message = capDetails(body.Error.Message)

	// 5xx bodies never carry raw cause text; 4xx bodies may echo the
	// caller-supplied, already length-capped details.
	if status < 500 {
		body.Error.Details = capDetails(werr.details)
	}

	resp, encErr := JSON(status, body)
	if encErr != nil {
		// Serialization of our own fixed-shape struct should never fail;
		// fall back to a bare response rather than propagate.
		resp = NewResponse().Status(status)
	}

	if werr.code == CodeMethodNotAllowed && len(werr.allowed) > 0 {
		resp.SetHeader("Allow", strings.Join(werr.allowed, ", "))
	}

	return resp
}

const maxDetailsLen = 2048

func capDetails(s string) string {
	if len(s) <= maxDetailsLen {
		return s
	}
	return s[:maxDetailsLen]
}
