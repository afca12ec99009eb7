package wex

import (
	"encoding/json"
	"net/http"
)

// Response builds an outbound HTTP message. Every builder method mutates
// and returns the same value so calls can be chained. A Response is an
// ordinary fully-buffered value — there is nothing to flush, so middleware
// can discard and replace one simply by returning a different value from
// the chain.
type Response struct {
	status int
	header http.Header
	body   []byte
}

// NewResponse returns a Response defaulted to 200 OK with no body.
func NewResponse() *Response {
	return &Response{status: http.StatusOK, header: make(http.Header)}
}

// Status sets the response status code, which must be in [100, 599].
func (r *Response) Status(code int) *Response {
	r.status = code
	return r
}

// SetHeader sets header key to value, replacing any existing values.
func (r *Response) SetHeader(key, value string) *Response {
	r.header.Set(key, value)
	return r
}

// AddHeader appends value to header key without replacing existing values,
// supporting an ordered multi-map header model.
func (r *Response) AddHeader(key, value string) *Response {
	r.header.Add(key, value)
	return r
}

// Body sets the response body, replacing any existing body.
func (r *Response) Body(b []byte) *Response {
	r.body = b
	return r
}

// Reset clears the response back to its default 200-OK-empty-body state.
// Middleware uses this to discard whatever a downstream handler produced
// before substituting its own response.
func (r *Response) Reset() *Response {
	r.status = http.StatusOK
	r.header = make(http.Header)
	r.body = nil
	return r
}

// StatusCode returns the currently set status code.
func (r *Response) StatusCode() int { return r.status }

// Header returns the response's header multi-map for direct inspection.
func (r *Response) Header() http.Header { return r.header }

// BodyBytes returns the response's current body.
func (r *Response) BodyBytes() []byte { return r.body }

func (r *Response) setDefaultHeader(key, value string) {
	if r.header.Get(key) == "" {
		r.header.Set(key, value)
	}
}

// write emits the response onto w.
func (r *Response) write(w http.ResponseWriter) error {
	for k, vals := range r.header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(r.body) > 0 {
		_, err := w.Write(r.body)
		return err
	}
	return nil
}

// JSON builds a Response by serializing v as the body and setting
// Content-Type to application/json unless the caller already set a
// Content-Type; a custom header overrides the default only when its name
// matches case-insensitively.
func JSON(status int, v any) (*Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, NewJSONSerializeError(err)
	}
	resp := NewResponse().Status(status).Body(b)
	resp.setDefaultHeader("Content-Type", "application/json; charset=utf-8")
	return resp, nil
}

// Text builds a Response with a plain-text body and a text/plain
// Content-Type default.
func Text(status int, s string) *Response {
	resp := NewResponse().Status(status).Body([]byte(s))
	resp.setDefaultHeader("Content-Type", "text/plain; charset=utf-8")
	return resp
}

// NewJSONParseError creates the 400 specialization of BadRequest raised
// when a request body fails to decode as JSON.
func NewJSONParseError(underlying error) *Error {
	return NewBadRequest("request body is not valid JSON", underlying)
}

// NewJSONSerializeError creates the 500 specialization raised when encoding
// a handler's response value fails. Its raw message must never leak into
// the response body; NewInternalError already scrubs it.
func NewJSONSerializeError(underlying error) *Error {
	return NewInternalError(underlying)
}
