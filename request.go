package wex

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
)

// Request is an immutable view of an inbound HTTP message plus the path
// parameters bound by the router and a mutable per-request extension map.
// A Request is exclusively owned by whichever chain frame currently holds
// it.
type Request struct {
	method string
	uri    *url.URL
	header http.Header
	params map[string]string
	query  url.Values

	bodyMu    sync.Mutex
	body      []byte
	bodyTaken bool

	ext *extensions
	std *http.Request
}

// newRequest builds a Request by fully buffering r's body, so later
// extractors can read it without racing the connection's read deadline.
func newRequest(r *http.Request, params map[string]string) (*Request, error) {
	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, errors.Wrap(err, "read request body")
		}
		body = b
	}

	return &Request{
		method: r.Method,
		uri:    r.URL,
		header: r.Header,
		params: params,
		query:  r.URL.Query(),
		body:   body,
		ext:    newExtensions(),
		std:    r,
	}, nil
}

// Method returns the request's HTTP method.
func (r *Request) Method() string { return r.method }

// URI returns the complete request target, including path and raw query.
func (r *Request) URI() string { return r.uri.RequestURI() }

// Path returns the request target's path component, without the query.
func (r *Request) Path() string { return r.uri.Path }

// Header returns the request's header multi-map. Lookups are
// case-insensitive, per http.Header's contract.
func (r *Request) Header() http.Header { return r.header }

// Param returns the decoded value bound to a route's dynamic segment name,
// or "" if the matched route has no such segment.
func (r *Request) Param(name string) string { return r.params[name] }

// Params returns the full set of path parameters bound by the matched
// route.
func (r *Request) Params() map[string]string { return r.params }

// Query returns the first value associated with key in the raw query
// string, or "" if absent.
func (r *Request) Query(key string) string { return r.query.Get(key) }

// QueryValues returns every value associated with key in the raw query
// string, a multi-map escape hatch alongside single-value lookup.
func (r *Request) QueryValues(key string) []string { return r.query[key] }

// Context returns the underlying standard-library request's context, which
// carries cancellation and deadlines from the transport.
func (r *Request) Context() context.Context { return r.std.Context() }

// Std returns the underlying *http.Request, for interop with code that
// needs it directly (e.g. [ToHandler]).
func (r *Request) Std() *http.Request { return r.std }

// ErrBodyAlreadyTaken is returned by TakeBody when the body has already
// been taken by an earlier extractor in the same request.
var ErrBodyAlreadyTaken = errors.New("wex: request body already taken")

// TakeBody returns the request body and marks it consumed; a second call
// returns ErrBodyAlreadyTaken. Extractors that need exclusive access to the
// body (e.g. [JSONBody]) use this; extractors that only need to peek use
// [Request.CloneBody] instead: the body is consumed at most once by
// extractors that read it, so they must take or clone it explicitly.
func (r *Request) TakeBody() ([]byte, error) {
	r.bodyMu.Lock()
	defer r.bodyMu.Unlock()

	if r.bodyTaken {
		return nil, ErrBodyAlreadyTaken
	}
	r.bodyTaken = true

	return r.body, nil
}

// CloneBody returns a copy of the request body without marking it consumed.
func (r *Request) CloneBody() []byte {
	r.bodyMu.Lock()
	defer r.bodyMu.Unlock()

	out := make([]byte, len(r.body))
	copy(out, r.body)

	return out
}

// NewTestRequest builds a Request from a standard library request for use
// in tests, panicking if the body cannot be read. It is the test-only
// counterpart to the constructor the router uses internally.
func NewTestRequest(r *http.Request, params map[string]string) *Request {
	req, err := newRequest(r, params)
	if err != nil {
		panic(err)
	}
	return req
}

// NewTestRequestNoBody is a convenience wrapper around [NewTestRequest]
// for tests that only need method and target, with no request body.
func NewTestRequestNoBody(method, target string) *Request {
	return NewTestRequest(httptest.NewRequest(method, target, nil), nil)
}

// Extensions returns the request's heterogeneous, type-keyed extension
// store, used by middleware and handlers to exchange per-request state.
func (r *Request) Extensions() *extensions { return r.ext }

// extensions is a heterogeneous, by-type slot map. It is owned by the
// single task servicing its Request and is never shared across requests,
// so it only needs a mutex to guard against concurrent middleware within
// that one request's chain, not cross-request races.
type extensions struct {
	mu   sync.RWMutex
	vals map[reflect.Type]any
}

func newExtensions() *extensions {
	return &extensions{vals: make(map[reflect.Type]any)}
}

// SetExtension stores v, keyed by its static type T, in req's extension
// map.
func SetExtension[T any](req *Request, v T) {
	ext := req.Extensions()
	ext.mu.Lock()
	defer ext.mu.Unlock()
	ext.vals[reflect.TypeOf(v)] = v
}

// GetExtension retrieves the value of type T previously stored with
// [SetExtension], if any.
func GetExtension[T any](req *Request) (T, bool) {
	var zero T
	ext := req.Extensions()
	ext.mu.RLock()
	defer ext.mu.RUnlock()
	v, ok := ext.vals[reflect.TypeOf(zero)]
	if !ok {
		return zero, false
	}
	return v.(T), true
}
