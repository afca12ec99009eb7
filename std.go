package wex

import (
	"bytes"
	"context"
	"net/http"
)

// stdRecorder is a minimal buffered http.ResponseWriter used only to adapt
// a foreign http.Handler into this framework's value-based Response.
// Handlers here already build and return a Response value, so there's
// nothing to flush, but bridging a std-library handler still needs
// somewhere to catch its writes before they become a Response.
type stdRecorder struct {
	header      http.Header
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func newStdRecorder() *stdRecorder {
	return &stdRecorder{header: make(http.Header)}
}

func (s *stdRecorder) Header() http.Header { return s.header }

func (s *stdRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
}

func (s *stdRecorder) Write(p []byte) (int, error) {
	if !s.wroteHeader {
		s.WriteHeader(http.StatusOK)
	}
	return s.body.Write(p)
}

func (s *stdRecorder) toResponse() *Response {
	status := s.status
	if status == 0 {
		status = http.StatusOK
	}

	resp := NewResponse().Status(status).Body(s.body.Bytes())
	for k, vals := range s.header {
		for _, v := range vals {
			resp.AddHeader(k, v)
		}
	}

	return resp
}

// ToHandler adapts a standard library http.Handler into a [Handler]. The
// adapted handler always returns a nil error: any error signaling is the
// std handler's own responsibility, expressed through the status code and
// body it writes.
func ToHandler(h http.Handler) Handler {
	return HandlerFunc(func(ctx context.Context, req *Request) (*Response, error) {
		rec := newStdRecorder()
		h.ServeHTTP(rec, req.Std())
		return rec.toResponse(), nil
	})
}
