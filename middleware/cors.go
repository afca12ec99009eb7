package middleware

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gorilla/handlers"

	"github.com/arjunvbhat/wex"
)

// CORS answers preflight requests and decorates responses with
// Access-Control-* headers, using gorilla/handlers' own CORS handler to do
// the header bookkeeping — opts is passed straight through to
// handlers.CORS. The wex chain is bridged into an http.Handler for the
// duration of the call and the result bridged back into a [wex.Response].
func CORS(opts ...handlers.CORSOption) wex.Middleware {
	return func(ctx context.Context, req *wex.Request, next wex.Next) (*wex.Response, error) {
		var (
			resp *wex.Response
			err  error
		)

		inner := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			resp, err = next.Run(ctx, req)
		})

		rec := newRecorder()
		handlers.CORS(opts...)(inner).ServeHTTP(rec, req.Std())

		// A preflight OPTIONS request is answered entirely by gorilla's
		// handler without ever invoking inner; surface that response
		// instead of whatever (possibly nil) resp the chain produced.
		if resp == nil {
			return rec.toResponse(), err
		}

		for k, vals := range rec.header {
			for _, v := range vals {
				resp.AddHeader(k, v)
			}
		}

		return resp, err
	}
}

// recorder is a minimal http.ResponseWriter that captures what a wrapping
// http.Handler writes: the Access-Control-* headers gorilla/handlers.CORS
// sets on every request, and the whole response when it answers a
// preflight request without calling through to the wrapped handler.
// [Tracing] also hands one to otelhttp as its ResponseWriter.
type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newRecorder() *recorder { return &recorder{header: make(http.Header)} }

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(code int) { r.status = code }

func (r *recorder) Write(p []byte) (int, error) { return r.body.Write(p) }

func (r *recorder) toResponse() *wex.Response {
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}

	resp := wex.NewResponse().Status(status).Body(r.body.Bytes())
	for k, vals := range r.header {
		for _, v := range vals {
			resp.AddHeader(k, v)
		}
	}
	return resp
}
