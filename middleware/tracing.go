package middleware

import (
	"context"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/arjunvbhat/wex"
)

// Tracing wraps the chain with otelhttp for automatic span-per-request
// creation, parameterized over a plain TracerProvider and
// TextMapPropagator the host supplies rather than any fixed exporter or
// propagator (see DESIGN.md). The wex chain is bridged into an
// http.Handler for the duration of the call, matching the bridging [CORS]
// already uses for the same reason: otelhttp.NewHandler
// wraps http.Handler, not wex.Handler.
func Tracing(tp trace.TracerProvider, prop propagation.TextMapPropagator, serviceName string) wex.Middleware {
	return func(ctx context.Context, req *wex.Request, next wex.Next) (*wex.Response, error) {
		var (
			resp *wex.Response
			err  error
		)

		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resp, err = next.Run(r.Context(), req)

			switch {
			case err != nil:
				w.WriteHeader(wexErrorStatus(err))
			case resp != nil:
				w.WriteHeader(resp.StatusCode())
			}
		})

		traced := otelhttp.NewHandler(inner, serviceName,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithPropagators(prop),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)

		rec := newRecorder()
		traced.ServeHTTP(rec, req.Std().WithContext(ctx))

		return resp, err
	}
}

func wexErrorStatus(err error) int {
	if code := wex.CodeOf(err); code != wex.CodeUnknown {
		return int(code)
	}
	return http.StatusInternalServerError
}
