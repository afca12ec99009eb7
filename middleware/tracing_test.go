package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/arjunvbhat/wex"
	"github.com/arjunvbhat/wex/middleware"
)

func TestTracingRecordsSpanForSuccess(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(trace.WithSyncer(exporter))
	prop := propagation.TraceContext{}

	h := wex.HandlerFunc(func(ctx context.Context, req *wex.Request) (*wex.Response, error) {
		return wex.Text(200, "ok"), nil
	})

	chained := wex.Chain(h, middleware.Tracing(tp, prop, "test-service"))
	_, err := chained.ServeHTTP(context.Background(), wex.NewTestRequestNoBody("GET", "/hello"))
	require.NoError(t, err)
	require.NoError(t, tp.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /hello", spans[0].Name)
}

func TestTracingRecordsErrorStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(trace.WithSyncer(exporter))
	prop := propagation.TraceContext{}

	h := wex.HandlerFunc(func(ctx context.Context, req *wex.Request) (*wex.Response, error) {
		return nil, wex.NewInternalError(nil)
	})

	chained := wex.Chain(h, middleware.Tracing(tp, prop, "test-service"))
	_, _ = chained.ServeHTTP(context.Background(), wex.NewTestRequestNoBody("GET", "/boom"))
	require.NoError(t, tp.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}
