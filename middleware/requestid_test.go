package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunvbhat/wex"
	"github.com/arjunvbhat/wex/middleware"
)

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	var seen string
	h := wex.HandlerFunc(func(ctx context.Context, req *wex.Request) (*wex.Response, error) {
		id, ok := middleware.GetRequestID(req)
		require.True(t, ok)
		seen = id
		return wex.NewResponse(), nil
	})

	chained := wex.Chain(h, middleware.RequestID())
	resp, err := chained.ServeHTTP(context.Background(), wex.NewTestRequestNoBody("GET", "/"))
	require.NoError(t, err)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, resp.Header().Get(middleware.RequestIDHeader))
}

func TestRequestIDReusesInboundHeader(t *testing.T) {
	req := wex.NewTestRequestNoBody("GET", "/")
	req.Header().Set(middleware.RequestIDHeader, "fixed-id")

	h := wex.HandlerFunc(func(ctx context.Context, req *wex.Request) (*wex.Response, error) {
		return wex.NewResponse(), nil
	})

	resp, err := wex.Chain(h, middleware.RequestID()).ServeHTTP(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", resp.Header().Get(middleware.RequestIDHeader))
}
