package wex_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arjunvbhat/wex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBodyView struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Details string `json:"details,omitempty"`
	} `json:"error"`
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorBodyView {
	t.Helper()
	var body errorBodyView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// 4xx codes constructed via NewError expose the underlying cause's text,
// e.g. middleware.RateLimit's 429.
func TestNewErrorExposesCauseFor4xx(t *testing.T) {
	app := wex.NewApp()
	require.NoError(t, app.Get("/limited", wex.HandlerFunc(func(ctx context.Context, req *wex.Request) (*wex.Response, error) {
		return nil, wex.NewError(wex.Code(http.StatusTooManyRequests), fmt.Errorf("rate limit exceeded"))
	})))

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/limited", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "rate limit exceeded", body.Error.Message)
}

// A 5xx NewError is scrubbed to the plain status text, same as
// NewInternalError.
func TestNewErrorScrubsCauseFor5xx(t *testing.T) {
	app := wex.NewApp()
	require.NoError(t, app.Get("/broken", wex.HandlerFunc(func(ctx context.Context, req *wex.Request) (*wex.Response, error) {
		return nil, wex.NewError(wex.CodeInternalServerError, fmt.Errorf("leaked connection string"))
	})))

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/broken", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), body.Error.Message)
	assert.NotContains(t, rec.Body.String(), "leaked connection string")
}

// NewCustom's message reaches the client verbatim regardless of status,
// including 5xx, since the caller chose it deliberately.
func TestNewCustomMessagePassesThroughForAnyStatus(t *testing.T) {
	app := wex.NewApp()
	require.NoError(t, app.Get("/maintenance", wex.HandlerFunc(func(ctx context.Context, req *wex.Request) (*wex.Response, error) {
		return nil, wex.NewCustom(http.StatusServiceUnavailable, "down for maintenance until 5pm")
	})))

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/maintenance", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "down for maintenance until 5pm", body.Error.Message)
}

// NewInternalError still scrubs its cause, unaffected by the NewError change.
func TestNewInternalErrorStillScrubs(t *testing.T) {
	app := wex.NewApp()
	require.NoError(t, app.Get("/panic-ish", wex.HandlerFunc(func(ctx context.Context, req *wex.Request) (*wex.Response, error) {
		return nil, wex.NewInternalError(fmt.Errorf("db password is wrong"))
	})))

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic-ish", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db password")
}
