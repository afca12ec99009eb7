// Package middleware collects built-in wex.Middleware implementations:
// panic recovery, request IDs, access logging, CORS, rate limiting, and
// tracing.
package middleware

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/arjunvbhat/wex"
)

// Recoverer recovers any panic raised by a downstream middleware or
// handler and converts it into a 500 error built with [wex.NewInternalError].
func Recoverer() wex.Middleware {
	return func(ctx context.Context, req *wex.Request, next wex.Next) (resp *wex.Response, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = wex.NewInternalError(errors.Newf("recovered: %v", rec))
				resp = nil
			}
		}()

		return next.Run(ctx, req)
	}
}
