package middleware

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/arjunvbhat/wex"
)

// RateLimit throttles the whole process to rps requests per second with
// burst capacity burst, using a single shared token bucket from
// golang.org/x/time/rate. Requests that don't get a token immediately are
// rejected with 429 rather than queued, since queuing would hold a
// suspension point open indefinitely.
func RateLimit(rps float64, burst int) wex.Middleware {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(ctx context.Context, req *wex.Request, next wex.Next) (*wex.Response, error) {
		if !limiter.Allow() {
			return nil, wex.NewError(wex.Code(429), errors.New("rate limit exceeded"))
		}
		return next.Run(ctx, req)
	}
}
