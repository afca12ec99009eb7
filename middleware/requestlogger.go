package middleware

import (
	"context"
	"time"

	"github.com/arjunvbhat/wex"
)

// RequestLogger emits one structured access-log line per request via l —
// method, path, status, duration, and the request id stamped by
// [RequestID] when present.
func RequestLogger(l wex.Logger) wex.Middleware {
	return func(ctx context.Context, req *wex.Request, next wex.Next) (*wex.Response, error) {
		start := time.Now()

		resp, err := next.Run(ctx, req)

		fields := []wex.Field{
			wex.F("method", req.Method()),
			wex.F("path", req.Path()),
			wex.F("duration", time.Since(start)),
		}
		if id, ok := GetRequestID(req); ok {
			fields = append(fields, wex.F("request_id", id))
		}

		switch {
		case err != nil:
			l.Error("request failed", append(fields, wex.F("error", err))...)
		case resp != nil:
			l.Info("request handled", append(fields, wex.F("status", resp.StatusCode()))...)
		default:
			l.Info("request handled", fields...)
		}

		return resp, err
	}
}
