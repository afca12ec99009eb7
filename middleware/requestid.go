package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/arjunvbhat/wex"
)

// RequestIDHeader is the response header RequestID echoes the generated
// (or forwarded) request id on.
const RequestIDHeader = "X-Request-Id"

// requestIDKey is the type RequestID stores its value under in a Request's
// extension map; GetRequestID retrieves it with the matching type.
type requestIDKey string

// RequestID stamps every request with a UUID, reusing an inbound
// X-Request-Id header when the caller already supplied one, and echoes it
// back on the response. The id is attached to the request's extension map
// under its own type so [GetRequestID] can retrieve it from handlers and
// other middleware.
func RequestID() wex.Middleware {
	return func(ctx context.Context, req *wex.Request, next wex.Next) (*wex.Response, error) {
		id := req.Header().Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		wex.SetExtension(req, requestIDKey(id))

		resp, err := next.Run(ctx, req)
		if resp != nil {
			resp.SetHeader(RequestIDHeader, id)
		}
		return resp, err
	}
}

// GetRequestID returns the request id stamped by [RequestID], if any.
func GetRequestID(req *wex.Request) (string, bool) {
	id, ok := wex.GetExtension[requestIDKey](req)
	return string(id), ok
}
