package logger

import "context"

type requestIDKey struct{}

// ContextWithRequestID attaches a request id so lower layers, the SQL
// trace in particular, correlate their lines with the access log.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the propagated request id, or "" outside
// a request scope.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
