package logging

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	usernameKey  contextKey = "username"
)

// WithRequestID stores the request id so every log line of the request carries it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// WithUsername stores the acting username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func fromContext(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	var kv []any
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		kv = append(kv, "request_id", id)
	}
	if u, ok := ctx.Value(usernameKey).(string); ok && u != "" {
		kv = append(kv, "username", u)
	}
	return kv
}
