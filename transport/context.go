package transport

import (
	"context"

	"github.com/google/uuid"
)

type (
	contextKey string
)

const (
	ContextRequestIDKey contextKey = "requestID"
	ContextSkipAuthKey  contextKey = "skipAuth"
)

// WithRequestID sets the X-Request-ID used for requests issued with ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextRequestIDKey, id)
}

// WithoutAuth marks ctx so the outbound stage does not attach the token.
func WithoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextSkipAuthKey, true)
}

func requestID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextRequestIDKey).(string); ok && v != "" {
		return v
	}
	return uuid.NewString()
}

func skipAuth(ctx context.Context) bool {
	v, _ := ctx.Value(ContextSkipAuthKey).(bool)
	return v
}
