package utils

import "context"

// ctxKey is unexported to prevent collisions.
type ctxKey string

const ctxKeyRequestMeta ctxKey = "requestMeta"

// RequestMeta is the client information stamped on activity-log rows.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

func WithRequestMeta(ctx context.Context, m RequestMeta) context.Context {
	return context.WithValue(ctx, ctxKeyRequestMeta, m)
}

// RequestMetaFrom returns the zero value outside an HTTP request.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	m, _ := ctx.Value(ctxKeyRequestMeta).(RequestMeta)
	return m
}
