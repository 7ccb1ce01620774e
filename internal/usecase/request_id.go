package usecase

import "context"

type requestIDKey struct{}

// WithRequestID はリクエストIDをコンテキストに設定する
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext はコンテキストのリクエストIDを返す（未設定なら "-"）
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return "-"
}
