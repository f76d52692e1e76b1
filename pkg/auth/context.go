package auth

import "context"

type sessionTokenKey struct{}

// WithSessionToken stores the verified raw session token for downstream token exchange.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey{}, token)
}

func SessionTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionTokenKey{}).(string); ok {
		return v
	}
	return ""
}
