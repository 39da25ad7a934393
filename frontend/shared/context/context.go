package context

import (
	"context"
)

type sessionKey struct{}

type csrfKey struct{}

// NewContextWithSessionToken carries the console session token of the request.
func NewContextWithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionKey{}, token)
}

func GetSessionTokenFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(sessionKey{}).(string)
	return s, ok && s != ""
}

// NewContextWithCSRFToken carries the token forms must echo back.
func NewContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfKey{}, token)
}

func GetCSRFTokenFromContext(ctx context.Context) string {
	s, _ := ctx.Value(csrfKey{}).(string)
	return s
}
