package auth

import "context"

type contextKey string

const (
	identityKey = contextKey("identity")
	tokenKey    = contextKey("access_token")
)

// WithIdentity stores the caller and the raw token, which is forwarded to the
// backend on the caller's behalf.
func WithIdentity(ctx context.Context, id Identity, token string) context.Context {
	ctx = context.WithValue(ctx, identityKey, id)
	return context.WithValue(ctx, tokenKey, token)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
