package auth

import "context"

type contextKeySubject struct{}

func withSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextKeySubject{}, subject)
}

// GetSubject returns the token subject (the voter or admin id), or "".
// Handlers use it as the voter id for credential issuance.
func GetSubject(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeySubject{}).(string); ok {
		return v
	}
	return ""
}

// WithSubject injects a subject for handler tests that skip the middleware.
func WithSubject(ctx context.Context, subject string) context.Context {
	return withSubject(ctx, subject)
}
