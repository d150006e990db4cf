package requestctx

import "context"

// userIDContextKey is the context key for authenticated user identity.
type userIDContextKey struct{}

// WithUserID stores the authenticated user's ID in context. The auth
// middleware sets it; handlers pass it explicitly into store calls so the
// core never reads session state itself.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// UserIDFromContext returns the user ID stored in context, or 0 when the
// request is unauthenticated.
func UserIDFromContext(ctx context.Context) int {
	value, _ := ctx.Value(userIDContextKey{}).(int)
	return value
}
