package identity

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// WithUser attaches the authenticated user to ctx.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok
}

// UserID is a shortcut for handlers behind the sign-in gate.
func UserID(ctx context.Context) uuid.UUID {
	u, _ := UserFrom(ctx)
	return u.ID
}
