package httpx

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/ariefcatur/go-room-booking/internal/identity"
)

type Authenticator interface {
	Authenticate(ctx context.Context, header string) (identity.User, error)
}

// RequireSignIn resolves the Authorization header to a user and attaches it
// to the request context.
func RequireSignIn(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), u)))
		})
	}
}

// IsAdmin must run after RequireSignIn.
func IsAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := identity.UserFrom(r.Context())
			if !ok || !u.IsAdmin() {
				writeError(w, r, log, fmt.Errorf("%w: unauthorized access", apperr.ErrUnauthorized))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
