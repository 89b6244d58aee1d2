package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/service"
	"github.com/aussiebroadwan/khpl/pkg/httpx"
	"github.com/aussiebroadwan/khpl/pkg/slogx"
)

type userCtxKey struct{}

// UserFromContext returns the member authenticated by RequireUser.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(domain.User)
	return u, ok
}

// RequireUser resolves the bearer token to a member and stores it in the
// request context. Requests without a valid token get a 401 challenge.
func RequireUser(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := httpx.BearerToken(r)
			if err != nil {
				httpx.WriteBearerError(w, "Not authenticated")
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if service.KindOf(err) == service.KindUnauthorized {
					httpx.WriteBearerError(w, service.MessageOf(err))
					return
				}
				writeServiceError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey{}, user)
			ctx = httpx.WithUserID(ctx, user.ID)
			ctx = slogx.WithUserID(ctx, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// mustUser returns the authenticated member. Handlers behind RequireUser
// always have one.
func mustUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		httpx.WriteBearerError(w, "Not authenticated")
	}
	return u, ok
}
