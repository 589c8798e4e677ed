package middleware

import (
	"context"
	"net/http"

	"github.com/MrEthical07/taskauth"
)

type currentUserContextKey struct{}

// CurrentUserFromContext returns the user attached by RequireUser or
// OptionalUser.
func CurrentUserFromContext(ctx context.Context) (*taskauth.CurrentUser, bool) {
	u, ok := ctx.Value(currentUserContextKey{}).(*taskauth.CurrentUser)
	return u, ok && u != nil
}

// RequireUser rejects requests without a valid session with 401 and
// attaches the current user to the context otherwise.
func RequireUser(engine *taskauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			u := engine.CurrentUser(r.Context(), Transport(engine, w, r))
			if u == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserContextKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalUser attaches the current user when the request carries a valid
// session and passes every request through.
func OptionalUser(engine *taskauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine != nil {
				if u := engine.CurrentUser(r.Context(), Transport(engine, w, r)); u != nil {
					r = r.WithContext(context.WithValue(r.Context(), currentUserContextKey{}, u))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP copies the request's remote address into the context for audit
// events.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(taskauth.WithClientIP(r.Context(), r.RemoteAddr)))
	})
}
