package identity

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/checkoutkit/pkg/jwt"
)

// TokenParser decodes and verifies a bearer token into dst.
type TokenParser interface {
	Parse(token string, dst any) error
}

// Middleware attaches a *Caller to the request context when the request
// carries a valid bearer token with a subject and an expiry. Requests
// without one pass through.
func Middleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := jwt.BearerToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			var claims jwt.Claims
			if err := parser.Parse(token, &claims); err != nil {
				log.DebugContext(r.Context(), "rejected bearer token", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if claims.Subject == "" {
				log.DebugContext(r.Context(), "rejected bearer token", "error", ErrMissingSubject)
				next.ServeHTTP(w, r)
				return
			}
			if claims.ExpiresAt == 0 {
				log.DebugContext(r.Context(), "rejected bearer token", "error", ErrMissingExpiry)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithCaller(r.Context(), &Caller{UserID: claims.Subject, Email: claims.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
