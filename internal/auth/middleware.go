package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/taxfiler/backend/internal/logging"
	"github.com/taxfiler/backend/pkg/utils"
)

type sessionKey struct{}

// RequireSession guards a route group behind a valid bearer token. A missing
// credential and a failed verification both surface as a uniform 401; the
// distinction exists only in the log.
func RequireSession(codec *Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logging.FromContext(r.Context())

			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
				log.Warn("request without bearer credential",
					zap.String("remote_addr", r.RemoteAddr))
				respondUnauthorized(w, "Not authenticated")
				return
			}

			claims, err := codec.Verify(strings.TrimSpace(header[len("bearer "):]))
			if err != nil {
				log.Warn("rejected session token",
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err))
				respondUnauthorized(w, "Invalid authentication credentials")
				return
			}

			log.Info("session validated",
				zap.String("jti", claims.JTI()),
				zap.String("remote_addr", r.RemoteAddr))
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), claims)))
		})
	}
}

// WithSession attaches the verified claim set to a request context.
func WithSession(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, sessionKey{}, claims)
}

// SessionFromContext returns the verified claims for the current request.
func SessionFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(sessionKey{}).(Claims)
	return claims, ok
}

func respondUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	utils.RespondDetail(w, http.StatusUnauthorized, detail)
}
