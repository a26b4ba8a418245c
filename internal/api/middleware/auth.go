package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/amaumene/mediashelf/internal/auth"
	"github.com/amaumene/mediashelf/internal/models"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

type identityKey struct{}

// Authenticate requires a valid bearer token and stores the caller in the context
func Authenticate(tokens *auth.TokenService, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			identity, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				logger.WithError(err).WithField("request_id", RequestIDFrom(r.Context())).Debug("Rejected token")
				unauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the authenticated caller stored by Authenticate
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(models.Identity)
	return identity, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="mediashelf"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
