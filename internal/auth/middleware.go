package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

const CronSecretHeader = "X-Cron-Secret"

type ctxKey string

const identityKey ctxKey = "identity"

type Middleware struct {
	secret        []byte
	defaultUserID string
}

// New builds the identity middleware. With an empty secret every request is
// attributed to defaultUserID (single-user deployments).
func New(secret []byte, defaultUserID string) Middleware {
	return Middleware{secret: secret, defaultUserID: defaultUserID}
}

func (m Middleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(m.secret) == 0 {
			next(w, r.WithContext(WithIdentity(r.Context(), Identity{UserID: m.defaultUserID})))
			return
		}

		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		id, err := ParseIdentity(m.secret, strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(WithIdentity(r.Context(), id)))
	}
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return WithIdentity(ctx, Identity{UserID: userID})
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.UserID, ok
}

// RequireCronSecret guards scheduler-only routes. An empty secret leaves them open.
func RequireCronSecret(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if secret != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(CronSecretHeader)), []byte(secret)) != 1 {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
