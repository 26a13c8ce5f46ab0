// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/carterperez-dev/house-of-bloom/internal/core"
)

const IdentityKey contextKey = "identity"

// Identity is the authenticated caller.
type Identity struct {
	UserID int64
	Email  string
}

// AuthResult is either an authenticated Identity or a failure carrying the
// internal reason. The reason is for logs only.
type AuthResult struct {
	identity *Identity
	reason   error
}

func Authenticated(id Identity) AuthResult {
	return AuthResult{identity: &id}
}

func AuthFailure(reason error) AuthResult {
	return AuthResult{reason: reason}
}

func (r AuthResult) Identity() (Identity, bool) {
	if r.identity == nil {
		return Identity{}, false
	}
	return *r.identity, true
}

func (r AuthResult) Reason() error {
	return r.reason
}

type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) AuthResult
}

// Authenticator rejects every failed authentication with the same 401 body.
func Authenticator(
	auth TokenAuthenticator,
	logger *slog.Logger,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			var result AuthResult
			if token == "" {
				result = AuthFailure(core.ErrUnauthorized)
			} else {
				result = auth.Authenticate(r.Context(), token)
			}

			identity, ok := result.Identity()
			if !ok {
				logger.InfoContext(r.Context(), "authentication failed",
					"reason", result.Reason(),
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
				)
				core.JSONError(w, core.TokenInvalidError())
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(Identity)
	return id, ok
}

func GetUserID(ctx context.Context) int64 {
	if id, ok := GetIdentity(ctx); ok {
		return id.UserID
	}
	return 0
}

// AdminKey guards operator routes with a shared key sent as X-Admin-Key.
func AdminKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(AdminKeyHeader)
			if provided == "" {
				core.Unauthorized(w, "admin key required")
				return
			}

			if !core.ConstantTimeEqual(provided, key) {
				core.Forbidden(w, "invalid admin key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

const AdminKeyHeader = "X-Admin-Key"
