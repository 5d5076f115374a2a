package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/twinvillage/planner/internal/domain/access"
)

type identityKey struct{}

// IdentityResolver resolves a bearer token to an identity.
type IdentityResolver interface {
	ResolveToken(ctx context.Context, token string) (access.Identity, error)
}

// IdentityFromContext returns the requester identity from context.
// The zero identity means anonymous.
func IdentityFromContext(ctx context.Context) access.Identity {
	id, _ := ctx.Value(identityKey{}).(access.Identity)
	return id
}

// IdentityMiddleware resolves an optional bearer token. Requests
// without a token proceed anonymously so public plans stay viewable;
// a token that fails to resolve is rejected.
func IdentityMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			id, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
