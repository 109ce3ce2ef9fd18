package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/SergeyBogomolovv/storefront-service/internal/auth"
	"github.com/SergeyBogomolovv/storefront-service/pkg/utils"
)

type TokenParser interface {
	Parse(token string) (auth.Identity, error)
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(auth.Identity)
	return id, ok
}

// Auth пропускает запрос дальше только с валидным Bearer токеном.
// Нет токена: 401, токен невалиден или истёк: 403.
func Auth(parser TokenParser) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				utils.WriteError(w, "access token required", http.StatusUnauthorized)
				return
			}

			id, err := parser.Parse(token)
			if err != nil {
				utils.WriteError(w, "invalid or expired token", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
