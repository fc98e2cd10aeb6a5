package middleware

import (
	"context"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/catalog-backend/internal/errors"
)

// AuthBearer извлекает Bearer-токен из Authorization и кладёт "сырой" токен
// в контекст (см. TokenFrom). Запросы без токена пропускаются дальше.
func AuthBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearer(r.Header.Get("Authorization")); token != "" {
				ctx := context.WithValue(r.Context(), ctxAuthToken, token)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireBearer отвечает 401/unauthenticated, если в контексте нет токена.
// Ставится после AuthBearer на защищённые маршруты.
func RequireBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := TokenFrom(r.Context()); !ok {
				apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearer разбирает заголовок "Bearer <token>"; схема регистронезависима.
func bearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
