package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout ограничивает запрос бюджетом d: итоговый deadline - min(существующий, now+d).
// Deadline доходит до хранилища через context. При d <= 0 мидлвар прозрачен.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
