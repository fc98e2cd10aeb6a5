package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/catalog-backend/internal/pkg/log"
)

// Logging кладёт в контекст request-scoped логгер (request_id, method, path) и
// после ответа пишет одну запись "http" со статусом, длительностью и размером.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l.With(
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			rid := RequestIDFrom(r.Context())
			if rid == "" {
				rid = r.Header.Get("X-Request-Id")
			}
			if rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}
			r = r.WithContext(log.Into(r.Context(), reqLogger))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)
			dur := time.Since(start)

			attrs := []slog.Attr{
				slog.Int("status", sw.Status()),
				slog.Duration("dur", dur),
				slog.Int("bytes", sw.count),
			}

			level := slog.LevelInfo
			if sw.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}

			log.From(r.Context()).LogAttrs(r.Context(), level, "http", attrs...)
		})
	}
}
