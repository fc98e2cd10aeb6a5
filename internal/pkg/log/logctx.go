// log передаёт request-scoped *slog.Logger через context.Context.
// HTTP-мидлвар Logging и janitor кладут логгер через Into,
// сервисы достают его через From и пишут события с его атрибутами.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into возвращает контекст с логгером l. nil не затирает уже лежащий логгер.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	if l == nil {
		return ctx
	}

	return context.WithValue(ctx, ctxKey{}, l)
}

// From возвращает логгер запроса; без него - slog.Default() на момент вызова.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}

	return slog.Default()
}
