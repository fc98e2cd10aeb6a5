// janitor периодически удаляет просроченные записи токенов.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/catalog-backend/internal/pkg/log"
)

// Purger - то, что умеет удалять просроченные записи (service.TokenService).
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Janitor запускает очистку с фиксированным периодом.
type Janitor struct {
	purger Purger
	log    *slog.Logger
	period time.Duration

	purged prometheus.Counter
	runs   *prometheus.CounterVec
}

// New создаёт Janitor и регистрирует его метрики в reg (если reg != nil).
func New(purger Purger, lg *slog.Logger, period time.Duration, reg prometheus.Registerer) *Janitor {
	if lg == nil {
		lg = slog.Default()
	}

	j := &Janitor{
		purger: purger,
		log:    lg,
		period: period,
		purged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tokens_purged_total",
			Help: "Total number of expired token records removed.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "janitor_runs_total",
			Help: "Janitor runs by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(j.purged, j.runs)
	}

	return j
}

// Run выполняет очистку каждые period до отмены ctx.
// Ошибка очистки логируется и не прерывает цикл.
func (j *Janitor) Run(ctx context.Context) error {
	if j.period <= 0 {
		j.log.Info("janitor_disabled")
		<-ctx.Done()
		return nil
	}

	ctx = log.Into(ctx, j.log)

	ticker := time.NewTicker(j.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет одну очистку.
func (j *Janitor) RunOnce(ctx context.Context) {
	n, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		j.runs.WithLabelValues("error").Inc()
		j.log.Warn("janitor_failed", slog.String("err", err.Error()))
		return
	}

	j.runs.WithLabelValues("ok").Inc()
	j.purged.Add(float64(n))

	if n > 0 {
		j.log.Info("janitor_purged", slog.Int64("count", n))
	}
}
