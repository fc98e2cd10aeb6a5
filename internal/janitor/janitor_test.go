package janitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	calls atomic.Int64
	n     int64
	err   error
}

func (f *fakePurger) PurgeExpired(context.Context) (int64, error) {
	f.calls.Add(1)
	return f.n, f.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce_CountsPurged(t *testing.T) {
	t.Parallel()

	p := &fakePurger{n: 3}
	j := New(p, discard(), time.Minute, prometheus.NewRegistry())

	j.RunOnce(context.Background())
	j.RunOnce(context.Background())

	require.Equal(t, 6.0, testutil.ToFloat64(j.purged))
	require.Equal(t, 2.0, testutil.ToFloat64(j.runs.WithLabelValues("ok")))
}

func TestRunOnce_ErrorDoesNotCount(t *testing.T) {
	t.Parallel()

	p := &fakePurger{err: errors.New("db down")}
	j := New(p, discard(), time.Minute, nil)

	j.RunOnce(context.Background())

	require.Zero(t, testutil.ToFloat64(j.purged))
	require.Equal(t, 1.0, testutil.ToFloat64(j.runs.WithLabelValues("error")))
}

func TestRun_TicksUntilCanceled(t *testing.T) {
	t.Parallel()

	p := &fakePurger{n: 1}
	j := New(p, discard(), 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	require.Eventually(t, func() bool { return p.calls.Load() >= 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestRun_DisabledWaitsForCancel(t *testing.T) {
	t.Parallel()

	p := &fakePurger{}
	j := New(p, discard(), 0, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, j.Run(ctx))
	require.Zero(t, p.calls.Load())
}
