package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestScheduler_InvalidConfig(t *testing.T) {
	noop := func() error { return nil }

	tests := []struct {
		name string
		opts []Option
	}{
		{"no context", []Option{WithLogger(discardLogger), WithInterval(time.Second), WithHandler(noop)}},
		{"no logger", []Option{WithContext(context.Background()), WithInterval(time.Second), WithHandler(noop)}},
		{"no interval", []Option{WithContext(context.Background()), WithLogger(discardLogger), WithHandler(noop)}},
		{"no handler", []Option{WithContext(context.Background()), WithLogger(discardLogger), WithInterval(time.Second)}},
		{"bad daily hour", []Option{WithContext(context.Background()), WithLogger(discardLogger), WithDailyAtUTC(24), WithHandler(noop)}},
		{"both modes", []Option{WithContext(context.Background()), WithLogger(discardLogger), WithInterval(time.Second), WithDailyAtUTC(2), WithHandler(noop)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			assert.Error(t, err)
		})
	}
}

func TestScheduler_IntervalFires(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var count atomic.Int32
	s, err := New(
		WithContext(ctx),
		WithLogger(discardLogger),
		WithInterval(10*time.Millisecond),
		WithHandler(func() error {
			count.Add(1)
			return nil
		}),
	)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return count.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s, err := New(
		WithContext(context.Background()),
		WithLogger(discardLogger),
		WithInterval(time.Hour),
		WithHandler(func() error { return nil }),
	)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	s.Stop()
	s.Stop()
}

func TestNextDailyRun(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	next := nextDailyRun(now, 12)
	assert.Equal(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), next)

	next = nextDailyRun(now, 3)
	assert.Equal(t, time.Date(2025, 6, 16, 3, 0, 0, 0, time.UTC), next)

	// exactly on the boundary rolls to the next day
	boundary := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	next = nextDailyRun(boundary, 12)
	assert.Equal(t, time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC), next)
}
