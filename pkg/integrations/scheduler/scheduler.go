package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrInvalidSchedulerConfig = errors.New("invalid scheduler config")
)

// Scheduler runs a handler either on a fixed interval or once per day at a
// fixed UTC hour. Exactly one of the two modes must be configured.
type Scheduler struct {
	interval  time.Duration
	dailyHour int
	daily     bool
	ctx       context.Context
	logger    *slog.Logger
	handler   func() error
	stop      chan struct{}
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		s.interval = d
	}
}

// WithDailyAtUTC schedules the handler once per day at the given UTC hour.
func WithDailyAtUTC(hour int) Option {
	return func(s *Scheduler) {
		s.dailyHour = hour
		s.daily = true
	}
}

func WithContext(ctx context.Context) Option {
	return func(s *Scheduler) {
		s.ctx = ctx
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

func WithHandler(h func() error) Option {
	return func(s *Scheduler) {
		s.handler = h
	}
}

func (s *Scheduler) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "ctx cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "logger cannot be nil")
	case !s.daily && s.interval <= 0:
		return errors.Wrap(ErrInvalidSchedulerConfig, "interval must be positive")
	case s.daily && (s.dailyHour < 0 || s.dailyHour > 23):
		return errors.Wrap(ErrInvalidSchedulerConfig, "daily hour must be within 0-23")
	case s.daily && s.interval > 0:
		return errors.Wrap(ErrInvalidSchedulerConfig, "interval and daily mode are mutually exclusive")
	case s.handler == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "handler cannot be nil")
	default:
		return nil
	}
}

func New(opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		stop: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, s.IsValid()
}

func (s *Scheduler) Start() error {
	if err := s.IsValid(); err != nil {
		return err
	}

	if s.daily {
		go s.runDaily()
		return nil
	}

	go s.runInterval()
	return nil
}

func (s *Scheduler) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

func (s *Scheduler) runInterval() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.fire()
		case <-s.stop:
			return
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) runDaily() {
	for {
		wait := time.Until(nextDailyRun(time.Now().UTC(), s.dailyHour))
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			s.fire()
		case <-s.stop:
			timer.Stop()
			return
		case <-s.ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) fire() {
	if err := s.handler(); err != nil {
		s.logger.Error("scheduler handler error", "error", err)
	}
}

// nextDailyRun returns the next occurrence of the given UTC hour strictly
// after now.
func nextDailyRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
