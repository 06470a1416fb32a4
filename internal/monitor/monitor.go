// Package monitor runs the periodic deadline check: it evaluates every
// pending reminder, persists the updated sent-sets and hands the resulting
// firings to the notifier.
package monitor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"studydesk/internal/document"
	"studydesk/internal/metrics"
	"studydesk/internal/notify"
	"studydesk/internal/reminder"
	"studydesk/internal/storage"
)

const DefaultInterval = time.Minute

// Notifier delivers a single firing. Implementations must not block on slow
// transports.
type Notifier interface {
	Dispatch(ctx context.Context, r reminder.Reminder, f reminder.Firing, email *notify.EmailConfig)
}

type Monitor struct {
	store     *storage.Store
	notifier  Notifier
	scheduler Scheduler
	evaluator reminder.Evaluator
	interval  time.Duration
	now       func() time.Time
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

type Option func(*Monitor)

func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

func WithEvaluator(e reminder.Evaluator) Option {
	return func(m *Monitor) { m.evaluator = e }
}

func WithScheduler(s Scheduler) Option {
	return func(m *Monitor) { m.scheduler = s }
}

func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Monitor) { m.metrics = mt }
}

func New(store *storage.Store, notifier Notifier, logger *zap.Logger, opts ...Option) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		store:    store,
		notifier: notifier,
		interval: DefaultInterval,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.scheduler == nil {
		m.scheduler = NewCronScheduler(logger)
	}
	return m
}

// Run performs one pass immediately, then one per interval until ctx is
// cancelled. It returns once the scheduler has stopped.
func (m *Monitor) Run(ctx context.Context) error {
	m.RunOnce(ctx)

	if err := m.scheduler.Every(m.interval, func() { m.RunOnce(ctx) }); err != nil {
		return err
	}
	m.scheduler.Start()
	m.logger.Info("deadline monitor started", zap.Duration("interval", m.interval))

	<-ctx.Done()
	m.scheduler.Stop()
	m.logger.Info("deadline monitor stopped")
	return nil
}

type dueFiring struct {
	reminder reminder.Reminder
	firing   reminder.Firing
}

// RunOnce evaluates all pending reminders against the clock and dispatches
// what is due. It returns the number of firings.
func (m *Monitor) RunOnce(ctx context.Context) int {
	now := m.now()
	var (
		due   []dueFiring
		email *notify.EmailConfig
	)

	_, err := m.store.Update(ctx, func(d *document.Document) error {
		for _, r := range d.Reminders {
			if !r.IsPending() {
				continue
			}
			firings, err := m.evaluator.Evaluate(r, now)
			if err != nil {
				reason := "error"
				if errors.Is(err, reminder.ErrInvalidWindow) {
					reason = "invalid_window"
				}
				m.metrics.ReminderSkipped(reason)
				m.logger.Warn("skipping reminder", zap.String("reminder_id", r.ID), zap.Error(err))
				continue
			}
			for _, f := range firings {
				due = append(due, dueFiring{reminder: snapshot(r), firing: f})
			}
		}
		m.metrics.MonitorRun(d.PendingReminders())

		if len(due) == 0 {
			return storage.ErrUnchanged
		}
		if d.EmailConfig != nil {
			cfg := *d.EmailConfig
			email = &cfg
		}
		return nil
	})
	if err != nil {
		m.logger.Error("deadline check failed", zap.Error(err))
		return 0
	}

	for _, df := range due {
		m.logger.Info("reminder tier reached",
			zap.String("reminder_id", df.reminder.ID),
			zap.String("tier", df.firing.Tier))
		m.notifier.Dispatch(ctx, df.reminder, df.firing, email)
	}
	return len(due)
}

func snapshot(r *reminder.Reminder) reminder.Reminder {
	out := *r
	out.NotificationsSent = append([]string(nil), r.NotificationsSent...)
	return out
}
