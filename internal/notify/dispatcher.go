package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"studydesk/internal/metrics"
	"studydesk/internal/reminder"
)

const (
	AlertTitle          = "Reminder Alert"
	DefaultEmailTimeout = 30 * time.Second
)

// Dispatcher delivers monitor firings to the local alert sink and, when the
// email configuration is enabled, to the mailer. Email runs on its own
// goroutine; failures are logged and counted, never returned.
type Dispatcher struct {
	alerts  AlertSink
	mailer  Mailer
	logger  *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration
	// password, when set, replaces the stored email password.
	password string

	wg sync.WaitGroup
}

type Option func(*Dispatcher)

func WithMailer(m Mailer) Option {
	return func(d *Dispatcher) { d.mailer = m }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithEmailTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func WithPasswordOverride(password string) Option {
	return func(d *Dispatcher) { d.password = password }
}

func NewDispatcher(alerts AlertSink, logger *zap.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		alerts:  alerts,
		mailer:  SMTPMailer{},
		logger:  logger,
		timeout: DefaultEmailTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch hands one firing to the sinks. r is a snapshot; the caller may keep
// mutating its own copy.
func (d *Dispatcher) Dispatch(ctx context.Context, r reminder.Reminder, f reminder.Firing, email *EmailConfig) {
	policy := reminder.PolicyFor(&r)
	d.metrics.NotificationFired(f.Tier, policy.Name)

	urgency := UrgencyNormal
	if r.Important {
		urgency = UrgencyCritical
	}
	if d.alerts != nil {
		d.alerts.Notify(ctx, Alert{
			Title:   AlertTitle,
			Body:    r.Text + "\n" + f.Message,
			Urgency: urgency,
		})
	}

	if email == nil || !email.Enabled || d.mailer == nil {
		return
	}
	creds := *email
	if d.password != "" {
		creds.Password = d.password
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.sendEmail(context.WithoutCancel(ctx), r, f, creds)
	}()
}

func (d *Dispatcher) sendEmail(ctx context.Context, r reminder.Reminder, f reminder.Firing, creds EmailConfig) {
	logger := d.logger.With(zap.String("reminder_id", r.ID), zap.String("tier", f.Tier))

	subject, body, err := RenderEmail(r, f)
	if err != nil {
		d.metrics.EmailFailed()
		logger.Error("rendering email notification", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.mailer.SendMail(ctx, creds.Email, subject, body, creds); err != nil {
		d.metrics.EmailFailed()
		logger.Error("sending email notification", zap.Error(err))
		return
	}
	d.metrics.EmailSent()
	logger.Debug("email notification sent")
}

// Wait blocks until every in-flight email has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
