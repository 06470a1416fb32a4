package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "studydesk"

// Metrics exposes Prometheus collectors for the deadline monitor, the
// notification fan-out and skill learning. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	monitorRuns      prometheus.Counter
	remindersSkipped *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	emails           *prometheus.CounterVec
	activeReminders  prometheus.Gauge
	skillsLearned    prometheus.Counter
}

// MustNew registers the collectors on reg, falling back to the default
// registerer. Registration errors panic.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		monitorRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "runs_total",
			Help:      "Number of deadline monitor passes.",
		}),
		remindersSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "reminders_skipped_total",
			Help:      "Reminders the monitor could not evaluate.",
		}, []string{"reason"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "notifications_total",
			Help:      "Notification tiers fired.",
		}, []string{"tier", "policy"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "emails_total",
			Help:      "Email notifications attempted, by result.",
		}, []string{"result"}),
		activeReminders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "active_reminders",
			Help:      "Pending reminders seen by the last monitor pass.",
		}),
		skillsLearned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "skills",
			Name:      "learned_total",
			Help:      "Skills added to the learned collection from completed reminders.",
		}),
	}
	reg.MustRegister(m.monitorRuns, m.remindersSkipped, m.notifications, m.emails, m.activeReminders, m.skillsLearned)
	return m
}

func (m *Metrics) MonitorRun(active int) {
	if m == nil {
		return
	}
	m.monitorRuns.Inc()
	m.activeReminders.Set(float64(active))
}

func (m *Metrics) ReminderSkipped(reason string) {
	if m == nil {
		return
	}
	m.remindersSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) NotificationFired(tier, policy string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(tier, policy).Inc()
}

func (m *Metrics) EmailSent() {
	if m == nil {
		return
	}
	m.emails.WithLabelValues("sent").Inc()
}

func (m *Metrics) EmailFailed() {
	if m == nil {
		return
	}
	m.emails.WithLabelValues("failed").Inc()
}

func (m *Metrics) SkillsLearned(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skillsLearned.Add(float64(n))
}
