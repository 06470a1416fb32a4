package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := MustNew(prometheus.NewRegistry())

	m.MonitorRun(3)
	m.MonitorRun(2)
	m.ReminderSkipped("invalid_window")
	m.NotificationFired("50%", "normal")
	m.NotificationFired("50%", "normal")
	m.EmailSent()
	m.EmailFailed()
	m.SkillsLearned(2)
	m.SkillsLearned(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.monitorRuns))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.activeReminders))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.remindersSkipped.WithLabelValues("invalid_window")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.notifications.WithLabelValues("50%", "normal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emails.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.skillsLearned))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.MonitorRun(1)
	m.ReminderSkipped("x")
	m.NotificationFired("50%", "normal")
	m.EmailSent()
	m.EmailFailed()
	m.SkillsLearned(1)
}
