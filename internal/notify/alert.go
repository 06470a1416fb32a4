package notify

import (
	"context"
	"io"
	"sync"

	"github.com/fatih/color"
)

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

type Alert struct {
	Title   string
	Body    string
	Urgency Urgency
}

// AlertSink shows a local alert. Implementations must return promptly.
type AlertSink interface {
	Notify(ctx context.Context, alert Alert)
}

// ConsoleSink prints alerts to a terminal, critical ones in bold red.
type ConsoleSink struct {
	mu       sync.Mutex
	out      io.Writer
	normal   *color.Color
	critical *color.Color
}

func NewConsoleSink(out io.Writer, noColor bool) *ConsoleSink {
	normal := color.New(color.FgYellow)
	critical := color.New(color.FgRed, color.Bold)
	if noColor {
		normal.DisableColor()
		critical.DisableColor()
	}
	return &ConsoleSink{out: out, normal: normal, critical: critical}
}

func (s *ConsoleSink) Notify(_ context.Context, alert Alert) {
	c := s.normal
	if alert.Urgency == UrgencyCritical {
		c = s.critical
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Fprintf(s.out, "[%s] %s\n", alert.Title, alert.Body)
}
