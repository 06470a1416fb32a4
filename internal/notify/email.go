package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"studydesk/internal/reminder"
)

// ErrEmailDelivery wraps every transport or authentication failure.
var ErrEmailDelivery = errors.New("email delivery failed")

// EmailConfig is the persisted email notification setting.
type EmailConfig struct {
	Enabled  bool   `json:"enabled"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Service  string `json:"service"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
}

// Redacted returns a copy with the password blanked.
func (c EmailConfig) Redacted() EmailConfig {
	c.Password = ""
	return c
}

// Mailer delivers one HTML email using the supplied credentials.
type Mailer interface {
	SendMail(ctx context.Context, to, subject, htmlBody string, creds EmailConfig) error
}

type smtpServer struct {
	host string
	port int
}

var knownServices = map[string]smtpServer{
	"gmail":   {host: "smtp.gmail.com", port: 587},
	"outlook": {host: "smtp.office365.com", port: 587},
	"hotmail": {host: "smtp.office365.com", port: 587},
	"yahoo":   {host: "smtp.mail.yahoo.com", port: 465},
	"icloud":  {host: "smtp.mail.me.com", port: 587},
}

// ResolveServer returns the SMTP endpoint for a config: explicit host/port
// first, then the well-known service name.
func ResolveServer(cfg EmailConfig) (string, int, error) {
	if cfg.Host != "" {
		port := cfg.Port
		if port == 0 {
			port = 587
		}
		return cfg.Host, port, nil
	}
	server, ok := knownServices[strings.ToLower(strings.TrimSpace(cfg.Service))]
	if !ok {
		return "", 0, fmt.Errorf("unknown email service %q", cfg.Service)
	}
	return server.host, server.port, nil
}

// SMTPMailer sends mail over SMTP with PLAIN auth.
type SMTPMailer struct{}

func (SMTPMailer) SendMail(ctx context.Context, to, subject, htmlBody string, creds EmailConfig) error {
	host, port, err := ResolveServer(creds)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	msg := mail.NewMsg()
	if err := msg.From(creds.Email); err != nil {
		return fmt.Errorf("%w: from address: %v", ErrEmailDelivery, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("%w: to address: %v", ErrEmailDelivery, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(creds.Email),
		mail.WithPassword(creds.Password),
	}
	if port == 465 {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}
	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return fmt.Errorf("%w: creating client: %v", ErrEmailDelivery, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	return nil
}

var emailTemplate = template.Must(template.New("reminder").Parse(`
<h2>Reminder Alert</h2>
<p><strong>{{.Message}}</strong></p>
<p>{{.Text}}</p>
<p>Deadline: {{.Deadline}}</p>
<p>Important: {{if .Important}}Yes{{else}}No{{end}}</p>
<hr>
<p>Mark as done: <a href="{{.DoneLink}}">Done</a></p>
`))

// RenderEmail builds the subject and HTML body for a firing.
func RenderEmail(r reminder.Reminder, f reminder.Firing) (string, string, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, struct {
		Message   string
		Text      string
		Deadline  string
		Important bool
		DoneLink  template.URL
	}{
		Message:   f.Message,
		Text:      r.Text,
		Deadline:  r.Deadline.Local().Format(time.RFC1123),
		Important: r.Important,
		DoneLink:  template.URL("reminder://done/" + r.ID),
	})
	if err != nil {
		return "", "", fmt.Errorf("rendering email: %w", err)
	}
	return "Reminder: " + r.Text, buf.String(), nil
}
