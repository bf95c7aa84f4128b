package notifier

import (
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/amishk599/jobsift/internal/model"
)

// Ensure EmailNotifier implements model.Notifier.
var _ model.Notifier = (*EmailNotifier)(nil)

// EmailSettings configures the SMTP relay and the message envelope.
type EmailSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Greeting string // opening line, e.g. "Hi Sam,"
}

// EmailNotifier mails run summaries through an SMTP relay.
type EmailNotifier struct {
	cfg    EmailSettings
	topN   int
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	logger *slog.Logger
}

// NewEmailNotifier returns a notifier that sends one email per run.
func NewEmailNotifier(cfg EmailSettings, topN int, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, topN: topN, send: smtp.SendMail, logger: logger}
}

// Notify sends the summary email. Authentication is skipped when no username is set.
func (e *EmailNotifier) Notify(s model.RunSummary) error {
	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}
	addr := net.JoinHostPort(e.cfg.Host, strconv.Itoa(e.cfg.Port))
	if err := e.send(addr, auth, e.cfg.From, e.cfg.To, e.message(s)); err != nil {
		return fmt.Errorf("send email via %s: %w", addr, err)
	}
	e.logger.Info("email sent", "run_id", s.RunID, "to", strings.Join(e.cfg.To, ","))
	return nil
}

func (e *EmailNotifier) message(s model.RunSummary) []byte {
	var b strings.Builder
	b.WriteString("From: " + e.cfg.From + "\r\n")
	b.WriteString("To: " + strings.Join(e.cfg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + Subject(s.Date) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")

	if e.cfg.Greeting != "" {
		b.WriteString(e.cfg.Greeting + "\r\n\r\n")
	}
	b.WriteString(Headline(s) + "\r\n")
	for i, p := range top(s, e.topN) {
		fmt.Fprintf(&b, "\r\n%d. %s (score %d)\r\n   %s", i+1, p.Title, p.ScoreValue(), p.Company)
		if loc := where(p); loc != "" {
			b.WriteString(", " + loc)
		}
		b.WriteString("\r\n   " + p.URL + "\r\n")
	}
	return []byte(b.String())
}
