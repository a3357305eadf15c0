// README: Outbound mail boundary: SMTP delivery with STARTTLS, plus a log-only mailer for development.
package export

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Message is one multipart/alternative email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds SMTP credentials and sender identity.
type SMTPConfig struct {
	Host       string // e.g. "smtp.gmail.com"
	Port       int    // 587 for STARTTLS
	Username   string
	Password   string
	From       string // envelope from, e.g. "no-reply@voyage.example"
	FromName   string
	RequireTLS bool // fail if STARTTLS is not offered
}

type SMTPMailer struct {
	cfg SMTPConfig
	now func() time.Time
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPMailer{cfg: cfg, now: time.Now}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	body := buildMessage(m.fromHeader(), msg, m.now())
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Quit()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err = c.StartTLS(&tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	} else if m.cfg.RequireTLS {
		return fmt.Errorf("smtp: server does not support STARTTLS and RequireTLS=true")
	}

	if m.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err = c.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err = c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err = w.Write(body); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return w.Close()
}

func (m *SMTPMailer) fromHeader() string {
	name := strings.TrimSpace(m.cfg.FromName)
	if name == "" {
		return m.cfg.From
	}
	return fmt.Sprintf("%q <%s>", name, m.cfg.From)
}

func buildMessage(from string, msg Message, at time.Time) []byte {
	boundary := fmt.Sprintf("alt_%d", at.UnixNano())

	var b bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&b, format, a...) }

	write("From: %s\r\n", from)
	write("To: %s\r\n", msg.To)
	write("Subject: %s\r\n", msg.Subject)
	write("Date: %s\r\n", at.Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
	writeQuotedPrintable(&b, msg.Text)
	write("\r\n\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
	writeQuotedPrintable(&b, msg.HTML)
	write("\r\n\r\n")

	write("--%s--\r\n", boundary)
	return b.Bytes()
}

// writeQuotedPrintable keeps every body line under the SMTP line limit.
func writeQuotedPrintable(b *bytes.Buffer, s string) {
	w := quotedprintable.NewWriter(b)
	_, _ = w.Write([]byte(s))
	_ = w.Close()
}

// LogMailer records messages in the log instead of delivering them. Used
// when no SMTP host is configured.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("email not delivered (no smtp host configured)",
		zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Int("text_bytes", len(msg.Text)))
	return nil
}
