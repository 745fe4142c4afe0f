// Package mailer provides SMTP and development implementations of the
// outbound email capability.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"net/smtp"

	"github.com/fintrackr/fintrackr/pkg/config"
	"github.com/fintrackr/fintrackr/pkg/mailer"
)

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg    *config.Mail
	logger *slog.Logger
}

// NewSMTPMailer creates an SMTP-backed mailer.
func NewSMTPMailer(cfg *config.Mail, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) Send(ctx context.Context, msg mailer.Message) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	// The envelope sender must be a bare address even when the From
	// header carries a display name.
	envelopeFrom := m.cfg.From
	if parsed, err := mail.ParseAddress(m.cfg.From); err == nil {
		envelopeFrom = parsed.Address
	}

	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.cfg.From, msg.To, msg.Subject, msg.HTML)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, envelopeFrom, []string{msg.To}, []byte(body))
	}()
	select {
	case err := <-done:
		if err != nil {
			m.logger.Error("Failed to send email", "to", msg.To, "subject", msg.Subject, "error", err)
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMailer logs emails instead of sending them. Used in development
// when no SMTP host is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a logging mailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg mailer.Message) error {
	m.logger.Info("Email suppressed (no SMTP host configured)",
		"to", msg.To, "subject", msg.Subject)
	return nil
}

var (
	_ mailer.Mailer = (*SMTPMailer)(nil)
	_ mailer.Mailer = (*LogMailer)(nil)
)
