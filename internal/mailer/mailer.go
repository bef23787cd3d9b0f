// Package mailer sends workflow email over SMTP. Delivery is best-effort:
// every send returns a bool that callers surface as informational payload,
// and a failure never propagates as an error into the workflow.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strconv"

	"comercio/internal/platform/config"
)

// SMTPSender implements the workflow's email dispatch against a plain SMTP
// relay. When no host is configured the sender is disabled and every send
// reports false.
type SMTPSender struct {
	addr    string
	auth    smtp.Auth
	from    string
	enabled bool
	logger  *slog.Logger

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg config.SMTPConfig, logger *slog.Logger) *SMTPSender {
	s := &SMTPSender{
		addr:    cfg.Host + ":" + strconv.Itoa(cfg.Port),
		from:    cfg.From,
		enabled: cfg.Host != "",
		logger:  logger,
		send:    smtp.SendMail,
	}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return s
}

func (s *SMTPSender) SendVerificationEmail(ctx context.Context, email, token, name string) bool {
	subject := "Verify your identity"
	body := fmt.Sprintf(
		"Hello %s,\n\nAn identity verification was requested for your account.\nYour verification token is:\n\n    %s\n\nThe token expires shortly; request a new one if it lapses.\n",
		name, token,
	)
	return s.deliver(ctx, email, subject, body)
}

func (s *SMTPSender) SendWelcomeEmail(ctx context.Context, email, name string) bool {
	subject := "Identity verified"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour identity has been verified. Your account now has full access.\n",
		name,
	)
	return s.deliver(ctx, email, subject, body)
}

func (s *SMTPSender) SendRejectionEmail(ctx context.Context, email, name, reason string, attemptsLeft int) bool {
	subject := "Identity verification rejected"
	body := fmt.Sprintf("Hello %s,\n\nYour identity verification was rejected.\n", name)
	if reason != "" {
		body += "Reason: " + reason + "\n"
	}
	if attemptsLeft > 0 {
		body += fmt.Sprintf("You may try again; %d attempt(s) remain.\n", attemptsLeft)
	} else {
		body += "No attempts remain. Contact support to proceed.\n"
	}
	return s.deliver(ctx, email, subject, body)
}

func (s *SMTPSender) deliver(ctx context.Context, to, subject, body string) bool {
	if !s.enabled {
		s.logger.InfoContext(ctx, "mailer disabled, dropping email", "to", to, "subject", subject)
		return false
	}

	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		body)

	if err := s.send(s.addr, s.auth, s.from, []string{to}, msg); err != nil {
		s.logger.WarnContext(ctx, "email delivery failed", "to", to, "subject", subject, "error", err)
		return false
	}
	return true
}
