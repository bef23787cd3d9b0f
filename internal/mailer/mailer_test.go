package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comercio/internal/platform/config"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDisabledSenderReportsFalse(t *testing.T) {
	sender := NewSMTP(config.SMTPConfig{}, discard())

	assert.False(t, sender.SendVerificationEmail(context.Background(), "ada@example.com", "tok", "Ada"))
	assert.False(t, sender.SendWelcomeEmail(context.Background(), "ada@example.com", "Ada"))
}

func TestDeliverBuildsMessage(t *testing.T) {
	sender := NewSMTP(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@comercio.local"}, discard())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	sender.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	ok := sender.SendVerificationEmail(context.Background(), "ada@example.com", "tok-123", "Ada")
	require.True(t, ok)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "no-reply@comercio.local", gotFrom)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: Verify your identity\r\n")
	assert.Contains(t, msg, "tok-123")
	assert.Contains(t, msg, "Hello Ada")
}

func TestDeliveryFailureReportsFalse(t *testing.T) {
	sender := NewSMTP(config.SMTPConfig{Host: "smtp.example.com", Port: 587}, discard())
	sender.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	assert.False(t, sender.SendWelcomeEmail(context.Background(), "ada@example.com", "Ada"))
}

func TestRejectionEmailBody(t *testing.T) {
	sender := NewSMTP(config.SMTPConfig{Host: "smtp.example.com", Port: 587}, discard())

	var gotMsg []byte
	sender.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = msg
		return nil
	}

	require.True(t, sender.SendRejectionEmail(context.Background(), "ada@example.com", "Ada", "blurry document", 2))
	assert.Contains(t, string(gotMsg), "Reason: blurry document")
	assert.Contains(t, string(gotMsg), "2 attempt(s) remain")

	require.True(t, sender.SendRejectionEmail(context.Background(), "ada@example.com", "Ada", "", 0))
	body := string(gotMsg)
	assert.NotContains(t, body, "Reason:")
	assert.True(t, strings.Contains(body, "No attempts remain"))
}
