// Package notify sends owner notifications by email.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// SMTPConfig addresses the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	To       string
}

// SMTPNotifier mails every notification to a fixed recipient.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, e *email.Email) error
}

// NewSMTPNotifier returns a notifier for cfg.
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, send: func(addr string, a smtp.Auth, e *email.Email) error {
		return e.Send(addr, a)
	}}
}

// Notify sends one plain-text message. ctx bounds the whole delivery.
func (n *SMTPNotifier) Notify(ctx context.Context, subject, body string) error {
	if n.cfg.To == "" {
		return errors.New("notification recipient is not configured")
	}
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	}

	e := email.NewEmail()
	e.From = n.cfg.From
	e.To = []string{n.cfg.To}
	e.Subject = subject
	e.Text = []byte(body)

	done := make(chan error, 1)
	go func() { done <- n.send(addr, auth, e) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Nop drops every notification.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, string, string) error { return nil }
