// Package mailer sends the site's transactional email over SMTP. Delivery is
// always fire-and-forget relative to the store write that triggered it: a
// failed send is logged and surfaced as a warning, never rolled back into the
// primary mutation.
package mailer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wneessen/go-mail"
	"studkits-backend/internal/config"
)

type Client struct {
	smtp *mail.Client
	from string
}

// NewClient builds an SMTP client from config. Returns (nil, nil) when no
// EMAIL_HOST is configured so callers can run without outbound mail.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.EmailHost == "" {
		return nil, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.EmailPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.EmailUser),
		mail.WithPassword(cfg.EmailPassword),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.EmailSecure {
		opts = append(opts, mail.WithSSL())
	}

	smtp, err := mail.NewClient(cfg.EmailHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Client{smtp: smtp, from: cfg.EmailFrom}, nil
}

// Send delivers one HTML email.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(c.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := c.smtp.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendWithRetry attempts delivery up to three times with linearly increasing
// backoff (attempt x 1s) before giving up.
func (c *Client) SendWithRetry(ctx context.Context, to, subject, htmlBody string) error {
	const maxAttempts = 3

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = c.Send(ctx, to, subject, htmlBody)
		if lastErr == nil {
			return nil
		}
		if attempt < maxAttempts {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

// Notify runs SendWithRetry in the background and logs a warning on failure.
// Handlers call this after their store write has already succeeded.
func (c *Client) Notify(to, subject, htmlBody string) {
	if c == nil {
		log.Printf("Warning: email not configured, skipping notice %q to %s", subject, to)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.SendWithRetry(ctx, to, subject, htmlBody); err != nil {
			log.Printf("Warning: notification to %s failed: %v", to, err)
		}
	}()
}
