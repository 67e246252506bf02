package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
	"github.com/sethvargo/go-retry"
)

// ErrInvalidJob marks a job that can never be delivered.
var ErrInvalidJob = errors.New("mailer: job needs recipient, subject and body")

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string

	// Attempts bounds delivery tries per message, including the first.
	Attempts uint64
	Backoff  time.Duration

	deliver func(ctx context.Context, job EmailJob) error
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	m := &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender, Attempts: 3, Backoff: 500 * time.Millisecond}
	m.deliver = m.post
	return m
}

// Send sends an email inline.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	return m.Deliver(ctx, EmailJob{To: to, Subject: subject, Text: text, HTML: html})
}

// Deliver sends a queued job, retrying transient failures with exponential backoff.
func (m *Mailgun) Deliver(ctx context.Context, job EmailJob) error {
	if !job.valid() {
		return ErrInvalidJob
	}
	attempts := m.Attempts
	if attempts == 0 {
		attempts = 1
	}
	b := retry.WithMaxRetries(attempts-1, retry.NewExponential(m.Backoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := m.deliver(ctx, job); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (m *Mailgun) post(ctx context.Context, job EmailJob) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, job.Subject, job.Text, job.To)
	if job.HTML != "" {
		msg.SetHtml(job.HTML)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}
