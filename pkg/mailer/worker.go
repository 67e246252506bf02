package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Deliverer sends one job. Mailgun implements it.
type Deliverer interface {
	Deliver(ctx context.Context, job EmailJob) error
}

// Outcome tells the consumer how to settle a queue message.
type Outcome int

const (
	Ack     Outcome = iota // delivered
	Drop                   // malformed, never retry
	Requeue                // transient failure
)

// Process decodes a queued job and delivers it.
func Process(ctx context.Context, body []byte, d Deliverer) (Outcome, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return Drop, fmt.Errorf("decode email job: %w", err)
	}
	if err := d.Deliver(ctx, job); err != nil {
		if errors.Is(err, ErrInvalidJob) {
			return Drop, err
		}
		return Requeue, err
	}
	return Ack, nil
}
