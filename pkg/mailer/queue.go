package mailer

import "context"

// JobPublisher puts a JSON document on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueSender hands emails to the worker through RabbitMQ instead of sending inline.
type QueueSender struct {
	Publisher JobPublisher
}

func NewQueueSender(p JobPublisher) *QueueSender {
	return &QueueSender{Publisher: p}
}

func (q *QueueSender) Send(ctx context.Context, to, subject, text, html string) error {
	job := EmailJob{To: to, Subject: subject, Text: text, HTML: html}
	if !job.valid() {
		return ErrInvalidJob
	}
	return q.Publisher.PublishJSON(ctx, job)
}
