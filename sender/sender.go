package sender

import (
	"context"
	"time"
)

// Email is a single outbound message.
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// EmailSender delivers a message to its recipients. Implementations report
// failure via the error; callers decide whether a failure is fatal.
type EmailSender interface {
	Send(ctx context.Context, msg Email) (SendResult, error)
}
