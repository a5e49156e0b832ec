package sender

import (
	"context"
	"fmt"
	"time"
)

// NoopSender drops every message. Used when SMTP is not configured, so the
// rest of the notification pipeline (templating, logging) still runs in
// development environments.
type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) Send(ctx context.Context, msg Email) (SendResult, error) {
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}
