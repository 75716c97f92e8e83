// Package mailer holds the outbound mail capability the notification
// consumer delivers through. Delivery may be slow; implementations
// must honor context cancellation so a hung send cannot stall the
// consumer forever.
package mailer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Message is one piece of outbound mail.
type Message struct {
	To      string
	Subject string
	Body    string // HTML body
}

// Mailer sends a message to its recipient. Sends are assumed safe to
// retry; the queue redelivers on failure.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer is a stand-in transport used when SMTP is not configured.
// It simulates delivery latency and writes the message to the log
// instead of sending it.
type LogMailer struct {
	Delay time.Duration
}

// Send waits for the configured delay, then logs the message.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	select {
	case <-time.After(m.Delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	logrus.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("mailer: message has been sent to user")
	return nil
}
