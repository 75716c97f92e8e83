package mailer

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// SMTPMailer delivers mail through an SMTP server using gomail. The
// dialer opens a fresh connection per send, which is fine at
// confirmation-mail volumes.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer returns an SMTPMailer for the given server and sender
// address.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send dials the SMTP server and sends the message as text/html.
// gomail has no context support, so the dial-and-send runs in a
// goroutine and the call returns early when ctx expires; the
// abandoned attempt finishes (or fails) in the background.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.Body)

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(gm) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
