package queue

import amqp "github.com/rabbitmq/amqp091-go"

// ConfirmationEmail is the payload placed on the confirmation queue
// when a booking is confirmed. The consumer parses it back and hands
// it to the mailer.
type ConfirmationEmail struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// attemptsHeader carries the number of completed delivery attempts a
// message has been through. It is absent on first publication and
// incremented each time the consumer requeues the message.
const attemptsHeader = "x-attempts"

// deliveryAttempts reads the attempt counter from a delivery's
// headers, tolerating the integer widths AMQP clients encode.
func deliveryAttempts(d amqp.Delivery) int {
	v, ok := d.Headers[attemptsHeader]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
