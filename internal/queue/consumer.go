package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/mirai2k/booking-app/internal/mailer"
)

// deadQueueSuffix names the dead-letter destination next to the main
// queue ("<queue>.dead").
const deadQueueSuffix = ".dead"

// Consumer subscribes to the confirmation queue and delivers each
// message through the mailer. Messages are acknowledged individually:
// a successful delivery is acked, a failed one is requeued with an
// incremented attempt counter until MaxAttempts is reached, after
// which it goes to the dead-letter queue. One message's failure never
// terminates the subscription; the loop reconnects with exponential
// backoff when the broker drops it.
type Consumer struct {
	conn        *Connection
	queue       string
	mailer      mailer.Mailer
	maxAttempts int
	sendTimeout time.Duration
}

// NewConsumer returns a Consumer for the named queue. maxAttempts
// bounds delivery attempts per message; sendTimeout bounds each
// delivery call so a hung send cannot stall the queue.
func NewConsumer(conn *Connection, queueName string, m mailer.Mailer, maxAttempts int, sendTimeout time.Duration) *Consumer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Consumer{
		conn:        conn,
		queue:       queueName,
		mailer:      m,
		maxAttempts: maxAttempts,
		sendTimeout: sendTimeout,
	}
}

// Start runs the subscription loop until ctx is cancelled. Connection
// failures are retried with exponential backoff; processing errors are
// handled per message inside the loop.
func (c *Consumer) Start(ctx context.Context) error {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := c.consumeLoop(ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return nil
		}
		logrus.WithError(err).Warnf("consumer: consume loop ended; reconnecting in %s", backoff)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// One unacked message at a time; ack/nack is synchronous with the
	// message it closes.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	if err := declareQueue(ch, c.queue); err != nil {
		return err
	}
	if err := declareQueue(ch, c.queue+deadQueueSuffix); err != nil {
		return err
	}

	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	logrus.WithField("queue", c.queue).Info("consumer: listening for messages")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.handle(ctx, ch, d)
		}
	}
}

// handle processes one delivery end to end and always settles it:
// ack on success, nack on failure after routing the message to its
// next destination (retry or dead-letter).
func (c *Consumer) handle(ctx context.Context, ch amqpChannel, d amqp.Delivery) {
	if err := c.process(ctx, d.Body); err != nil {
		attempts := deliveryAttempts(d) + 1
		logrus.WithError(err).WithField("attempts", attempts).Warn("consumer: message processing failed")

		dest := c.queue
		if attempts >= c.maxAttempts {
			dest = c.queue + deadQueueSuffix
			logrus.WithField("queue", dest).Warn("consumer: attempts exhausted, dead-lettering message")
		}
		if err := c.republish(ctx, ch, dest, d.Body, attempts); err != nil {
			// Could not hand the message onward; let the broker
			// redeliver it so it is not lost.
			logrus.WithError(err).Error("consumer: republish failed, requeueing delivery")
			_ = d.Nack(false, true)
			return
		}
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

// process parses the payload and delivers it through the mailer with
// the per-message timeout applied.
func (c *Consumer) process(ctx context.Context, body []byte) error {
	var msg ConfirmationEmail
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	sendCtx := ctx
	if c.sendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, c.sendTimeout)
		defer cancel()
	}
	return c.mailer.Send(sendCtx, mailer.Message{
		To:      msg.Email,
		Subject: msg.Subject,
		Body:    msg.HTML,
	})
}

func (c *Consumer) republish(ctx context.Context, ch amqpChannel, queueName string, body []byte, attempts int) error {
	return ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Headers:      amqp.Table{attemptsHeader: int32(attempts)},
		Body:         body,
	})
}
