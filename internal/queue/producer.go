package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/mirai2k/booking-app/internal/model"
)

// amqpChannel is the slice of *amqp.Channel the producer and consumer
// need. Narrowing it to an interface lets tests substitute a fake.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Producer enqueues booking confirmation messages on the shared
// connection. Publishing is a single attempt: an error is logged and
// returned, and the triggering operation treats it as fatal. Retrying
// is the caller's decision, not this layer's.
type Producer struct {
	channel func() (amqpChannel, error)
	closer  func(amqpChannel)
	queue   string
}

// NewProducer returns a Producer publishing to the named queue over
// the shared connection.
func NewProducer(conn *Connection, queueName string) *Producer {
	return &Producer{
		channel: func() (amqpChannel, error) { return conn.Channel() },
		closer: func(ch amqpChannel) {
			if c, ok := ch.(*amqp.Channel); ok {
				_ = c.Close()
			}
		},
		queue: queueName,
	}
}

// EnqueueConfirmation builds the confirmation mail for the given user
// and room and publishes it, marked persistent, to the confirmation
// queue.
func (p *Producer) EnqueueConfirmation(ctx context.Context, user model.User, room model.Room) error {
	msg := ConfirmationEmail{
		Email:   user.Email,
		Subject: "Your Booking Confirmation",
		HTML: fmt.Sprintf(
			"<p>Hello %s,</p><p>Your booking for the room %s is confirmed.</p><p>Enjoy your stay!</p>",
			user.Name, room.Name),
	}

	ch, err := p.channel()
	if err != nil {
		logrus.WithError(err).Error("producer: channel open failed")
		return err
	}
	if p.closer != nil {
		defer p.closer(ch)
	}

	if err := declareQueue(ch, p.queue); err != nil {
		logrus.WithError(err).Error("producer: queue declare failed")
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		logrus.WithError(err).Error("producer: marshal confirmation failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		logrus.WithError(err).Error("producer: publish failed")
		return err
	}

	logrus.WithField("queue", p.queue).Debug("producer: confirmation added to the queue")
	return nil
}
