// Package queue contains the message channel pieces: a shared AMQP
// connection, the confirmation payload type, the producer that
// enqueues confirmations and the consumer that delivers them.
package queue

import (
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connection is the process-wide AMQP connection shared by the
// producer and the consumer. The underlying connection is established
// lazily on first use and redialed transparently after the broker
// drops it. Close releases it on shutdown.
type Connection struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewConnection returns a Connection that will dial the given URL on
// first use.
func NewConnection(url string) *Connection {
	return &Connection{url: url}
}

// Channel opens a fresh channel on the shared connection, dialing or
// redialing the broker first when needed. Callers own the returned
// channel and must close it.
func (c *Connection) Channel() (*amqp.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || c.conn.IsClosed() {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			return nil, fmt.Errorf("amqp dial: %w", err)
		}
		c.conn = conn
	}
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp channel open: %w", err)
	}
	return ch, nil
}

// Close shuts the underlying connection down. Subsequent Channel
// calls redial.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// declareQueue declares a durable queue so messages survive broker
// restarts. Declaration is idempotent.
func declareQueue(ch amqpChannel, name string) error {
	_, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("queue declare %s: %w", name, err)
	}
	return nil
}
