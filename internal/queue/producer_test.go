package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirai2k/booking-app/internal/model"
)

// fakeChannel records declares and publishes for assertions.
type fakeChannel struct {
	declared   []string
	durable    bool
	published  []amqp.Publishing
	routingKey string

	declareErr error
	publishErr error
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	f.declared = append(f.declared, name)
	f.durable = durable
	return amqp.Queue{Name: name}, f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.routingKey = key
	f.published = append(f.published, msg)
	return nil
}

func newTestProducer(ch *fakeChannel) *Producer {
	return &Producer{
		channel: func() (amqpChannel, error) { return ch, nil },
		queue:   "booking.confirmation",
	}
}

func TestEnqueueConfirmationPublishesPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestProducer(ch)

	user := model.User{Name: "Ada", Email: "ada@example.com"}
	room := model.Room{Name: "Aurora"}
	require.NoError(t, p.EnqueueConfirmation(context.Background(), user, room))

	assert.Equal(t, []string{"booking.confirmation"}, ch.declared)
	assert.True(t, ch.durable)
	assert.Equal(t, "booking.confirmation", ch.routingKey)

	require.Len(t, ch.published, 1)
	pub := ch.published[0]
	assert.Equal(t, "application/json", pub.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), pub.DeliveryMode)

	var msg ConfirmationEmail
	require.NoError(t, json.Unmarshal(pub.Body, &msg))
	assert.Equal(t, "ada@example.com", msg.Email)
	assert.Equal(t, "Your Booking Confirmation", msg.Subject)
	assert.Contains(t, msg.HTML, "Ada")
	assert.Contains(t, msg.HTML, "Aurora")
}

func TestEnqueueConfirmationChannelErrorPropagates(t *testing.T) {
	dialErr := errors.New("broker unreachable")
	p := &Producer{
		channel: func() (amqpChannel, error) { return nil, dialErr },
		queue:   "booking.confirmation",
	}

	err := p.EnqueueConfirmation(context.Background(), model.User{}, model.Room{})
	assert.ErrorIs(t, err, dialErr)
}

func TestEnqueueConfirmationPublishErrorPropagates(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p := newTestProducer(ch)

	err := p.EnqueueConfirmation(context.Background(), model.User{}, model.Room{})
	assert.ErrorIs(t, err, ch.publishErr)
	assert.Empty(t, ch.published)
}
