package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirai2k/booking-app/internal/mailer"
)

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// fakeAcknowledger records how a delivery was settled.
type fakeAcknowledger struct {
	acks    int
	nacks   int
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acks++
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}

func newTestConsumer(m mailer.Mailer, maxAttempts int) *Consumer {
	return &Consumer{
		queue:       "booking.confirmation",
		mailer:      m,
		maxAttempts: maxAttempts,
		sendTimeout: time.Second,
	}
}

func delivery(body string, headers amqp.Table) (amqp.Delivery, *fakeAcknowledger) {
	ack := &fakeAcknowledger{}
	return amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(body),
		Headers:      headers,
	}, ack
}

func TestHandleDeliversAndAcks(t *testing.T) {
	m := &fakeMailer{}
	c := newTestConsumer(m, 5)
	ch := &fakeChannel{}

	d, ack := delivery(`{"email":"ada@example.com","subject":"Your Booking Confirmation","html":"<p>hi</p>"}`, nil)
	c.handle(context.Background(), ch, d)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "ada@example.com", m.sent[0].To)
	assert.Equal(t, "Your Booking Confirmation", m.sent[0].Subject)
	assert.Equal(t, "<p>hi</p>", m.sent[0].Body)

	assert.Equal(t, 1, ack.acks)
	assert.Zero(t, ack.nacks)
	assert.Empty(t, ch.published)
}

func TestHandleMalformedPayloadRequeuesWithAttemptCounter(t *testing.T) {
	m := &fakeMailer{}
	c := newTestConsumer(m, 5)
	ch := &fakeChannel{}

	d, ack := delivery(`{not json`, nil)
	c.handle(context.Background(), ch, d)

	assert.Empty(t, m.sent)
	assert.Zero(t, ack.acks)
	assert.Equal(t, 1, ack.nacks)
	assert.False(t, ack.requeue, "requeueing is done via republish, not broker redelivery")

	require.Len(t, ch.published, 1)
	assert.Equal(t, "booking.confirmation", ch.routingKey)
	assert.Equal(t, int32(1), ch.published[0].Headers[attemptsHeader])
	assert.Equal(t, []byte(`{not json`), ch.published[0].Body)
}

func TestHandleExhaustedAttemptsDeadLetters(t *testing.T) {
	m := &fakeMailer{err: errors.New("smtp down")}
	c := newTestConsumer(m, 3)
	ch := &fakeChannel{}

	d, ack := delivery(`{"email":"ada@example.com"}`, amqp.Table{attemptsHeader: int32(2)})
	c.handle(context.Background(), ch, d)

	require.Len(t, ch.published, 1)
	assert.Equal(t, "booking.confirmation.dead", ch.routingKey)
	assert.Equal(t, int32(3), ch.published[0].Headers[attemptsHeader])
	assert.Equal(t, 1, ack.nacks)
	assert.False(t, ack.requeue)
}

func TestHandleRepublishFailureRequeuesAtBroker(t *testing.T) {
	m := &fakeMailer{err: errors.New("smtp down")}
	c := newTestConsumer(m, 5)
	ch := &fakeChannel{publishErr: errors.New("channel closed")}

	d, ack := delivery(`{"email":"ada@example.com"}`, nil)
	c.handle(context.Background(), ch, d)

	assert.Equal(t, 1, ack.nacks)
	assert.True(t, ack.requeue, "broker must redeliver when republish fails")
}

func TestDeliveryAttemptsToleratesHeaderWidths(t *testing.T) {
	tests := []struct {
		name  string
		table amqp.Table
		want  int
	}{
		{"absent", nil, 0},
		{"int32", amqp.Table{attemptsHeader: int32(4)}, 4},
		{"int64", amqp.Table{attemptsHeader: int64(4)}, 4},
		{"float64", amqp.Table{attemptsHeader: float64(4)}, 4},
		{"unknown type", amqp.Table{attemptsHeader: "4"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deliveryAttempts(amqp.Delivery{Headers: tt.table}))
		})
	}
}

func TestNewConsumerClampsMaxAttempts(t *testing.T) {
	c := NewConsumer(nil, "q", &fakeMailer{}, 0, time.Second)
	assert.Equal(t, 1, c.maxAttempts)
}
