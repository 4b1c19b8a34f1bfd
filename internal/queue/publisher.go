package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher delivers auth events.  Handlers treat publish failures as
// non-fatal: the request outcome never depends on the broker.
type Publisher interface {
	Publish(ctx context.Context, ev AuthEvent) error
}

// dialTimeout bounds the TCP connect to an unreachable broker.
const dialTimeout = 5 * time.Second

// NopPublisher drops every event.  Used when no broker URL is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, AuthEvent) error { return nil }

// AMQPPublisher publishes events to the auth.events queue.  Each publish
// dials a short-lived connection, so a broker restart never leaves the
// server with a dead channel.
type AMQPPublisher struct {
	URL    string
	Logger *zap.Logger
}

func NewAMQPPublisher(url string, logger *zap.Logger) *AMQPPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{URL: url, Logger: logger}
}

// NewPublisher returns an AMQPPublisher for url, or NopPublisher when url is
// empty.
func NewPublisher(url string, logger *zap.Logger) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	return NewAMQPPublisher(url, logger)
}

// Publish marshals ev and sends it as a persistent message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev AuthEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		p.Logger.Warn("rabbitmq dial failed", zap.String("event", ev.Type), zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// idempotent; durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(AuthQueueName, true, false, false, false, nil); err != nil {
		p.Logger.Warn("rabbitmq queue declare failed", zap.Error(err))
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", AuthQueueName, false, false, msg); err != nil {
		p.Logger.Warn("rabbitmq publish failed", zap.String("event", ev.Type), zap.Error(err))
		return err
	}
	return nil
}
