// Package queue publishes booking lifecycle events to RabbitMQ. Publishing
// is best effort: errors are logged and returned so callers can ignore them
// without interrupting the request that produced the event.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher publishes events to named durable queues
type Publisher struct {
	url    string
	logger *logrus.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(url string, logger *logrus.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// PublishBookingConfirmed publishes a BookingConfirmedEvent
func (p *Publisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error {
	return p.publish(ctx, QueueBookingConfirmed, event)
}

// PublishBookingCancelled publishes a BookingCancelledEvent
func (p *Publisher) PublishBookingCancelled(ctx context.Context, event BookingCancelledEvent) error {
	return p.publish(ctx, QueueBookingCancelled, event)
}

// PublishTripCancelled publishes a TripCancelledEvent
func (p *Publisher) PublishTripCancelled(ctx context.Context, event TripCancelledEvent) error {
	return p.publish(ctx, QueueTripCancelled, event)
}

func (p *Publisher) publish(ctx context.Context, queueName string, event interface{}) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.WithError(err).WithField("queue", queueName).Error("rabbitmq: dial failed")
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.WithError(err).WithField("queue", queueName).Error("rabbitmq: channel open failed")
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer ch.Close()

	// Durable queue, declared idempotently, so events survive broker restarts
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		p.logger.WithError(err).WithField("queue", queueName).Error("rabbitmq: queue declare failed")
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		p.logger.WithError(err).WithField("queue", queueName).Error("rabbitmq: publish failed")
		return fmt.Errorf("rabbitmq publish: %w", err)
	}

	return nil
}
