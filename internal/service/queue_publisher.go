// Package service holds side-effect services used by the HTTP handlers.
// ActivityPublisher announces successful dashboard writes on RabbitMQ;
// failures are logged and returned so callers may ignore them without
// interrupting the request.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cloudchaser/dashboard/internal/model"
	"github.com/cloudchaser/dashboard/internal/queue"
)

// Publisher is what handlers depend on.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// NewActivityEvent stamps a fresh event for a write by user.
func NewActivityEvent(user model.User, entity, action, key string) queue.ActivityEvent {
	return queue.ActivityEvent{
		EventID:    uuid.NewString(),
		UserID:     user.ID,
		Role:       string(user.Role),
		Entity:     entity,
		Action:     action,
		EntityKey:  key,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// NopPublisher drops every event.  Used when AMQP is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ActivityEvent) error { return nil }

// ActivityPublisher dials the broker per publish.  Writes are infrequent
// and a dashboard restart should not leave a dead long-lived channel.
type ActivityPublisher struct {
	url   string
	queue string
	log   *slog.Logger
}

func NewActivityPublisher(url, queueName string, log *slog.Logger) *ActivityPublisher {
	if queueName == "" {
		queueName = queue.ActivityQueue
	}
	return &ActivityPublisher{url: url, queue: queueName, log: log}
}

// Publish sends ev to the activity queue as a persistent message.
func (p *ActivityPublisher) Publish(ctx context.Context, ev queue.ActivityEvent) error {
	if err := p.publish(ctx, ev); err != nil {
		p.log.Warn("activity publish failed", "err", err, "entity", ev.Entity, "action", ev.Action)
		return err
	}
	return nil
}

func (p *ActivityPublisher) publish(ctx context.Context, ev queue.ActivityEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(2 * time.Second)})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent.  Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
