package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cloudchaser/dashboard/internal/model"
)

// ActivityWriter persists activity rows.  repository.ActivityRepo
// satisfies it.
type ActivityWriter interface {
	Insert(ctx context.Context, a model.Activity) error
}

// ErrBadPayload marks a message that can never be written.  It is
// rejected without requeue; any other failure is requeued.
var ErrBadPayload = errors.New("bad activity payload")

// acker is the part of amqp.Delivery that settles a message.
type acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Consumer drains the activity queue into an ActivityWriter.
type Consumer struct {
	URL    string
	Queue  string
	Writer ActivityWriter
	Log    *slog.Logger
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes until
// ctx is cancelled.  Dial failures and dropped connections are retried
// with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	if c.Queue == "" {
		c.Queue = ActivityQueue
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("activity consumer: dial failed", "err", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warn("activity consumer: loop ended, reconnecting", "err", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("activity consumer: set QoS failed", "err", err)
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.Log.Info("activity consumer: consuming", "queue", c.Queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			err := c.Handle(ctx, d.Body)
			if err != nil {
				c.Log.Error("activity consumer: handle message failed", "err", err, "message_id", d.MessageId)
			}
			if c.settle(d, err) && !sleep(ctx, requeueDelay) {
				return ctx.Err()
			}
		}
	}
}

// requeueDelay slows redelivery while the writer is failing.
const requeueDelay = time.Second

// settle rejects bad payloads for good and requeues other failures.  It
// reports whether the message was requeued.
func (c *Consumer) settle(d acker, err error) bool {
	switch {
	case err == nil:
		_ = d.Ack(false)
		return false
	case errors.Is(err, ErrBadPayload):
		_ = d.Nack(false, false)
		return false
	default:
		_ = d.Nack(false, true)
		return true
	}
}

// Handle decodes one message body and writes it.  Decode and validation
// failures wrap ErrBadPayload.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var ev ActivityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: unmarshal: %w", ErrBadPayload, err)
	}
	a, err := ev.Activity()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	if err := c.Writer.Insert(ctx, a); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
