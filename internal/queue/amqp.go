package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

// publishChannel is the part of an AMQP channel used for publishing.
type publishChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes jobs to a durable queue.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel publishChannel
	queue   string
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}
	return nil
}

// NewAMQPPublisher connects to url and declares the queue.
func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := declareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, channel: ch, queue: queue}, nil
}

// Enqueue publishes a persistent JSON message.
func (p *AMQPPublisher) Enqueue(ctx context.Context, job ParseJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := Encode(job)
	if err != nil {
		return err
	}
	err = p.channel.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}
	return nil
}

// Close closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	return nil
}

var _ Dispatcher = (*AMQPPublisher)(nil)

// AMQPConsumer runs a handler over messages from a queue.
type AMQPConsumer struct {
	url     string
	queue   string
	workers int
	logger  *slog.Logger
}

// NewAMQPConsumer creates a consumer with workers concurrent handlers.
func NewAMQPConsumer(url, queue string, workers int, logger *slog.Logger) *AMQPConsumer {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPConsumer{url: url, queue: queue, workers: workers, logger: logger}
}

// Run consumes until ctx is done or the broker closes the delivery channel.
func (c *AMQPConsumer) Run(ctx context.Context, handler Handler) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := declareQueue(ch, c.queue); err != nil {
		return err
	}
	if err := ch.Qos(c.workers, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}
	deliveries, err := ch.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume queue %s: %w", c.queue, err)
	}

	c.logger.Info("consuming parse jobs", "queue", c.queue, "workers", c.workers)
	return c.consume(ctx, deliveries, handler)
}

// consume fans deliveries out to the worker pool.
func (c *AMQPConsumer) consume(ctx context.Context, deliveries <-chan amqp.Delivery, handler Handler) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < c.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case d, ok := <-deliveries:
					if !ok {
						return nil
					}
					c.handle(ctx, d, handler)
				}
			}
		})
	}
	return g.Wait()
}

// handle acks successful jobs and drops failed ones without requeueing.
func (c *AMQPConsumer) handle(ctx context.Context, d amqp.Delivery, handler Handler) {
	job, err := Decode(d.Body)
	if err != nil {
		c.logger.Error("dropping malformed job", "error", err)
		_ = d.Nack(false, false)
		return
	}
	if err := handler(ctx, job); err != nil {
		c.logger.Error("parse job failed", "resume_version_id", job.ResumeVersionID, "error", err)
		_ = d.Nack(false, false)
		return
	}
	if err := d.Ack(false); err != nil {
		c.logger.Warn("failed to ack job", "resume_version_id", job.ResumeVersionID, "error", err)
	}
}
