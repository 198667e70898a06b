package rabbit

import (
	"context"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const prefetch = 50

type Consumer struct {
	ch    *amqp.Channel
	queue string
}

// NewConsumer declares a durable queue bound to Exchange for every routing
// pattern given.
func NewConsumer(conn *amqp.Connection, queue string, patterns ...string) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open channel")
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, errors.Wrap(err, "set qos")
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, errors.Wrap(err, "declare exchange")
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, errors.Wrap(err, "declare queue")
	}
	for _, pattern := range patterns {
		if err := ch.QueueBind(queue, pattern, Exchange, false, nil); err != nil {
			_ = ch.Close()
			return nil, errors.Wrapf(err, "bind %s", pattern)
		}
	}
	return &Consumer{ch: ch, queue: queue}, nil
}

// Consume starts delivery with manual acks. The channel closes when ctx ends.
func (c *Consumer) Consume(ctx context.Context) (<-chan amqp.Delivery, error) {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	return deliveries, errors.Wrapf(err, "consume %s", c.queue)
}

func (c *Consumer) Close() error {
	return c.ch.Close()
}
