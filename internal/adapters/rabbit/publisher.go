package rabbit

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/robertarktes/arenalink/internal/observability"
)

// Exchange is the topic exchange every booking event is routed through.
const Exchange = "arenalink.events"

const publishAttempts = 3

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open channel")
	}
	err = ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, errors.Wrap(err, "declare exchange")
	}
	return &Publisher{ch: ch}, nil
}

// Publish sends msg under routing key, retrying with a doubling backoff.
func (p *Publisher) Publish(ctx context.Context, key string, msg amqp.Publishing) error {
	var err error
	backoff := 100 * time.Millisecond
	for attempt := 0; attempt < publishAttempts; attempt++ {
		if attempt > 0 {
			observability.RabbitPublishRetries.Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		if err = p.ch.PublishWithContext(ctx, Exchange, key, false, false, msg); err == nil {
			return nil
		}
	}
	return errors.Wrapf(err, "publish %s", key)
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}
