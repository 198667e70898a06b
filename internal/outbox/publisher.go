package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/robertarktes/arenalink/internal/adapters/pg"
	"github.com/robertarktes/arenalink/internal/observability"
)

const batchSize = 50

type Store interface {
	GetUnpublishedOutbox(ctx context.Context, limit int) ([]pg.OutboxRecord, error)
	MarkPublished(ctx context.Context, id uuid.UUID, publishedAt time.Time) error
}

type Broker interface {
	Publish(ctx context.Context, key string, msg amqp.Publishing) error
}

// Publisher relays committed outbox rows to the broker in creation order.
type Publisher struct {
	store  Store
	broker Broker
	logger observability.Logger
	now    func() time.Time
}

func NewPublisher(store Store, broker Broker, logger observability.Logger) *Publisher {
	return &Publisher{store: store, broker: broker, logger: logger, now: time.Now}
}

func (p *Publisher) Run(ctx context.Context, interval time.Duration) {
	p.logger.WithField("interval", interval.String()).Info("outbox publisher started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.Flush(ctx); err != nil {
				p.logger.WithError(err).Error("outbox flush failed")
			}
		}
	}
}

// Flush publishes one batch and returns how many records went out. It stops
// at the first broker failure so later events are not delivered before
// earlier ones.
func (p *Publisher) Flush(ctx context.Context) (int, error) {
	records, err := p.store.GetUnpublishedOutbox(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		observability.OutboxLag.Set(0)
		return 0, nil
	}
	observability.OutboxLag.Set(p.now().Sub(records[0].CreatedAt).Seconds())

	sent := 0
	for _, rec := range records {
		msg := amqp.Publishing{
			MessageId:    rec.DedupeKey,
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    rec.CreatedAt,
			Type:         rec.EventType,
			Body:         rec.Payload,
		}
		if err := p.broker.Publish(ctx, rec.EventType, msg); err != nil {
			return sent, err
		}
		if err := p.store.MarkPublished(ctx, rec.ID, p.now()); err != nil {
			return sent, err
		}
		p.logger.WithFields(map[string]interface{}{
			"event_type":   rec.EventType,
			"aggregate_id": rec.AggregateID,
		}).Debug("outbox record published")
		sent++
	}
	return sent, nil
}
