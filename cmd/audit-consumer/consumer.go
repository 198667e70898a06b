package main

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/observability"
)

type AuditSink interface {
	LogBookingEvent(ctx context.Context, ev domain.BookingEvent) error
}

// Acknowledger is the part of amqp.Delivery the consumer settles with.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type AuditConsumer struct {
	sink   AuditSink
	logger observability.Logger
}

func NewAuditConsumer(sink AuditSink, logger observability.Logger) *AuditConsumer {
	return &AuditConsumer{sink: sink, logger: logger}
}

func (c *AuditConsumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			c.Handle(ctx, d.Body, d)
		}
	}
}

// Handle records one booking event. Undecodable messages are dropped; write
// failures are requeued. The audit log is keyed by event id, so a redelivered
// event is stored once.
func (c *AuditConsumer) Handle(ctx context.Context, body []byte, ack Acknowledger) {
	var ev domain.BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		c.logger.WithError(err).Warn("dropping undecodable booking event")
		_ = ack.Nack(false, false)
		return
	}
	if err := c.sink.LogBookingEvent(ctx, ev); err != nil {
		c.logger.WithError(err).WithField("event_id", ev.EventID.String()).Error("audit write failed, requeueing")
		_ = ack.Nack(false, true)
		return
	}
	_ = ack.Ack(false)
}
