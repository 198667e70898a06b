package rabbit_test

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/robertarktes/arenalink/internal/adapters/rabbit"
	"github.com/robertarktes/arenalink/internal/domain"
)

func setupRabbit(t *testing.T) *amqp.Connection {
	t.Helper()
	if testing.Short() {
		t.Skip("needs docker")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-management",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5672")
	require.NoError(t, err)

	conn, err := amqp.Dial("amqp://guest:guest@" + host + ":" + port.Port() + "/")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestPublishConsume(t *testing.T) {
	conn := setupRabbit(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	consumer, err := rabbit.NewConsumer(conn, "arenalink.audit.test", "booking.*")
	require.NoError(t, err)
	defer consumer.Close()

	publisher, err := rabbit.NewPublisher(conn)
	require.NoError(t, err)
	defer publisher.Close()

	deliveries, err := consumer.Consume(ctx)
	require.NoError(t, err)

	// Not bound to the queue; must never arrive.
	require.NoError(t, publisher.Publish(ctx, "slot.updated", amqp.Publishing{Body: []byte(`{}`)}))

	body := []byte(`{"booking_id":"b-1","slot_id":"slot-1"}`)
	require.NoError(t, publisher.Publish(ctx, domain.EventBookingConfirmed, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    "outbox-1",
		Body:         body,
	}))

	select {
	case d := <-deliveries:
		assert.Equal(t, rabbit.Exchange, d.Exchange)
		assert.Equal(t, domain.EventBookingConfirmed, d.RoutingKey)
		assert.Equal(t, "outbox-1", d.MessageId)
		assert.Equal(t, "application/json", d.ContentType)
		assert.JSONEq(t, string(body), string(d.Body))
		require.NoError(t, d.Ack(false))
	case <-ctx.Done():
		t.Fatal("no delivery for booking.confirmed")
	}

	select {
	case d := <-deliveries:
		t.Fatalf("unexpected delivery %q", d.RoutingKey)
	case <-time.After(300 * time.Millisecond):
	}
}
