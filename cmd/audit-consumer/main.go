package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongoadapter "github.com/robertarktes/arenalink/internal/adapters/mongo"
	"github.com/robertarktes/arenalink/internal/adapters/rabbit"
	"github.com/robertarktes/arenalink/internal/config"
	"github.com/robertarktes/arenalink/internal/observability"
)

const (
	auditQueue     = "arenalink.audit.q"
	bookingPattern = "booking.*"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.MongoURI == "" || cfg.RabbitURL == "" {
		log.Fatal("audit consumer needs MONGO_URI and RABBIT_URL")
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg, "arenalink-audit-consumer")
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	audit := mongoadapter.NewAuditLogger(mongoClient.Database(cfg.MongoDB), logger)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()
	consumer, err := rabbit.NewConsumer(conn, auditQueue, bookingPattern)
	if err != nil {
		log.Fatalf("failed to create consumer: %v", err)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deliveries, err := consumer.Consume(ctx)
	if err != nil {
		log.Fatalf("failed to consume: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewAuditConsumer(audit, logger).Run(ctx, deliveries)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-done:
		logger.Warn("delivery channel closed")
	}
	logger.Info("Shutdown audit consumer")
}
