package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongoadapter "github.com/robertarktes/arenalink/internal/adapters/mongo"
	"github.com/robertarktes/arenalink/internal/adapters/pg"
	redisadapter "github.com/robertarktes/arenalink/internal/adapters/redis"
	"github.com/robertarktes/arenalink/internal/catalog"
	"github.com/robertarktes/arenalink/internal/config"
	httphandler "github.com/robertarktes/arenalink/internal/http"
	"github.com/robertarktes/arenalink/internal/idempotency"
	"github.com/robertarktes/arenalink/internal/observability"
	"github.com/robertarktes/arenalink/internal/rateLimit"
	"github.com/robertarktes/arenalink/internal/view"
)

func main() {
	flagSet := pflag.NewFlagSet("arenalink-api", pflag.ExitOnError)
	addr := flagSet.String("addr", "", "listen address, overrides HTTP_ADDR")
	migrateOnly := flagSet.Bool("migrate-only", false, "apply the database schema, seed the mongo catalog and exit")
	_ = flagSet.Parse(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}

	ctx := context.Background()

	shutdown, err := observability.SetupOTel(ctx, cfg, "arenalink-api")
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdown()

	logger := observability.NewLogger()
	observability.InitMetrics()

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatalf("failed to parse templates: %v", err)
	}

	deps := httphandler.Deps{
		Config:   cfg,
		Logger:   logger,
		Catalog:  catalog.NewStatic(),
		Renderer: renderer,
	}

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		repo := pg.NewRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
		deps.Store = repo
	} else {
		logger.Warn("DATABASE_URL not set, backend routes disabled")
	}

	var redisClient *redisclient.Client
	if cfg.RedisAddr != "" {
		redisClient = redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		deps.Locks = redisadapter.NewCache(redisClient)
	}

	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer mongoClient.Disconnect(context.Background())
		mongoDB := mongoClient.Database(cfg.MongoDB)
		deps.Activity = mongoadapter.NewAuditLogger(mongoDB, logger)

		if cfg.CatalogBackend == config.CatalogMongo {
			mongoCatalog := mongoadapter.NewCatalogRepository(mongoDB, logger)
			if err := mongoCatalog.Seed(ctx, catalog.Arenas()); err != nil {
				log.Fatalf("failed to seed arenas: %v", err)
			}
			deps.Catalog = mongoCatalog
			if redisClient != nil {
				deps.Catalog = catalog.NewCached(mongoCatalog, redisadapter.NewCache(redisClient), cfg.CatalogCacheTTL, logger)
			}
		}
	}

	if *migrateOnly {
		logger.Info("schema applied, exiting")
		return
	}

	var (
		rl    *rateLimit.RateLimiter
		idemp *idempotency.Idempotency
	)
	if redisClient != nil {
		rl = rateLimit.NewRateLimiter(redisClient, cfg.RateLimitPerMinute, time.Minute)
		idemp = idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), cfg.IdempotencyTTL)
	}

	handlers := httphandler.NewHandlers(deps)
	r := httphandler.SetupRouter(handlers, logger, rl, idemp)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	logger.Info("Server exiting")
}
