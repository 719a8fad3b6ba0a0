package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ledgerline/inventory-core/pkg/auth"
	"github.com/ledgerline/inventory-core/pkg/cloudevents"
	"github.com/ledgerline/inventory-core/pkg/idempotency"
	"github.com/ledgerline/inventory-core/pkg/kafka"
	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/metrics"
	"github.com/ledgerline/inventory-core/pkg/mongodb"
	"github.com/ledgerline/inventory-core/pkg/outbox"
	"github.com/ledgerline/inventory-core/pkg/tracing"

	"github.com/ledgerline/inventory-core/internal/application"
	"github.com/ledgerline/inventory-core/internal/domain"
	"github.com/ledgerline/inventory-core/internal/infrastructure/memory"
	mongostore "github.com/ledgerline/inventory-core/internal/infrastructure/mongodb"
	redislock "github.com/ledgerline/inventory-core/internal/infrastructure/redis"
)

const serviceName = "inventory-core"

func main() {
	// A missing .env is fine; the environment wins either way
	_ = godotenv.Load()

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.ParseLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting inventory-core API")

	config := loadConfig()
	ctx := context.Background()

	tracerProvider, err := tracing.Initialize(ctx, config.Tracing)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", config.Tracing.OTLPEndpoint)
	}

	m := metrics.New(metrics.DefaultConfig(serviceName))

	jwtService, err := auth.NewJWTService(config.JWTSecret, config.JWTExpiration)
	if err != nil {
		logger.WithError(err).Error("Failed to configure JWT; set JWT_SECRET_KEY")
		os.Exit(1)
	}

	deps := &routerDeps{
		logger:         logger,
		metrics:        m,
		jwt:            jwtService,
		allowedOrigins: config.AllowedOrigins,
		enableTracing:  config.Tracing.Enabled,
		ready:          func(context.Context) error { return nil },
	}

	var store domain.Store
	switch config.StoreBackend {
	case "memory":
		store = memory.NewStore()
		deps.idempotencyRepo = idempotency.NewMemoryKeyRepository()
		logger.Warn("Using in-memory store; data is lost on restart")

	case "mongodb":
		mongoClient, err := mongodb.NewProductionClient(ctx, config.MongoDB, m, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to MongoDB")
			os.Exit(1)
		}
		defer mongoClient.Close(context.Background())
		logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

		mongoStore := mongostore.NewStore(mongoClient, cloudevents.NewEventFactory(cloudevents.SourceLedger))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Warn("Failed to ensure store indexes")
		}
		store = mongoStore

		keyRepo := idempotency.NewMongoKeyRepository(mongoClient.Database())
		if err := keyRepo.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Warn("Failed to ensure idempotency indexes")
		}
		deps.idempotencyRepo = keyRepo
		deps.ready = mongoClient.HealthCheck

		if config.KafkaEnabled {
			producer := kafka.NewProductionProducer(config.Kafka, m, logger)
			defer producer.Close()

			publisher := outbox.NewPublisher(mongoStore.Outbox(), producer, logger, m, outbox.DefaultPublisherConfig())
			if err := publisher.Start(ctx); err != nil {
				logger.WithError(err).Error("Failed to start outbox publisher")
				os.Exit(1)
			}
			defer publisher.Stop()
			logger.Info("Outbox publisher started", "brokers", config.Kafka.Brokers)
		}

	default:
		logger.Error("Unknown STORE_BACKEND", "backend", config.StoreBackend)
		os.Exit(1)
	}

	var locker application.Locker = memory.NewLocker()
	if config.Redis != nil {
		rdb, err := redislock.NewClient(ctx, config.Redis)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to Redis")
			os.Exit(1)
		}
		defer rdb.Close()
		locker = redislock.NewLocker(rdb, config.Redis.LockTTL, logger)
		logger.Info("Using Redis stock lock", "addr", config.Redis.Addr)
	}

	ledger := application.NewLedgerService(store, locker, m, logger)
	deps.ledger = ledger
	deps.catalog = application.NewCatalogService(store, logger)
	deps.queries = application.NewDocumentQueryService(store, logger)
	deps.reconciliation = application.NewReconciliationService(store, ledger, m, logger)

	router := newRouter(deps)

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr, "store", config.StoreBackend)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr     string
	StoreBackend   string
	AllowedOrigins []string
	JWTSecret      string
	JWTExpiration  time.Duration
	KafkaEnabled   bool

	MongoDB *mongodb.Config
	Kafka   *kafka.Config
	Redis   *redislock.Config // nil runs with an in-process lock
	Tracing *tracing.Config
}

func loadConfig() *Config {
	mongoConfig := mongodb.ConfigFromEnv()

	kafkaConfig := kafka.DefaultConfig()
	if brokers := kafka.ParseBrokers(getEnv("KAFKA_BROKERS", "")); len(brokers) > 0 {
		kafkaConfig.Brokers = brokers
	}

	var redisConfig *redislock.Config
	if os.Getenv("REDIS_ADDR") != "" {
		redisConfig = redislock.ConfigFromEnv()
	}

	expirationHours, err := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	if err != nil || expirationHours <= 0 {
		expirationHours = 24
	}

	return &Config{
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", "memory")),
		AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
		JWTSecret:      os.Getenv("JWT_SECRET_KEY"),
		JWTExpiration:  time.Duration(expirationHours) * time.Hour,
		KafkaEnabled:   getEnv("KAFKA_ENABLED", "false") == "true",
		MongoDB:        mongoConfig,
		Kafka:          kafkaConfig,
		Redis:          redisConfig,
		Tracing:        tracing.ConfigFromEnv(serviceName),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
