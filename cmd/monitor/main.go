package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ledgerline/inventory-core/pkg/cloudevents"
	"github.com/ledgerline/inventory-core/pkg/kafka"
	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/metrics"
	"github.com/ledgerline/inventory-core/pkg/mongodb"

	"github.com/ledgerline/inventory-core/internal/application"
	"github.com/ledgerline/inventory-core/internal/domain"
	"github.com/ledgerline/inventory-core/internal/infrastructure/memory"
	mongostore "github.com/ledgerline/inventory-core/internal/infrastructure/mongodb"
)

// Stock drift monitor: recomputes every item's stock from its documents and
// reports items whose stored stock no longer matches

var (
	mongoURI = flag.String("mongo-uri", "", "MongoDB connection URI (default MONGODB_URI)")
	dbName   = flag.String("db", "", "Database name (default MONGODB_DATABASE)")
	interval = flag.Duration("interval", 0, "Re-check on this interval; 0 checks once and exits")
	watch    = flag.Bool("watch", false, "Re-check whenever a stock-adjusted event arrives on Kafka")
	limit    = flag.Int("limit", 50, "Maximum number of drifted items to print")
)

const monitorName = "inventory-core-monitor"

func main() {
	_ = godotenv.Load()
	flag.Parse()

	logger := logging.New(logging.DefaultConfig(monitorName))

	config := mongodb.ConfigFromEnv()
	if *mongoURI != "" {
		config.URI = *mongoURI
	}
	if *dbName != "" {
		config.Database = *dbName
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(metrics.DefaultConfig(monitorName))
	client, err := mongodb.NewProductionClient(ctx, config, m, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer client.Close(context.Background())

	store := mongostore.NewStore(client, cloudevents.NewEventFactory("/"+monitorName))
	// Verification only reads, so an in-process lock is enough
	ledger := application.NewLedgerService(store, memory.NewLocker(), m, logger)

	if *interval <= 0 && !*watch {
		drifts, err := check(ctx, ledger, os.Stdout)
		if err != nil {
			logger.WithError(err).Error("Stock verification failed")
			os.Exit(1)
		}
		if drifts > 0 {
			os.Exit(2)
		}
		return
	}

	triggers := make(chan struct{}, 1)
	if *watch {
		kafkaConfig := kafka.DefaultConfig()
		kafkaConfig.ConsumerGroup = monitorName
		if brokers := kafka.ParseBrokers(os.Getenv("KAFKA_BROKERS")); len(brokers) > 0 {
			kafkaConfig.Brokers = brokers
		}

		consumer := kafka.NewConsumer(kafkaConfig, logger)
		defer consumer.Close()
		topic := kafka.TopicForEvent(cloudevents.StockAdjusted)
		consumer.Subscribe(topic, cloudevents.StockAdjusted,
			kafka.InstrumentHandler(topic, kafkaConfig.ConsumerGroup, logger, triggerOn(triggers)))
		go func() {
			if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
				logger.WithError(err).Error("Consumer stopped")
			}
		}()
		logger.Info("Watching stock events", "topic", topic, "brokers", kafkaConfig.Brokers)
	}

	run(ctx, ledger, triggers, *interval, logger)
}

// triggerOn requests a re-check without blocking the consumer. Bursts of
// events collapse into one pending check.
func triggerOn(triggers chan<- struct{}) kafka.EventHandler {
	return func(context.Context, *cloudevents.Event) error {
		select {
		case triggers <- struct{}{}:
		default:
		}
		return nil
	}
}

// run checks once, then again on every tick or trigger until ctx is done
func run(ctx context.Context, ledger *application.LedgerService, triggers <-chan struct{}, every time.Duration, logger *logging.Logger) {
	var tick <-chan time.Time
	if every > 0 {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if _, err := check(ctx, ledger, os.Stdout); err != nil {
			logger.WithError(err).Error("Stock verification failed")
		}

		select {
		case <-ctx.Done():
			logger.Info("Monitor stopped")
			return
		case <-tick:
		case <-triggers:
		}
	}
}

// check prints a drift report and returns the number of drifted items
func check(ctx context.Context, ledger *application.LedgerService, out io.Writer) (int, error) {
	drifts, err := ledger.VerifyStock(ctx)
	if err != nil {
		return 0, err
	}
	printReport(out, drifts, *limit)
	return len(drifts), nil
}

func printReport(out io.Writer, drifts []application.StockDriftDTO, max int) {
	fmt.Fprintf(out, "\n=== Stock verification %s ===\n", time.Now().UTC().Format(time.RFC3339))
	if len(drifts) == 0 {
		fmt.Fprintln(out, "OK: every item's stock matches its history")
		return
	}

	fmt.Fprintf(out, "DRIFT: %d items differ from their history\n\n", len(drifts))
	fmt.Fprintln(out, "Item ID                               Name                      Stock       Expected    Drift")
	fmt.Fprintln(out, "------------------------------------  ------------------------  ----------  ----------  ----------")
	for i, d := range drifts {
		if i == max {
			fmt.Fprintf(out, "... %d more\n", len(drifts)-max)
			break
		}
		fmt.Fprintf(out, "%-36s  %-24.24s  %10s  %10s  %10s\n",
			d.ItemID,
			d.ItemName,
			domain.FormatQuantity(d.Stock),
			domain.FormatQuantity(d.Expected),
			domain.FormatQuantity(d.Drift),
		)
	}
}
