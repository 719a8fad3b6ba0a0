package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ledgerline/inventory-core/pkg/cloudevents"
	"github.com/ledgerline/inventory-core/pkg/idempotency"
	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/metrics"
	"github.com/ledgerline/inventory-core/pkg/mongodb"

	"github.com/ledgerline/inventory-core/internal/application"
	"github.com/ledgerline/inventory-core/internal/domain"
	mongostore "github.com/ledgerline/inventory-core/internal/infrastructure/mongodb"
)

// Schema tool: creates the store, outbox and idempotency indexes and seeds
// the reference data a fresh installation needs

var (
	mongoURI = flag.String("mongo-uri", "", "MongoDB connection URI (default MONGODB_URI)")
	dbName   = flag.String("db", "", "Database name (default MONGODB_DATABASE)")
	dryRun   = flag.Bool("dry-run", true, "Report what would change without writing")
	seed     = flag.Bool("seed", false, "Seed default currency, payment types and settings")
)

// seedSettings are added on every seeding run
var seedSettings = []application.SettingOptionCommand{
	{Category: string(domain.SettingMeasureUnit), Name: "Piece", Symbol: "pc"},
	{Category: string(domain.SettingMeasureUnit), Name: "Box", Symbol: "box"},
	{Category: string(domain.SettingMeasureUnit), Name: "Kilogram", Symbol: "kg"},
	{Category: string(domain.SettingProductCategory), Name: "General"},
}

var seedPaymentTypes = []string{"Cash", "Bank Transfer", "Credit"}

func main() {
	_ = godotenv.Load()
	flag.Parse()

	logger := logging.New(logging.DefaultConfig("inventory-core-migrate"))

	config := mongodb.ConfigFromEnv()
	if *mongoURI != "" {
		config.URI = *mongoURI
	}
	if *dbName != "" {
		config.Database = *dbName
	}

	logger.Info("Starting schema migration", "database", config.Database, "dryRun", *dryRun, "seed", *seed)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	m := metrics.New(metrics.DefaultConfig("inventory-core-migrate"))
	client, err := mongodb.NewProductionClient(ctx, config, m, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer client.Close(context.Background())

	store := mongostore.NewStore(client, cloudevents.NewEventFactory("/inventory-core-migrate"))
	if err := migrate(ctx, store, idempotency.NewMongoKeyRepository(client.Database()), logger); err != nil {
		logger.WithError(err).Error("Migration failed")
		os.Exit(1)
	}

	logger.Info("Migration completed")
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func migrate(ctx context.Context, store *mongostore.Store, keys indexer, logger *logging.Logger) error {
	if *dryRun {
		logger.Info("Dry run: would ensure indexes on store, outbox and idempotency collections")
	} else {
		if err := store.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to ensure store indexes: %w", err)
		}
		if err := keys.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to ensure idempotency indexes: %w", err)
		}
		logger.Info("Indexes ensured")
	}

	if !*seed {
		return nil
	}
	return seedReferenceData(ctx, store, application.NewCatalogService(store, logger), *dryRun, logger)
}

// seedReferenceData fills empty reference collections. Collections that
// already hold records are left untouched.
func seedReferenceData(ctx context.Context, store domain.Store, catalog *application.CatalogService, dryRun bool, logger *logging.Logger) error {
	currencies, err := store.Currencies().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list currencies: %w", err)
	}
	if len(currencies) == 0 {
		logger.Info("Seeding default currency", "code", "USD", "dryRun", dryRun)
		if !dryRun {
			if _, err := catalog.CreateCurrency(ctx, application.CurrencyCommand{
				Code: "USD", Name: "US Dollar", Symbol: "$", Digits: 2, Rate: 1, IsDefault: true,
			}); err != nil {
				return err
			}
		}
	}

	paymentTypes, err := store.PaymentTypes().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list payment types: %w", err)
	}
	if len(paymentTypes) == 0 {
		for _, name := range seedPaymentTypes {
			logger.Info("Seeding payment type", "name", name, "dryRun", dryRun)
			if dryRun {
				continue
			}
			if _, err := catalog.CreatePaymentType(ctx, application.PaymentTypeCommand{Name: name}); err != nil {
				return err
			}
		}
	}

	// Adding an existing option returns it unchanged, so these always run
	for _, option := range seedSettings {
		logger.Info("Seeding setting", "category", option.Category, "name", option.Name, "dryRun", dryRun)
		if dryRun {
			continue
		}
		if _, err := catalog.AddSettingOption(ctx, option); err != nil {
			return err
		}
	}
	return nil
}
