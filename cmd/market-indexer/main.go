package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chopperdaddy/punks-indexer/internal/adapter"
	"github.com/chopperdaddy/punks-indexer/internal/bridge"
	"github.com/chopperdaddy/punks-indexer/internal/config"
	"github.com/chopperdaddy/punks-indexer/internal/engine"
	"github.com/chopperdaddy/punks-indexer/internal/logger"
	"github.com/chopperdaddy/punks-indexer/internal/metrics"
	"github.com/chopperdaddy/punks-indexer/internal/oracle"
	"github.com/chopperdaddy/punks-indexer/internal/store"
	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
)

var (
	configPath = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "", "Path to the directory holding .env files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadIndexerConfig(*configPath, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags:      map[string]string{"service": "market-indexer"},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting Market Indexer")

	// Connect to database, retrying while it comes up
	db, err := connectDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("host", cfg.Database.Host))

	if err := db.AutoMigrate(schema.AllModels()...); err != nil {
		logger.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// Initialize store and oracle
	dataStore := store.New(db)
	priceOracle, err := buildOracle(cfg, db)
	if err != nil {
		logger.Fatal("Failed to build price oracle", zap.Error(err))
	}

	// Initialize engine
	eng := engine.New(dataStore, priceOracle, engine.Config{
		WrapperAddress: cfg.Market.WrapperAddress,
		BucketWidth:    cfg.Market.BucketWidth,
	})

	// Create bridge
	eventBridge, err := bridge.NewBridge(
		bridge.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			ConsumerName:   cfg.NATS.ConsumerName,
			Subject:        cfg.NATS.Subject,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
			AckWaitTimeout: cfg.NATS.AckWait,
			MaxDeliver:     cfg.NATS.MaxDeliver,
		},
		adapter.NewNatsJetStream(),
		eng,
		dataStore,
		adapter.NewJSON(),
	)
	if err != nil {
		logger.Fatal("Failed to create event bridge", zap.Error(err))
	}
	defer eventBridge.Close()
	logger.Info("Event bridge created",
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("consumer", cfg.NATS.ConsumerName))

	// Serve Prometheus metrics
	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Addr); err != nil {
				logger.Error(err, zap.String("component", "metrics"))
			}
		}()
		logger.Info("Metrics endpoint up", zap.String("addr", cfg.Metrics.Addr))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel for bridge errors
	errCh := make(chan error, 1)

	// Start the bridge
	go func() {
		if err := eventBridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.Error(err, zap.String("component", "bridge"))
		cancel()
	}

	// Give some time for graceful shutdown
	time.Sleep(time.Second)

	logger.Info("Market Indexer stopped")
}

// connectDatabase opens the postgres connection with exponential backoff so a
// restart does not race the database coming up
func connectDatabase(cfg *config.IndexerConfig) (*gorm.DB, error) {
	var db *gorm.DB

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 2 * time.Minute

	operation := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
		return err
	}
	if err := backoff.Retry(operation, b); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	return db, nil
}

// buildOracle selects the price oracle implementation from configuration
func buildOracle(cfg *config.IndexerConfig, db *gorm.DB) (oracle.Oracle, error) {
	switch cfg.Oracle.Mode {
	case "", "database":
		return oracle.NewGorm(db), nil
	case "fixed":
		price := decimal.Zero
		if cfg.Oracle.FixedPrice != "" {
			var err error
			price, err = decimal.NewFromString(cfg.Oracle.FixedPrice)
			if err != nil {
				return nil, fmt.Errorf("invalid fixed oracle price %q: %w", cfg.Oracle.FixedPrice, err)
			}
		}
		return oracle.NewFixed(price), nil
	default:
		return nil, fmt.Errorf("unknown oracle mode: %s", cfg.Oracle.Mode)
	}
}
