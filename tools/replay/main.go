// Command replay publishes decoded marketplace events from a JSONL file to
// NATS JetStream in file order. It is the backfill and development companion
// of the market-indexer: exported event dumps can be replayed into a fresh
// stream and the indexer rebuilds its state from them.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/chopperdaddy/punks-indexer/internal/adapter"
	"github.com/chopperdaddy/punks-indexer/internal/domain"
	"github.com/chopperdaddy/punks-indexer/internal/logger"
	"github.com/chopperdaddy/punks-indexer/internal/providers/jetstream"
)

var (
	filePath      = flag.String("file", "", "Path to the JSONL file of decoded events")
	natsURL       = flag.String("nats-url", "nats://localhost:4222", "NATS server URL")
	streamName    = flag.String("stream", "MARKET_EVENTS", "JetStream stream name")
	subjectPrefix = flag.String("subject-prefix", "market.events", "Subject prefix for published events")
	rate          = flag.Duration("rate", 0, "Optional delay between events, e.g. 10ms")
	debug         = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -file events.jsonl [-nats-url ...] [-stream ...]")
		os.Exit(2)
	}

	if err := logger.Initialize(logger.Config{Debug: *debug}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	if err := run(); err != nil {
		logger.Fatal("Replay failed", zap.Error(err))
	}
}

func run() error {
	file, err := os.Open(*filePath)
	if err != nil {
		return fmt.Errorf("failed to open events file: %w", err)
	}
	defer func() { _ = file.Close() }()

	jsonAdapter := adapter.NewJSON()
	publisher, err := jetstream.NewPublisher(jetstream.Config{
		URL:            *natsURL,
		StreamName:     *streamName,
		SubjectPrefix:  *subjectPrefix,
		MaxReconnects:  10,
		ReconnectWait:  2 * time.Second,
		ConnectionName: "replay",
	}, adapter.NewNatsJetStream(), jsonAdapter)
	if err != nil {
		return err
	}
	defer publisher.Close()

	ctx := context.Background()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var line, published, skipped int
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var event domain.MarketEvent
		if err := jsonAdapter.Unmarshal(raw, &event); err != nil {
			logger.Warn("Skipping unparseable line", zap.Int("line", line), zap.Error(err))
			skipped++
			continue
		}
		if !event.Valid() {
			logger.Warn("Skipping invalid event",
				zap.Int("line", line),
				zap.String("kind", string(event.Kind)),
				zap.String("txHash", event.TxHash))
			skipped++
			continue
		}

		// File order is publish order; the indexer depends on it
		if err := publisher.PublishEvent(ctx, &event); err != nil {
			return fmt.Errorf("failed to publish line %d: %w", line, err)
		}
		published++

		if *rate > 0 {
			time.Sleep(*rate)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read events file: %w", err)
	}

	logger.Info("Replay finished",
		zap.Int("published", published),
		zap.Int("skipped", skipped))
	return nil
}
