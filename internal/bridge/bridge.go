// Package bridge connects the NATS JetStream intake to the aggregation
// engine. Delivery order is load-bearing: events must reach the engine in
// ascending (block number, log index) order, so the bridge pulls one message
// at a time and processes it to completion before asking for the next.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/chopperdaddy/punks-indexer/internal/adapter"
	"github.com/chopperdaddy/punks-indexer/internal/domain"
	"github.com/chopperdaddy/punks-indexer/internal/engine"
	"github.com/chopperdaddy/punks-indexer/internal/logger"
	"github.com/chopperdaddy/punks-indexer/internal/metrics"
	"github.com/chopperdaddy/punks-indexer/internal/store"
)

// Config holds the configuration for the event bridge
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	Subject        string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
}

// Bridge defines the interface for the event bridge
type Bridge interface {
	// Run starts consuming events; it blocks until the context is canceled
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

type bridge struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	engine *engine.Engine
	store  store.Store
	json   adapter.JSON
	config Config
}

// NewBridge connects to NATS and creates a bridge feeding the given engine
func NewBridge(
	cfg Config,
	natsJS adapter.NatsJetStream,
	eng *engine.Engine,
	st store.Store,
	jsonAdapter adapter.JSON,
) (Bridge, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &bridge{
		nc:     nc,
		js:     js,
		engine: eng,
		store:  st,
		json:   jsonAdapter,
		config: cfg,
	}, nil
}

// Run starts the event bridge
func (b *bridge) Run(ctx context.Context) error {
	logger.Info("Starting event bridge",
		zap.String("stream", b.config.StreamName),
		zap.String("consumer", b.config.ConsumerName))

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		FilterSubject: b.config.Subject,
		// One unacknowledged message at a time: the server may not deliver
		// the next event until the current one is settled
		MaxAckPending: 1,
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	it, err := consumer.Messages()
	if err != nil {
		return fmt.Errorf("failed to open message iterator: %w", err)
	}

	// Stop the iterator when the context ends so Next unblocks
	go func() {
		<-ctx.Done()
		it.Stop()
	}()

	logger.Info("Started consuming messages")

	for {
		msg, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, jetstream.ErrMsgIteratorClosed) {
				logger.Info("Shutting down event bridge")
				return ctx.Err()
			}
			return fmt.Errorf("message iterator failed: %w", err)
		}

		// Processed inline, never in a goroutine: the next message must not
		// be touched before this one is fully applied
		b.handleMessage(ctx, msg)
	}
}

// handleMessage applies a single NATS message to the engine and settles it:
// Ack after a successful apply, Nak on a persistence failure so the server
// redelivers, Term on payloads that can never succeed.
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) {
	metadata, _ := msg.Metadata()

	var event domain.MarketEvent
	if err := b.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal event"))
		metrics.EventsTerminated.Inc()
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	if !event.Valid() {
		logger.Warn("Dropping malformed event",
			zap.String("kind", string(event.Kind)),
			zap.String("txHash", event.TxHash))
		metrics.EventsTerminated.Inc()
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	deliveries := uint64(1)
	if metadata != nil {
		deliveries = metadata.NumDelivered
	}
	logger.Debug("Received event",
		zap.String("kind", string(event.Kind)),
		zap.String("punkID", event.PunkID),
		zap.String("txHash", event.TxHash),
		zap.Uint64("blockNumber", event.BlockNumber),
		zap.Uint64("deliveryCount", deliveries),
	)

	start := time.Now()
	if err := b.engine.Process(ctx, &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to process event"),
			zap.String("kind", string(event.Kind)),
			zap.String("txHash", event.TxHash))
		metrics.EventsFailed.Inc()
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to NAK message"))
		}
		return
	}
	metrics.ProcessDuration.Observe(time.Since(start).Seconds())
	metrics.EventsProcessed.WithLabelValues(string(event.Kind)).Inc()
	metrics.ProcessedBlock.Set(float64(event.BlockNumber))

	if err := b.store.SetProcessedCursor(ctx, event.BlockNumber); err != nil {
		// The event itself is applied and idempotent on replay; a stale
		// cursor only widens the replay window, so the message is still acked
		logger.Error(err, zap.String("message", "Failed to advance processed cursor"))
	}

	if err := msg.Ack(); err != nil {
		logger.Error(err, zap.String("message", "Failed to ACK message"))
	}
}

// Close closes the bridge and cleans up resources
func (b *bridge) Close() {
	if b.nc == nil {
		return
	}

	b.nc.Close()
}
