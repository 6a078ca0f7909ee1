// Package messaging defines the broker-facing interfaces of the indexer.
package messaging

import (
	"context"

	"github.com/chopperdaddy/punks-indexer/internal/domain"
)

// Publisher defines the interface for publishing decoded marketplace events
// to the message broker
type Publisher interface {
	// PublishEvent publishes one event; events must be published in ascending
	// (block number, log index) order
	PublishEvent(ctx context.Context, event *domain.MarketEvent) error
	// Close closes the connection
	Close()
}
