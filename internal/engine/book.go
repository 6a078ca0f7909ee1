package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/chopperdaddy/punks-indexer/internal/domain"
	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
)

// openListing creates or overwrites the listing for the event's punk. The
// listing id equals the punk id, so a repeated offer replaces the old ask.
func (e *Engine) openListing(ctx context.Context, ev *domain.MarketEvent, value decimal.Decimal, restricted *string, private bool) error {
	listing := &schema.Listing{
		ID:             ev.PunkID,
		PunkID:         ev.PunkID,
		Value:          value,
		USD:            e.usdEquivalent(ctx, ev, value),
		FromAddress:    ev.From(),
		ToAddress:      restricted,
		IsPrivate:      private,
		BlockNumber:    ev.BlockNumber,
		BlockTimestamp: ev.Timestamp,
		TxHash:         ev.TxHash,
	}
	return e.store.SaveListing(ctx, listing)
}

// closeListing deletes the listing for a punk; closing an absent listing is a no-op
func (e *Engine) closeListing(ctx context.Context, punkID string) error {
	return e.store.DeleteListing(ctx, punkID)
}

// openBid creates or overwrites the standing bid for the event's punk.
// The last bid wins regardless of value; no bid history is retained.
func (e *Engine) openBid(ctx context.Context, ev *domain.MarketEvent, value decimal.Decimal) error {
	bid := &schema.Bid{
		ID:             ev.PunkID,
		PunkID:         ev.PunkID,
		Value:          value,
		USD:            e.usdEquivalent(ctx, ev, value),
		FromAddress:    ev.From(),
		BlockNumber:    ev.BlockNumber,
		BlockTimestamp: ev.Timestamp,
		TxHash:         ev.TxHash,
	}
	return e.store.SaveBid(ctx, bid)
}

// closeBid deletes the standing bid for a punk; closing an absent bid is a no-op
func (e *Engine) closeBid(ctx context.Context, punkID string) error {
	return e.store.DeleteBid(ctx, punkID)
}
