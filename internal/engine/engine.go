// Package engine is the state-aggregation core: it applies decoded
// marketplace events, one at a time and in chain order, to the persisted
// per-punk and aggregate entities.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/chopperdaddy/punks-indexer/internal/bucket"
	"github.com/chopperdaddy/punks-indexer/internal/domain"
	"github.com/chopperdaddy/punks-indexer/internal/logger"
	"github.com/chopperdaddy/punks-indexer/internal/oracle"
	"github.com/chopperdaddy/punks-indexer/internal/store"
	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
)

// weiPerETH converts wei amounts to ETH for USD valuation
var weiPerETH = decimal.New(1, 18)

// Config holds engine configuration
type Config struct {
	// WrapperAddress is the wrapping contract; transfers to/from it are
	// classified as wrap/unwrap rather than ordinary transfers
	WrapperAddress string
	// BucketWidth is the aggregation window for snapshots
	BucketWidth time.Duration
}

// Engine applies marketplace events to persisted state. It is single-writer
// by contract: Process must be called for one event at a time, in ascending
// (block number, log index) order.
type Engine struct {
	store       store.Store
	oracle      oracle.Oracle
	wrapper     string
	bucketWidth time.Duration
}

// New creates an engine on top of the given store and price oracle
func New(st store.Store, orc oracle.Oracle, cfg Config) *Engine {
	wrapper := cfg.WrapperAddress
	if wrapper == "" {
		wrapper = domain.DefaultWrapperAddress
	}
	width := cfg.BucketWidth
	if width <= 0 {
		width = bucket.DefaultWidth
	}

	return &Engine{
		store:       st,
		oracle:      orc,
		wrapper:     domain.NormalizeAddress(wrapper),
		bucketWidth: width,
	}
}

// Process applies one decoded event atomically: every read and write runs in
// a single database transaction, so a failed event rolls back to a clean
// slate and redelivery starts over. Events whose log record already exists
// are skipped, keeping at-least-once delivery safe when an acknowledgment is
// lost after a successful apply.
func (e *Engine) Process(ctx context.Context, ev *domain.MarketEvent) error {
	return e.store.Transaction(ctx, func(st store.Store) error {
		applied, err := st.GetEvent(ctx, ev.EventID())
		if err != nil {
			return err
		}
		if applied != nil {
			logger.Debug("skipping already applied event",
				zap.String("id", ev.EventID()),
				zap.String("kind", string(ev.Kind)))
			return nil
		}

		tx := &Engine{
			store:       st,
			oracle:      e.oracle,
			wrapper:     e.wrapper,
			bucketWidth: e.bucketWidth,
		}
		return tx.apply(ctx, ev)
	})
}

// apply routes one decoded event to its handler. All entity reads, mutations,
// and writes complete before apply returns; the only errors are persistence
// failures, which the caller may retry by redelivering the event.
func (e *Engine) apply(ctx context.Context, ev *domain.MarketEvent) error {
	switch ev.Kind {
	case domain.KindClaim:
		return e.handleClaim(ctx, ev)
	case domain.KindRawTransfer:
		return e.handleRawTransfer(ctx, ev)
	case domain.KindAssetTransfer:
		return e.handleAssetTransfer(ctx, ev)
	case domain.KindOffer:
		return e.handleOffer(ctx, ev)
	case domain.KindBidEntered:
		return e.handleBidEntered(ctx, ev)
	case domain.KindBidWithdrawn:
		return e.handleBidWithdrawn(ctx, ev)
	case domain.KindBought:
		return e.handleBought(ctx, ev)
	case domain.KindNoLongerForSale:
		return e.handleNoLongerForSale(ctx, ev)
	default:
		return fmt.Errorf("unknown event kind: %s", ev.Kind)
	}
}

// getOrCreateAccount loads an account or constructs a default one with an
// empty held set. The account is not persisted until a mutation saves it.
func (e *Engine) getOrCreateAccount(ctx context.Context, address string) (*schema.Account, error) {
	account, err := e.store.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}
	return &schema.Account{
		Address: address,
		Punks:   datatypes.JSONSlice[string]{},
	}, nil
}

// getOrCreatePunk loads a punk or constructs a default, unowned one
func (e *Engine) getOrCreatePunk(ctx context.Context, id string) (*schema.Punk, error) {
	punk, err := e.store.GetPunk(ctx, id)
	if err != nil {
		return nil, err
	}
	if punk != nil {
		return punk, nil
	}
	return &schema.Punk{
		ID:    id,
		Owner: domain.ZeroAddress,
	}, nil
}

// usdEquivalent values a wei amount in USD at the event's block. A failed or
// empty price lookup yields zero; valuation never fails event processing.
func (e *Engine) usdEquivalent(ctx context.Context, ev *domain.MarketEvent, value decimal.Decimal) decimal.Decimal {
	if value.Sign() <= 0 {
		return decimal.Zero
	}

	price, err := e.oracle.USDPrice(ctx, ev.Timestamp, ev.BlockNumber)
	if err != nil {
		logger.Warn("usd price lookup failed",
			zap.String("txHash", ev.TxHash),
			zap.Uint64("blockNumber", ev.BlockNumber),
			zap.Error(err))
		return decimal.Zero
	}

	return value.Mul(price).Div(weiPerETH)
}

// appendEvent writes one row to the append-only event log and returns it
func (e *Engine) appendEvent(
	ctx context.Context,
	ev *domain.MarketEvent,
	typ schema.EventType,
	from, to *string,
	value decimal.Decimal,
) (*schema.Event, error) {
	record := &schema.Event{
		ID:             ev.EventID(),
		TxHash:         ev.TxHash,
		Type:           typ,
		PunkID:         ev.PunkID,
		FromAddress:    from,
		ToAddress:      to,
		Value:          value,
		USD:            e.usdEquivalent(ctx, ev, value),
		BlockNumber:    ev.BlockNumber,
		BlockTimestamp: ev.Timestamp,
	}

	if err := e.store.SaveEvent(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
