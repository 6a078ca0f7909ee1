package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/chopperdaddy/punks-indexer/internal/bucket"
	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
)

// carryForwardCap bounds the backward search for a predecessor snapshot.
// Buckets older than this are not consulted; a gap that long starts fresh.
const carryForwardCap = 30

// currentState returns the aggregate snapshot for the event's time bucket,
// creating it on first touch. A new snapshot starts with zeroed period
// counters and copies the distinct-owner count and active-listing set forward
// from the nearest earlier snapshot, scanning back one bucket at a time up to
// carryForwardCap buckets. The search is a plain capped loop so its worst-case
// cost stays fixed.
func (e *Engine) currentState(ctx context.Context, ts time.Time) (*schema.State, error) {
	id := bucket.ID(ts, e.bucketWidth, 0)

	st, err := e.store.GetState(ctx, id)
	if err != nil {
		return nil, err
	}
	if st != nil {
		return st, nil
	}

	st = &schema.State{
		ID:             id,
		Timestamp:      ts,
		Floor:          decimal.Zero,
		Volume:         decimal.Zero,
		USD:            decimal.Zero,
		ActiveListings: datatypes.JSONSlice[string]{},
	}

	for lookback := 1; lookback <= carryForwardCap; lookback++ {
		prev, err := e.store.GetState(ctx, bucket.ID(ts, e.bucketWidth, lookback))
		if err != nil {
			return nil, err
		}
		if prev == nil {
			continue
		}
		st.Owners = prev.Owners
		st.ActiveListings = append(datatypes.JSONSlice[string]{}, prev.ActiveListings...)
		break
	}

	if err := e.store.SaveState(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}
