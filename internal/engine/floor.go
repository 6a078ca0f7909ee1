package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/chopperdaddy/punks-indexer/internal/bucket"
	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
)

// floorSampleSize is the minimum number of active listings required before the
// floor is computed from the market itself; below it the previous bucket's
// floor is carried so a thin market cannot dominate the number.
const floorSampleSize = 5

// recomputeFloor derives the marketplace floor from the snapshot's active
// listings: the minimum strictly positive ask among listings that still
// exist. With fewer than floorSampleSize active listings the floor falls back
// to the immediately preceding bucket's floor, or zero when that bucket has no
// snapshot. Runs after every listing removal and ownership-driven
// invalidation; listing creation uses a direct lowering fast path instead.
func (e *Engine) recomputeFloor(ctx context.Context, st *schema.State) error {
	if len(st.ActiveListings) < floorSampleSize {
		prev, err := e.store.GetState(ctx, bucket.ID(st.Timestamp, e.bucketWidth, 1))
		if err != nil {
			return err
		}
		if prev != nil {
			st.Floor = prev.Floor
		} else {
			st.Floor = decimal.Zero
		}
		return nil
	}

	floor := decimal.Zero
	for _, id := range st.ActiveListings {
		listing, err := e.store.GetListing(ctx, id)
		if err != nil {
			return err
		}
		if listing == nil || listing.Value.Sign() <= 0 {
			continue
		}
		if floor.IsZero() || listing.Value.LessThan(floor) {
			floor = listing.Value
		}
	}
	st.Floor = floor

	return nil
}
