package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
)

// considerBid challenges the snapshot's top bid with a freshly logged bid event
func (e *Engine) considerBid(ctx context.Context, st *schema.State, candidateID string, value decimal.Decimal) error {
	top, err := e.challengeTop(ctx, st.TopBidID, candidateID, value)
	if err != nil {
		return err
	}
	st.TopBidID = top
	return nil
}

// considerSale challenges the snapshot's top sale with a freshly logged sale event
func (e *Engine) considerSale(ctx context.Context, st *schema.State, candidateID string, value decimal.Decimal) error {
	top, err := e.challengeTop(ctx, st.TopSaleID, candidateID, value)
	if err != nil {
		return err
	}
	st.TopSaleID = top
	return nil
}

// challengeTop decides whether a candidate event replaces the current top
// reference. A missing top, or a top whose recorded value is not strictly
// positive, always loses. Otherwise the candidate wins only on a strictly
// greater value: ties keep the incumbent, so the first event to reach a value
// holds the rank.
func (e *Engine) challengeTop(ctx context.Context, currentID *string, candidateID string, value decimal.Decimal) (*string, error) {
	if currentID == nil {
		return &candidateID, nil
	}

	top, err := e.store.GetEvent(ctx, *currentID)
	if err != nil {
		return currentID, err
	}
	if top == nil || top.Value.Sign() <= 0 {
		return &candidateID, nil
	}
	if value.GreaterThan(top.Value) {
		return &candidateID, nil
	}

	return currentID, nil
}
