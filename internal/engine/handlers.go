package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/chopperdaddy/punks-indexer/internal/domain"
	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
	"github.com/chopperdaddy/punks-indexer/internal/types"
)

// handleClaim processes the initial mint of a punk to its claimer
func (e *Engine) handleClaim(ctx context.Context, ev *domain.MarketEvent) error {
	st, err := e.currentState(ctx, ev.Timestamp)
	if err != nil {
		return err
	}

	if err := e.transferOwnership(ctx, st, ev.PunkID, ev.From(), ev.To()); err != nil {
		return err
	}

	if _, err := e.appendEvent(ctx, ev, schema.EventTypeClaimed, nil, types.StringPtr(ev.To()), decimal.Zero); err != nil {
		return err
	}

	return e.store.SaveState(ctx, st)
}

// handleRawTransfer records the ERC-style Transfer log for later correlation.
// The log carries no punk index, so nothing else can be derived from it yet.
func (e *Engine) handleRawTransfer(ctx context.Context, ev *domain.MarketEvent) error {
	return e.store.SaveTransfer(ctx, &schema.Transfer{
		ID:          ev.TxHash,
		FromAddress: ev.From(),
		ToAddress:   ev.To(),
	})
}

// handleAssetTransfer processes the marketplace's own PunkTransfer event:
// classifies it against the wrapper address, invalidates the listing (and the
// bid, when the punk lands with the bidder), and moves ownership.
func (e *Engine) handleAssetTransfer(ctx context.Context, ev *domain.MarketEvent) error {
	st, err := e.currentState(ctx, ev.Timestamp)
	if err != nil {
		return err
	}

	from, to := ev.From(), ev.To()

	typ := schema.EventTypeTransferred
	switch {
	case domain.SameAddress(to, e.wrapper):
		typ = schema.EventTypeWrapped
	case domain.SameAddress(from, e.wrapper):
		typ = schema.EventTypeUnwrapped
	}

	if err := e.closeListing(ctx, ev.PunkID); err != nil {
		return err
	}

	bid, err := e.store.GetBid(ctx, ev.PunkID)
	if err != nil {
		return err
	}
	if bid != nil && domain.SameAddress(bid.FromAddress, to) {
		// the punk just moved to the standing bidder, the bid is moot
		if err := e.closeBid(ctx, ev.PunkID); err != nil {
			return err
		}
	}

	if err := e.transferOwnership(ctx, st, ev.PunkID, from, to); err != nil {
		return err
	}

	st.RemoveActiveListing(ev.PunkID)
	if err := e.recomputeFloor(ctx, st); err != nil {
		return err
	}

	if _, err := e.appendEvent(ctx, ev, typ, &from, &to, ev.Amount()); err != nil {
		return err
	}

	return e.store.SaveState(ctx, st)
}

// handleOffer processes a new or replaced listing. A non-zero restricted
// buyer makes the listing private; public asks below the current floor lower
// it directly without a full recompute.
func (e *Engine) handleOffer(ctx context.Context, ev *domain.MarketEvent) error {
	st, err := e.currentState(ctx, ev.Timestamp)
	if err != nil {
		return err
	}

	value := ev.Amount()
	from := ev.From()

	var restricted *string
	private := false
	if ev.ToAddress != nil && !domain.IsZeroAddress(*ev.ToAddress) {
		restricted = types.StringPtr(domain.NormalizeAddress(*ev.ToAddress))
		private = true
	}

	if err := e.openListing(ctx, ev, value, restricted, private); err != nil {
		return err
	}

	st.AddActiveListing(ev.PunkID)
	if !private && value.Sign() > 0 && value.LessThan(st.Floor) {
		st.Floor = value
	}
	st.Listings++

	if _, err := e.appendEvent(ctx, ev, schema.EventTypeOffered, &from, restricted, value); err != nil {
		return err
	}

	return e.store.SaveState(ctx, st)
}

// handleBidEntered processes a new or replaced bid
func (e *Engine) handleBidEntered(ctx context.Context, ev *domain.MarketEvent) error {
	st, err := e.currentState(ctx, ev.Timestamp)
	if err != nil {
		return err
	}

	value := ev.Amount()
	from := ev.From()

	if err := e.openBid(ctx, ev, value); err != nil {
		return err
	}

	record, err := e.appendEvent(ctx, ev, schema.EventTypeBidEntered, &from, nil, value)
	if err != nil {
		return err
	}
	if err := e.considerBid(ctx, st, record.ID, value); err != nil {
		return err
	}
	st.Bids++

	return e.store.SaveState(ctx, st)
}

// handleBidWithdrawn removes the standing bid. The bid counter is a
// per-bucket activity count; withdrawals are not subtracted from it.
func (e *Engine) handleBidWithdrawn(ctx context.Context, ev *domain.MarketEvent) error {
	st, err := e.currentState(ctx, ev.Timestamp)
	if err != nil {
		return err
	}

	if err := e.closeBid(ctx, ev.PunkID); err != nil {
		return err
	}

	from := ev.From()
	if _, err := e.appendEvent(ctx, ev, schema.EventTypeBidWithdrawn, &from, nil, ev.Amount()); err != nil {
		return err
	}

	return e.store.SaveState(ctx, st)
}

// handleBought processes a completed sale. The marketplace contract reports a
// zero buyer and zero value for bid-accepted sales (the bid struct is cleared
// before the event fires); the true buyer and value are recovered from the
// standing bid. A sale with neither a standing bid nor a positive value is
// non-economic and leaves no event or counters behind.
func (e *Engine) handleBought(ctx context.Context, ev *domain.MarketEvent) error {
	st, err := e.currentState(ctx, ev.Timestamp)
	if err != nil {
		return err
	}

	bid, err := e.store.GetBid(ctx, ev.PunkID)
	if err != nil {
		return err
	}

	seller := ev.From()
	buyer := ev.To()
	value := ev.Amount()

	fromBid := false
	if domain.IsZeroAddress(buyer) && bid != nil {
		buyer = bid.FromAddress
		value = bid.Value
		fromBid = true
	}

	if err := e.closeListing(ctx, ev.PunkID); err != nil {
		return err
	}
	if bid != nil && (fromBid || domain.SameAddress(buyer, bid.FromAddress)) {
		if err := e.closeBid(ctx, ev.PunkID); err != nil {
			return err
		}
	}

	if err := e.transferOwnership(ctx, st, ev.PunkID, seller, buyer); err != nil {
		return err
	}

	st.RemoveActiveListing(ev.PunkID)
	if err := e.recomputeFloor(ctx, st); err != nil {
		return err
	}

	if bid != nil || value.Sign() > 0 {
		record, err := e.appendEvent(ctx, ev, schema.EventTypeSale, &seller, &buyer, value)
		if err != nil {
			return err
		}
		if err := e.considerSale(ctx, st, record.ID, value); err != nil {
			return err
		}
		st.Sales++
		st.Volume = st.Volume.Add(value)
		st.USD = st.USD.Add(record.USD)
	}

	return e.store.SaveState(ctx, st)
}

// handleNoLongerForSale processes a delisting. When a raw Transfer was
// recorded earlier in the same transaction the delisting is the tail end of a
// bid-accepted sale: the listing closes silently, the transfer record gets its
// punk id resolved, and no withdrawal is counted - the Bought event later in
// the transaction records the sale itself.
func (e *Engine) handleNoLongerForSale(ctx context.Context, ev *domain.MarketEvent) error {
	st, err := e.currentState(ctx, ev.Timestamp)
	if err != nil {
		return err
	}

	transfer, err := e.store.GetTransfer(ctx, ev.TxHash)
	if err != nil {
		return err
	}

	if err := e.closeListing(ctx, ev.PunkID); err != nil {
		return err
	}
	st.RemoveActiveListing(ev.PunkID)
	if err := e.recomputeFloor(ctx, st); err != nil {
		return err
	}

	if transfer != nil {
		// Resolve the punk on the correlation record. The standing bid is left
		// alone: the Bought event later in this transaction needs it to recover
		// the true buyer, and closes it then.
		transfer.PunkID = types.StringPtr(ev.PunkID)
		if err := e.store.SaveTransfer(ctx, transfer); err != nil {
			return err
		}
	} else {
		var from *string
		if ev.FromAddress != nil {
			from = types.StringPtr(ev.From())
		}
		if _, err := e.appendEvent(ctx, ev, schema.EventTypeOfferWithdrawn, from, nil, decimal.Zero); err != nil {
			return err
		}
		st.Delistings++
	}

	return e.store.SaveState(ctx, st)
}
