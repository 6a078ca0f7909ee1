package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func buildTestListing(punkID, from, value string) *schema.Listing {
	return &schema.Listing{
		ID:             punkID,
		PunkID:         punkID,
		Value:          decimal.RequireFromString(value),
		USD:            decimal.Zero,
		FromAddress:    from,
		BlockNumber:    100,
		BlockTimestamp: time.Date(2022, 7, 1, 12, 0, 0, 0, time.UTC),
		TxHash:         "0xlisting",
	}
}

func buildTestBid(punkID, from, value string) *schema.Bid {
	return &schema.Bid{
		ID:             punkID,
		PunkID:         punkID,
		Value:          decimal.RequireFromString(value),
		USD:            decimal.Zero,
		FromAddress:    from,
		BlockNumber:    100,
		BlockTimestamp: time.Date(2022, 7, 1, 12, 0, 0, 0, time.UTC),
		TxHash:         "0xbid",
	}
}

func buildTestEvent(id string, typ schema.EventType, value string) *schema.Event {
	return &schema.Event{
		ID:             id,
		TxHash:         "0xevent",
		Type:           typ,
		PunkID:         "1",
		Value:          decimal.RequireFromString(value),
		USD:            decimal.Zero,
		BlockNumber:    100,
		BlockTimestamp: time.Date(2022, 7, 1, 12, 0, 0, 0, time.UTC),
	}
}

// =============================================================================
// Tests
// =============================================================================

func testAccounts(t *testing.T, store Store) {
	ctx := context.Background()

	// Absent account resolves to nil, not an error
	account, err := store.GetAccount(ctx, "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Nil(t, account)

	account = &schema.Account{
		Address: "0x1111111111111111111111111111111111111111",
		Punks:   datatypes.JSONSlice[string]{"1", "2"},
	}
	require.NoError(t, store.SaveAccount(ctx, account))

	got, err := store.GetAccount(ctx, account.Address)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Holds("1"))
	assert.True(t, got.Holds("2"))
	assert.False(t, got.Holds("3"))

	// Saving again replaces the held set
	got.Remove("1")
	got.Add("3")
	require.NoError(t, store.SaveAccount(ctx, got))

	got, err = store.GetAccount(ctx, account.Address)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Holds("1"))
	assert.True(t, got.Holds("3"))
	assert.Len(t, got.Punks, 2)
}

func testPunks(t *testing.T, store Store) {
	ctx := context.Background()

	punk, err := store.GetPunk(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, punk)

	punk = &schema.Punk{
		ID:    "1",
		Owner: "0x1111111111111111111111111111111111111111",
	}
	require.NoError(t, store.SavePunk(ctx, punk))

	punk.Owner = "0x2222222222222222222222222222222222222222"
	punk.Wrapped = true
	require.NoError(t, store.SavePunk(ctx, punk))

	got, err := store.GetPunk(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "0x2222222222222222222222222222222222222222", got.Owner)
	assert.True(t, got.Wrapped)
}

func testListings(t *testing.T, store Store) {
	ctx := context.Background()

	listing, err := store.GetListing(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, listing)

	require.NoError(t, store.SaveListing(ctx,
		buildTestListing("7", "0x1111111111111111111111111111111111111111", "1000")))

	// The listing id equals the punk id, so a new offer replaces the old ask
	require.NoError(t, store.SaveListing(ctx,
		buildTestListing("7", "0x1111111111111111111111111111111111111111", "500")))

	got, err := store.GetListing(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "500", got.Value.String())

	require.NoError(t, store.DeleteListing(ctx, "7"))
	got, err = store.GetListing(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting an absent listing is a no-op
	require.NoError(t, store.DeleteListing(ctx, "7"))
}

func testBids(t *testing.T, store Store) {
	ctx := context.Background()

	bid, err := store.GetBid(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, bid)

	require.NoError(t, store.SaveBid(ctx,
		buildTestBid("7", "0x1111111111111111111111111111111111111111", "800")))

	// The last bid wins, even when lower
	require.NoError(t, store.SaveBid(ctx,
		buildTestBid("7", "0x2222222222222222222222222222222222222222", "600")))

	got, err := store.GetBid(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "600", got.Value.String())
	assert.Equal(t, "0x2222222222222222222222222222222222222222", got.FromAddress)

	require.NoError(t, store.DeleteBid(ctx, "7"))
	got, err = store.GetBid(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.DeleteBid(ctx, "7"))
}

func testEventsAreWriteOnce(t *testing.T, store Store) {
	ctx := context.Background()

	event, err := store.GetEvent(ctx, "0xevent-0")
	require.NoError(t, err)
	assert.Nil(t, event)

	require.NoError(t, store.SaveEvent(ctx,
		buildTestEvent("0xevent-0", schema.EventTypeSale, "1000")))

	// A replayed id must not overwrite the original record
	require.NoError(t, store.SaveEvent(ctx,
		buildTestEvent("0xevent-0", schema.EventTypeOffered, "999")))

	got, err := store.GetEvent(ctx, "0xevent-0")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, schema.EventTypeSale, got.Type)
	assert.Equal(t, "1000", got.Value.String())
}

func testTransfers(t *testing.T, store Store) {
	ctx := context.Background()

	transfer, err := store.GetTransfer(ctx, "0xsale")
	require.NoError(t, err)
	assert.Nil(t, transfer)

	transfer = &schema.Transfer{
		ID:          "0xsale",
		FromAddress: "0x1111111111111111111111111111111111111111",
		ToAddress:   "0x2222222222222222222222222222222222222222",
	}
	require.NoError(t, store.SaveTransfer(ctx, transfer))

	got, err := store.GetTransfer(ctx, "0xsale")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.PunkID)

	// Correlation resolves the punk later in the transaction
	punkID := "7"
	got.PunkID = &punkID
	require.NoError(t, store.SaveTransfer(ctx, got))

	got, err = store.GetTransfer(ctx, "0xsale")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.PunkID)
	assert.Equal(t, "7", *got.PunkID)
}

func testStates(t *testing.T, store Store) {
	ctx := context.Background()

	state, err := store.GetState(ctx, "460188")
	require.NoError(t, err)
	assert.Nil(t, state)

	topBid := "0xevent-0"
	state = &schema.State{
		ID:             "460188",
		Timestamp:      time.Date(2022, 7, 1, 12, 30, 0, 0, time.UTC),
		Floor:          decimal.RequireFromString("50"),
		Volume:         decimal.RequireFromString("150"),
		USD:            decimal.RequireFromString("225000.5"),
		TopBidID:       &topBid,
		Bids:           3,
		Sales:          2,
		Listings:       4,
		Delistings:     1,
		Owners:         42,
		ActiveListings: datatypes.JSONSlice[string]{"1", "7"},
	}
	require.NoError(t, store.SaveState(ctx, state))

	got, err := store.GetState(ctx, "460188")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "50", got.Floor.String())
	assert.Equal(t, "150", got.Volume.String())
	assert.Equal(t, "225000.5", got.USD.String())
	require.NotNil(t, got.TopBidID)
	assert.Equal(t, topBid, *got.TopBidID)
	assert.Nil(t, got.TopSaleID)
	assert.Equal(t, int64(42), got.Owners)
	assert.True(t, got.HasActiveListing("7"))

	// In-place mutation of the same bucket
	got.Sales++
	got.RemoveActiveListing("7")
	require.NoError(t, store.SaveState(ctx, got))

	got, err = store.GetState(ctx, "460188")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(3), got.Sales)
	assert.False(t, got.HasActiveListing("7"))
	assert.True(t, got.HasActiveListing("1"))
}

func testProcessedCursor(t *testing.T, store Store) {
	ctx := context.Background()

	cursor, err := store.GetProcessedCursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cursor)

	require.NoError(t, store.SetProcessedCursor(ctx, 15000000))
	require.NoError(t, store.SetProcessedCursor(ctx, 15000001))

	cursor, err = store.GetProcessedCursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(15000001), cursor)
}

func testTransactions(t *testing.T, store Store) {
	ctx := context.Background()

	// A returned error rolls every write back
	failed := errors.New("boom")
	err := store.Transaction(ctx, func(tx Store) error {
		if err := tx.SavePunk(ctx, &schema.Punk{ID: "1", Owner: "0x1111111111111111111111111111111111111111"}); err != nil {
			return err
		}
		if err := tx.SaveBid(ctx, buildTestBid("1", "0x2222222222222222222222222222222222222222", "100")); err != nil {
			return err
		}
		return failed
	})
	assert.ErrorIs(t, err, failed)

	punk, err := store.GetPunk(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, punk)
	bid, err := store.GetBid(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, bid)

	// A nil return commits
	err = store.Transaction(ctx, func(tx Store) error {
		return tx.SavePunk(ctx, &schema.Punk{ID: "1", Owner: "0x1111111111111111111111111111111111111111"})
	})
	require.NoError(t, err)

	punk, err = store.GetPunk(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, punk)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", punk.Owner)
}

// RunStoreTests runs all store tests against a Store implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store Store)
	}{
		{"Accounts", testAccounts},
		{"Punks", testPunks},
		{"Listings", testListings},
		{"Bids", testBids},
		{"EventsAreWriteOnce", testEventsAreWriteOnce},
		{"Transfers", testTransfers},
		{"States", testStates},
		{"ProcessedCursor", testProcessedCursor},
		{"Transactions", testTransactions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
