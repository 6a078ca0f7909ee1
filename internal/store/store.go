package store

import (
	"context"

	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
)

// Store defines the persistence operations the engine and host depend on.
// Every Get returns (nil, nil) when the entity does not exist; the engine
// treats absence as "construct with defaults", never as an error.
type Store interface {
	// GetAccount retrieves an account by address
	GetAccount(ctx context.Context, address string) (*schema.Account, error)
	// SaveAccount creates or updates an account
	SaveAccount(ctx context.Context, account *schema.Account) error

	// GetPunk retrieves a punk by id
	GetPunk(ctx context.Context, id string) (*schema.Punk, error)
	// SavePunk creates or updates a punk
	SavePunk(ctx context.Context, punk *schema.Punk) error

	// GetListing retrieves the active listing for a punk
	GetListing(ctx context.Context, punkID string) (*schema.Listing, error)
	// SaveListing creates or replaces the listing for a punk
	SaveListing(ctx context.Context, listing *schema.Listing) error
	// DeleteListing removes the listing for a punk; deleting an absent listing is a no-op
	DeleteListing(ctx context.Context, punkID string) error

	// GetBid retrieves the standing bid for a punk
	GetBid(ctx context.Context, punkID string) (*schema.Bid, error)
	// SaveBid creates or replaces the bid for a punk
	SaveBid(ctx context.Context, bid *schema.Bid) error
	// DeleteBid removes the bid for a punk; deleting an absent bid is a no-op
	DeleteBid(ctx context.Context, punkID string) error

	// GetEvent retrieves a log record by its txHash-logIndex id
	GetEvent(ctx context.Context, id string) (*schema.Event, error)
	// SaveEvent appends a log record; an id already written is left untouched
	SaveEvent(ctx context.Context, event *schema.Event) error

	// GetTransfer retrieves the raw-transfer correlation record for a transaction
	GetTransfer(ctx context.Context, txHash string) (*schema.Transfer, error)
	// SaveTransfer creates or updates the correlation record for a transaction
	SaveTransfer(ctx context.Context, transfer *schema.Transfer) error

	// GetState retrieves the aggregate snapshot for a time bucket
	GetState(ctx context.Context, bucketID string) (*schema.State, error)
	// SaveState creates or updates a snapshot
	SaveState(ctx context.Context, state *schema.State) error

	// GetProcessedCursor retrieves the block number of the last event handed to the engine
	GetProcessedCursor(ctx context.Context) (uint64, error)
	// SetProcessedCursor stores the block number of the last processed event
	SetProcessedCursor(ctx context.Context, blockNumber uint64) error

	// Transaction runs fn against a store bound to a single database
	// transaction; any error returned by fn rolls every write back
	Transaction(ctx context.Context, fn func(Store) error) error
}
