package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
)

// processedCursorKey is the key_value_store key holding the processing cursor
const processedCursorKey = "processed_cursor"

type gormStore struct {
	db *gorm.DB
}

// New creates a Store backed by a gorm database. Production runs on Postgres;
// engine tests run the same implementation on in-memory SQLite.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// GetAccount retrieves an account by address
func (s *gormStore) GetAccount(ctx context.Context, address string) (*schema.Account, error) {
	var account schema.Account
	err := s.db.WithContext(ctx).Where("address = ?", address).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// SaveAccount creates or updates an account
func (s *gormStore) SaveAccount(ctx context.Context, account *schema.Account) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(account).Error
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// GetPunk retrieves a punk by id
func (s *gormStore) GetPunk(ctx context.Context, id string) (*schema.Punk, error) {
	var punk schema.Punk
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&punk).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get punk: %w", err)
	}
	return &punk, nil
}

// SavePunk creates or updates a punk
func (s *gormStore) SavePunk(ctx context.Context, punk *schema.Punk) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(punk).Error
	if err != nil {
		return fmt.Errorf("failed to save punk: %w", err)
	}
	return nil
}

// GetListing retrieves the active listing for a punk
func (s *gormStore) GetListing(ctx context.Context, punkID string) (*schema.Listing, error) {
	var listing schema.Listing
	err := s.db.WithContext(ctx).Where("id = ?", punkID).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// SaveListing creates or replaces the listing for a punk
func (s *gormStore) SaveListing(ctx context.Context, listing *schema.Listing) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(listing).Error
	if err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

// DeleteListing removes the listing for a punk; deleting an absent listing is a no-op
func (s *gormStore) DeleteListing(ctx context.Context, punkID string) error {
	err := s.db.WithContext(ctx).Where("id = ?", punkID).Delete(&schema.Listing{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

// GetBid retrieves the standing bid for a punk
func (s *gormStore) GetBid(ctx context.Context, punkID string) (*schema.Bid, error) {
	var bid schema.Bid
	err := s.db.WithContext(ctx).Where("id = ?", punkID).First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}
	return &bid, nil
}

// SaveBid creates or replaces the bid for a punk
func (s *gormStore) SaveBid(ctx context.Context, bid *schema.Bid) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(bid).Error
	if err != nil {
		return fmt.Errorf("failed to save bid: %w", err)
	}
	return nil
}

// DeleteBid removes the bid for a punk; deleting an absent bid is a no-op
func (s *gormStore) DeleteBid(ctx context.Context, punkID string) error {
	err := s.db.WithContext(ctx).Where("id = ?", punkID).Delete(&schema.Bid{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete bid: %w", err)
	}
	return nil
}

// GetEvent retrieves a log record by its txHash-logIndex id
func (s *gormStore) GetEvent(ctx context.Context, id string) (*schema.Event, error) {
	var event schema.Event
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

// SaveEvent appends a log record. Log rows are write-once: a replayed event id
// leaves the existing row untouched instead of overwriting it.
func (s *gormStore) SaveEvent(ctx context.Context, event *schema.Event) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(event).Error
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

// GetTransfer retrieves the raw-transfer correlation record for a transaction
func (s *gormStore) GetTransfer(ctx context.Context, txHash string) (*schema.Transfer, error) {
	var transfer schema.Transfer
	err := s.db.WithContext(ctx).Where("id = ?", txHash).First(&transfer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	return &transfer, nil
}

// SaveTransfer creates or updates the correlation record for a transaction
func (s *gormStore) SaveTransfer(ctx context.Context, transfer *schema.Transfer) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(transfer).Error
	if err != nil {
		return fmt.Errorf("failed to save transfer: %w", err)
	}
	return nil
}

// GetState retrieves the aggregate snapshot for a time bucket
func (s *gormStore) GetState(ctx context.Context, bucketID string) (*schema.State, error) {
	var state schema.State
	err := s.db.WithContext(ctx).Where("id = ?", bucketID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return &state, nil
}

// SaveState creates or updates a snapshot
func (s *gormStore) SaveState(ctx context.Context, state *schema.State) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(state).Error
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// GetProcessedCursor retrieves the block number of the last event handed to the engine
func (s *gormStore) GetProcessedCursor(ctx context.Context) (uint64, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", processedCursorKey).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get processed cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse processed cursor: %w", err)
	}

	return blockNumber, nil
}

// SetProcessedCursor stores the block number of the last processed event
func (s *gormStore) SetProcessedCursor(ctx context.Context, blockNumber uint64) error {
	kv := schema.KeyValueStore{
		Key:   processedCursorKey,
		Value: strconv.FormatUint(blockNumber, 10),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set processed cursor: %w", err)
	}
	return nil
}

// Transaction runs fn against a store bound to a single database transaction
func (s *gormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
