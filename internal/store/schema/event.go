package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType is the tag recorded on a processed domain action
type EventType string

const (
	// EventTypeClaimed is the initial mint of a punk to its claimer
	EventTypeClaimed EventType = "Claimed"
	// EventTypeTransferred is an ordinary punk-to-punk ownership transfer
	EventTypeTransferred EventType = "Transferred"
	// EventTypeWrapped is a transfer into the designated wrapper contract
	EventTypeWrapped EventType = "Wrapped"
	// EventTypeUnwrapped is a transfer out of the designated wrapper contract
	EventTypeUnwrapped EventType = "Unwrapped"
	// EventTypeOffered is a new or replaced listing
	EventTypeOffered EventType = "Offered"
	// EventTypeBidEntered is a new or replaced bid
	EventTypeBidEntered EventType = "BidEntered"
	// EventTypeBidWithdrawn is a bid withdrawal
	EventTypeBidWithdrawn EventType = "BidWithdrawn"
	// EventTypeSale is a completed, economically meaningful sale
	EventTypeSale EventType = "Sale"
	// EventTypeOfferWithdrawn is a delisting outside of a sale transaction
	EventTypeOfferWithdrawn EventType = "OfferWithdrawn"
)

// Event represents the events table - the append-only log of every processed
// domain action. Rows are write-once: never mutated, never deleted.
type Event struct {
	// ID is txHash + "-" + logIndex, globally unique
	ID string `gorm:"column:id;primaryKey;type:text"`
	// TxHash is the transaction that produced the event
	TxHash string `gorm:"column:tx_hash;not null;type:text;index:idx_events_tx_hash"`
	// Type is the classified domain action
	Type EventType `gorm:"column:type;not null;type:text"`
	// PunkID is the punk the action concerns
	PunkID string `gorm:"column:punk_id;not null;type:text;index:idx_events_punk_id"`
	// FromAddress is the acting or sending account, nil when not applicable
	FromAddress *string `gorm:"column:from_address;type:text"`
	// ToAddress is the receiving account, nil when not applicable
	ToAddress *string `gorm:"column:to_address;type:text"`
	// Value is the wei amount attached to the action (zero for claims and transfers)
	Value decimal.Decimal `gorm:"column:value;not null;type:numeric(78,0)"`
	// USD is the USD equivalent of Value at the event's block
	USD decimal.Decimal `gorm:"column:usd;not null;type:numeric(38,6)"`
	// BlockNumber is the block in which the action occurred
	BlockNumber uint64 `gorm:"column:block_number;not null"`
	// BlockTimestamp is the timestamp of that block
	BlockTimestamp time.Time `gorm:"column:block_timestamp;not null"`
}

// TableName specifies the table name for the Event model
func (Event) TableName() string {
	return "events"
}
