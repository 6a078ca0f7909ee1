package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid represents the bids table - the standing bid for a punk.
// The identity key is the punk id, so at most one bid exists per punk; a new
// bid for the same punk replaces the old one entirely (last bid wins, no history).
type Bid struct {
	// ID equals the punk id
	ID string `gorm:"column:id;primaryKey;type:text"`
	// PunkID references the punk being bid on (always equal to ID)
	PunkID string `gorm:"column:punk_id;not null;type:text"`
	// Value is the bid in wei
	Value decimal.Decimal `gorm:"column:value;not null;type:numeric(78,0)"`
	// USD is the USD equivalent of the bid at creation time
	USD decimal.Decimal `gorm:"column:usd;not null;type:numeric(38,6)"`
	// FromAddress is the bidding account
	FromAddress string `gorm:"column:from_address;not null;type:text"`
	// BlockNumber is the block in which the bid was entered
	BlockNumber uint64 `gorm:"column:block_number;not null"`
	// BlockTimestamp is the timestamp of that block
	BlockTimestamp time.Time `gorm:"column:block_timestamp;not null"`
	// TxHash is the transaction that entered the bid
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
}

// TableName specifies the table name for the Bid model
func (Bid) TableName() string {
	return "bids"
}
