package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing represents the listings table - the active ask for a punk.
// The identity key is the punk id, so at most one listing exists per punk.
// Listings are hard-deleted when superseded by a sale, delisting, or transfer.
type Listing struct {
	// ID equals the punk id
	ID string `gorm:"column:id;primaryKey;type:text"`
	// PunkID references the listed punk (always equal to ID)
	PunkID string `gorm:"column:punk_id;not null;type:text"`
	// Value is the ask in wei
	Value decimal.Decimal `gorm:"column:value;not null;type:numeric(78,0)"`
	// USD is the USD equivalent of the ask at creation time
	USD decimal.Decimal `gorm:"column:usd;not null;type:numeric(38,6)"`
	// FromAddress is the offering account
	FromAddress string `gorm:"column:from_address;not null;type:text"`
	// ToAddress is the restricted buyer for private listings, nil otherwise
	ToAddress *string `gorm:"column:to_address;type:text"`
	// IsPrivate is true when a non-zero restricted buyer was set
	IsPrivate bool `gorm:"column:is_private;not null;default:false"`
	// BlockNumber is the block in which the offer was made
	BlockNumber uint64 `gorm:"column:block_number;not null"`
	// BlockTimestamp is the timestamp of that block
	BlockTimestamp time.Time `gorm:"column:block_timestamp;not null"`
	// TxHash is the transaction that created the listing
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
}

// TableName specifies the table name for the Listing model
func (Listing) TableName() string {
	return "listings"
}
