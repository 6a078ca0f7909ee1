package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint represents the price_points table - ETH/USD reference prices
// keyed by block number, written by an external price feed. The indexer only
// reads this table; computing the feed itself is out of scope.
type PricePoint struct {
	// BlockNumber is the block the price applies from
	BlockNumber uint64 `gorm:"column:block_number;primaryKey;autoIncrement:false"`
	// Timestamp is the block timestamp of that block
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	// USDPerETH is the USD price of one ETH at that block
	USDPerETH decimal.Decimal `gorm:"column:usd_per_eth;not null;type:numeric(38,6)"`
}

// TableName specifies the table name for the PricePoint model
func (PricePoint) TableName() string {
	return "price_points"
}
