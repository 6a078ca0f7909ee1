package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
)

// gormOracle reads reference prices from the price_points table, which an
// external feed keeps up to date.
type gormOracle struct {
	db *gorm.DB
}

// NewGorm creates an Oracle backed by the price_points table
func NewGorm(db *gorm.DB) Oracle {
	return &gormOracle{db: db}
}

// USDPrice returns the price of the nearest point at or before the given
// block. When no point exists yet, it returns zero without error; early-chain
// events simply carry no USD equivalent.
func (o *gormOracle) USDPrice(ctx context.Context, _ time.Time, blockNumber uint64) (decimal.Decimal, error) {
	var point schema.PricePoint
	err := o.db.WithContext(ctx).
		Where("block_number <= ?", blockNumber).
		Order("block_number DESC").
		First(&point).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to look up price point: %w", err)
	}

	return point.USDPerETH, nil
}
