// Package oracle provides ETH/USD reference prices for event valuation.
// Price-feed computation happens outside this system; implementations only
// look prices up.
package oracle

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Oracle resolves the USD price of one ETH at a given point in the chain
type Oracle interface {
	// USDPrice returns the USD-per-ETH price for the block identified by
	// (timestamp, blockNumber). A zero price means no price is known; callers
	// record zero USD equivalents rather than failing.
	USDPrice(ctx context.Context, ts time.Time, blockNumber uint64) (decimal.Decimal, error)
}

// fixedOracle returns a constant price; used for development and tests
type fixedOracle struct {
	price decimal.Decimal
}

// NewFixed creates an Oracle that always returns the given USD-per-ETH price
func NewFixed(price decimal.Decimal) Oracle {
	return &fixedOracle{price: price}
}

// USDPrice returns the configured constant price
func (o *fixedOracle) USDPrice(_ context.Context, _ time.Time, _ uint64) (decimal.Decimal, error) {
	return o.price, nil
}
