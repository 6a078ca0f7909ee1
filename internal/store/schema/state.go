package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// State represents the states table - the time-bucketed aggregate snapshot.
// One row per bucket, created by the first event landing in the bucket and
// mutated in place by every later event in the same bucket; never deleted.
// Counters (bids, sales, listings, delistings) are per-bucket activity counts,
// not gauges; the owner count and the active-listing set carry forward from
// the nearest earlier snapshot.
type State struct {
	// ID is the time-bucket identifier derived from the block timestamp
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Timestamp is the block timestamp of the event that created the bucket
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	// Floor is the marketplace floor price in wei
	Floor decimal.Decimal `gorm:"column:floor;not null;type:numeric(78,0)"`
	// Volume is the wei volume traded within the bucket
	Volume decimal.Decimal `gorm:"column:volume;not null;type:numeric(78,0)"`
	// USD is the USD equivalent of the bucket's traded volume
	USD decimal.Decimal `gorm:"column:usd;not null;type:numeric(38,6)"`
	// TopBidID references the event holding the highest bid on record, nil if none
	TopBidID *string `gorm:"column:top_bid_id;type:text"`
	// TopSaleID references the event holding the highest sale on record, nil if none
	TopSaleID *string `gorm:"column:top_sale_id;type:text"`
	// Bids counts bids entered within the bucket (withdrawals are not subtracted)
	Bids uint64 `gorm:"column:bids;not null;default:0"`
	// Sales counts sales recorded within the bucket
	Sales uint64 `gorm:"column:sales;not null;default:0"`
	// Listings counts offers created within the bucket
	Listings uint64 `gorm:"column:listings;not null;default:0"`
	// Delistings counts withdrawals recorded within the bucket
	Delistings uint64 `gorm:"column:delistings;not null;default:0"`
	// Owners is the distinct-owner count, carried across buckets
	Owners int64 `gorm:"column:owners;not null;default:0"`
	// ActiveListings is the set of punk ids with a live listing, carried across buckets
	ActiveListings datatypes.JSONSlice[string] `gorm:"column:active_listings"`
}

// HasActiveListing reports whether the punk id is in the active-listing set
func (s *State) HasActiveListing(punkID string) bool {
	for _, id := range s.ActiveListings {
		if id == punkID {
			return true
		}
	}
	return false
}

// AddActiveListing inserts the punk id into the active-listing set, keeping it a set
func (s *State) AddActiveListing(punkID string) {
	if s.HasActiveListing(punkID) {
		return
	}
	s.ActiveListings = append(s.ActiveListings, punkID)
}

// RemoveActiveListing deletes the punk id from the active-listing set if present
func (s *State) RemoveActiveListing(punkID string) {
	for i, id := range s.ActiveListings {
		if id == punkID {
			s.ActiveListings = append(s.ActiveListings[:i], s.ActiveListings[i+1:]...)
			return
		}
	}
}

// TableName specifies the table name for the State model
func (State) TableName() string {
	return "states"
}
