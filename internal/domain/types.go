package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// EventKind identifies the marketplace action a decoded event describes
type EventKind string

const (
	// KindClaim is the initial mint of a punk to a claimer address
	KindClaim EventKind = "claim"
	// KindRawTransfer is the ERC-style Transfer(from, to, value) log that carries
	// no punk index; it is recorded only to correlate sales within the same transaction
	KindRawTransfer EventKind = "raw_transfer"
	// KindAssetTransfer is the marketplace's PunkTransfer(from, to, punkIndex) log
	KindAssetTransfer EventKind = "asset_transfer"
	// KindOffer lists a punk for sale, optionally restricted to a single buyer
	KindOffer EventKind = "offer"
	// KindBidEntered places or replaces the standing bid on a punk
	KindBidEntered EventKind = "bid_entered"
	// KindBidWithdrawn removes the standing bid on a punk
	KindBidWithdrawn EventKind = "bid_withdrawn"
	// KindBought is a completed sale
	KindBought EventKind = "bought"
	// KindNoLongerForSale delists a punk; within a sale transaction it marks completion
	KindNoLongerForSale EventKind = "no_longer_for_sale"
)

// MarketEvent is a decoded marketplace event in canonical chain order.
// This is the wire format the upstream decoder publishes to NATS; the engine
// assumes ascending (block number, log index) delivery and exactly-once semantics.
type MarketEvent struct {
	Kind        EventKind `json:"kind"`
	PunkID      string    `json:"punk_id,omitempty"` // absent for raw transfers
	FromAddress *string   `json:"from_address"`
	ToAddress   *string   `json:"to_address"`
	Value       string    `json:"value,omitempty"` // wei, decimal string
	TxHash      string    `json:"tx_hash"`
	LogIndex    uint64    `json:"log_index"`
	BlockNumber uint64    `json:"block_number"`
	Timestamp   time.Time `json:"timestamp"` // block timestamp
}

// Valid reports whether the event carries the field set its kind requires.
// Invalid events are terminated at the intake boundary, never retried.
func (e *MarketEvent) Valid() bool {
	if e.TxHash == "" || e.Timestamp.IsZero() {
		return false
	}

	switch e.Kind {
	case KindRawTransfer:
		return e.FromAddress != nil && e.ToAddress != nil
	case KindClaim:
		return e.PunkID != "" && e.ToAddress != nil
	case KindAssetTransfer:
		return e.PunkID != "" && e.FromAddress != nil && e.ToAddress != nil
	case KindOffer, KindBidEntered, KindBidWithdrawn, KindBought, KindNoLongerForSale:
		return e.PunkID != ""
	default:
		return false
	}
}

// EventID is the identity of the persisted log record for this event
func (e *MarketEvent) EventID() string {
	return fmt.Sprintf("%s-%d", e.TxHash, e.LogIndex)
}

// Amount parses the wei value carried by the event. Missing or malformed
// values resolve to zero; upstream anomalies never fail event processing.
func (e *MarketEvent) Amount() decimal.Decimal {
	if e.Value == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(e.Value)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// From returns the normalized sender address, or the zero address when absent
func (e *MarketEvent) From() string {
	return addressOrZero(e.FromAddress)
}

// To returns the normalized recipient address, or the zero address when absent
func (e *MarketEvent) To() string {
	return addressOrZero(e.ToAddress)
}

func addressOrZero(s *string) string {
	if s == nil || *s == "" {
		return ZeroAddress
	}
	return NormalizeAddress(*s)
}

// NormalizeAddress converts a hex address to its EIP-55 checksummed form
func NormalizeAddress(address string) string {
	if common.IsHexAddress(address) {
		return common.HexToAddress(address).String()
	}
	return address
}

// IsZeroAddress reports whether the address is empty or the zero address
func IsZeroAddress(address string) bool {
	return address == "" || strings.EqualFold(address, ZeroAddress)
}

// SameAddress compares two addresses case-insensitively
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
