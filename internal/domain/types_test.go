package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/chopperdaddy/punks-indexer/internal/domain"
)

func baseEvent(kind domain.EventKind) domain.MarketEvent {
	from := "0x1111111111111111111111111111111111111111"
	to := "0x2222222222222222222222222222222222222222"
	return domain.MarketEvent{
		Kind:        kind,
		PunkID:      "1234",
		FromAddress: &from,
		ToAddress:   &to,
		Value:       "1000000000000000000",
		TxHash:      "0xabc",
		LogIndex:    7,
		BlockNumber: 15000000,
		Timestamp:   time.Date(2022, 7, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMarketEvent_Valid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *domain.MarketEvent)
		want   bool
	}{
		{"offer ok", func(e *domain.MarketEvent) { e.Kind = domain.KindOffer }, true},
		{"claim ok", func(e *domain.MarketEvent) { e.Kind = domain.KindClaim; e.FromAddress = nil }, true},
		{"claim missing to", func(e *domain.MarketEvent) { e.Kind = domain.KindClaim; e.ToAddress = nil }, false},
		{"raw transfer without punk id", func(e *domain.MarketEvent) { e.Kind = domain.KindRawTransfer; e.PunkID = "" }, true},
		{"raw transfer missing from", func(e *domain.MarketEvent) { e.Kind = domain.KindRawTransfer; e.FromAddress = nil }, false},
		{"asset transfer ok", func(e *domain.MarketEvent) { e.Kind = domain.KindAssetTransfer }, true},
		{"asset transfer missing punk", func(e *domain.MarketEvent) { e.Kind = domain.KindAssetTransfer; e.PunkID = "" }, false},
		{"bought missing punk", func(e *domain.MarketEvent) { e.Kind = domain.KindBought; e.PunkID = "" }, false},
		{"missing tx hash", func(e *domain.MarketEvent) { e.TxHash = "" }, false},
		{"missing timestamp", func(e *domain.MarketEvent) { e.Timestamp = time.Time{} }, false},
		{"unknown kind", func(e *domain.MarketEvent) { e.Kind = "mystery" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := baseEvent(domain.KindOffer)
			tt.mutate(&e)
			assert.Equal(t, tt.want, e.Valid())
		})
	}
}

func TestMarketEvent_EventID(t *testing.T) {
	e := baseEvent(domain.KindBought)
	assert.Equal(t, "0xabc-7", e.EventID())
}

func TestMarketEvent_Amount(t *testing.T) {
	e := baseEvent(domain.KindOffer)
	assert.True(t, e.Amount().Equal(decimal.RequireFromString("1000000000000000000")))

	e.Value = ""
	assert.True(t, e.Amount().IsZero())

	e.Value = "not-a-number"
	assert.True(t, e.Amount().IsZero())
}

func TestMarketEvent_FromTo(t *testing.T) {
	e := baseEvent(domain.KindBought)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", e.From())

	e.ToAddress = nil
	assert.Equal(t, domain.ZeroAddress, e.To())
}

func TestNormalizeAddress(t *testing.T) {
	// checksums a lowercase address
	assert.Equal(t,
		"0xb7F7F6C52F2e2fdb1963Eab30438024864c313F6",
		domain.NormalizeAddress("0xb7f7f6c52f2e2fdb1963eab30438024864c313f6"))

	// passes through non-hex input untouched
	assert.Equal(t, "not-an-address", domain.NormalizeAddress("not-an-address"))
}

func TestIsZeroAddress(t *testing.T) {
	assert.True(t, domain.IsZeroAddress(""))
	assert.True(t, domain.IsZeroAddress(domain.ZeroAddress))
	assert.True(t, domain.IsZeroAddress("0x0000000000000000000000000000000000000000"))
	assert.False(t, domain.IsZeroAddress(domain.DefaultWrapperAddress))
}

func TestSameAddress(t *testing.T) {
	assert.True(t, domain.SameAddress(
		"0xB7F7F6C52F2E2FDB1963EAB30438024864C313F6",
		"0xb7f7f6c52f2e2fdb1963eab30438024864c313f6"))
	assert.False(t, domain.SameAddress(domain.DefaultWrapperAddress, domain.ZeroAddress))
}
