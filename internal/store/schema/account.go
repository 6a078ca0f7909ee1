package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Account represents the accounts table - one row per address ever seen by the market.
// Accounts are created on first reference and never deleted.
type Account struct {
	// Address is the checksummed Ethereum address, the identity key
	Address string `gorm:"column:address;primaryKey;type:text"`
	// Punks is the set of punk ids currently held by this account.
	// Membership is the only thing that matters; order is not significant.
	Punks datatypes.JSONSlice[string] `gorm:"column:punks"`
	// CreatedAt is the timestamp when this account was first referenced
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	// UpdatedAt is the timestamp of the last holdings change
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Holds reports whether the account currently holds the given punk
func (a *Account) Holds(punkID string) bool {
	for _, id := range a.Punks {
		if id == punkID {
			return true
		}
	}
	return false
}

// Add inserts the punk id into the held set. Adding an id already present is a no-op.
func (a *Account) Add(punkID string) {
	if a.Holds(punkID) {
		return
	}
	a.Punks = append(a.Punks, punkID)
}

// Remove deletes the punk id from the held set if present
func (a *Account) Remove(punkID string) {
	for i, id := range a.Punks {
		if id == punkID {
			a.Punks = append(a.Punks[:i], a.Punks[i+1:]...)
			return
		}
	}
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}
