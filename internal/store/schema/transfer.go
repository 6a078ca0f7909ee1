package schema

import "time"

// Transfer represents the transfers table - a correlation aid keyed by
// transaction hash (at most one per transaction). A raw ERC-style Transfer log
// carries no punk index; the record exists so a NoLongerForSale event in the
// same transaction can be recognized as a sale completion rather than a
// withdrawal. PunkID is filled in once a later event in the transaction
// resolves it.
type Transfer struct {
	// ID is the transaction hash
	ID string `gorm:"column:id;primaryKey;type:text"`
	// FromAddress is the sender reported by the raw transfer
	FromAddress string `gorm:"column:from_address;not null;type:text"`
	// ToAddress is the recipient reported by the raw transfer
	ToAddress string `gorm:"column:to_address;not null;type:text"`
	// PunkID is the punk resolved from a correlated marketplace event, nil until known
	PunkID *string `gorm:"column:punk_id;type:text"`
	// CreatedAt is the timestamp when the raw transfer was recorded
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for the Transfer model
func (Transfer) TableName() string {
	return "transfers"
}
