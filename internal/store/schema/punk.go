package schema

import (
	"time"
)

// Punk represents the punks table - the marketplace's non-fungible asset.
// Created on first reference; the owner mutates on every ownership-transferring
// event; rows are never deleted.
type Punk struct {
	// ID is the punk index as a decimal string, the identity key
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Owner is the address of the current holder
	Owner string `gorm:"column:owner;not null;type:text;index:idx_punks_owner"`
	// Wrapped is true while the punk is held by the designated wrapper contract
	Wrapped bool `gorm:"column:wrapped;not null;default:false"`
	// CreatedAt is the timestamp when this punk was first referenced
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	// UpdatedAt is the timestamp of the last ownership change
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for the Punk model
func (Punk) TableName() string {
	return "punks"
}
