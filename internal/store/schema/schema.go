// Package schema defines the persisted entity models, one file per table.
package schema

// AllModels lists every model for migration
func AllModels() []interface{} {
	return []interface{}{
		&Account{},
		&Punk{},
		&Listing{},
		&Bid{},
		&Event{},
		&Transfer{},
		&State{},
		&PricePoint{},
		&KeyValueStore{},
	}
}
