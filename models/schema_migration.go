package models

import "time"

// SchemaMigration records one applied migration version.
type SchemaMigration struct {
	Version   string    `gorm:"column:version;type:varchar(64);primaryKey" json:"version"`
	AppliedAt time.Time `gorm:"column:applied_at;not null" json:"applied_at"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}
