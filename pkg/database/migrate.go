package database

import (
	"Aviary/models"
	"Aviary/pkg/log"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migration is one versioned schema change. Versions sort lexically in the
// order they must be applied.
type Migration struct {
	Version string
	Up      func(tx *gorm.DB) error
	Down    func(tx *gorm.DB) error
}

type MigrationStatus struct {
	Version   string     `json:"version"`
	Applied   bool       `json:"applied"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{db: db, migrations: Migrations()}
}

// Up applies every pending migration in order and returns the versions applied.
// Running it again is a no-op.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	done := make([]string, 0)
	for _, mig := range m.migrations {
		if _, ok := applied[mig.Version]; ok {
			continue
		}
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&models.SchemaMigration{Version: mig.Version, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return done, fmt.Errorf("migrate up %s: %w", mig.Version, err)
		}
		log.L.Info("migration applied", zap.String("version", mig.Version))
		done = append(done, mig.Version)
	}
	return done, nil
}

// Down rolls back the most recently applied migration. It returns "" when
// nothing is applied.
func (m *Migrator) Down(ctx context.Context) (string, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return "", err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mig := m.migrations[i]
		if _, ok := applied[mig.Version]; !ok {
			continue
		}
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mig.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&models.SchemaMigration{}, "version = ?", mig.Version).Error
		})
		if err != nil {
			return "", fmt.Errorf("migrate down %s: %w", mig.Version, err)
		}
		log.L.Info("migration rolled back", zap.String("version", mig.Version))
		return mig.Version, nil
	}
	return "", nil
}

func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MigrationStatus, 0, len(m.migrations))
	for _, mig := range m.migrations {
		st := MigrationStatus{Version: mig.Version}
		if at, ok := applied[mig.Version]; ok {
			st.Applied = true
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]time.Time, error) {
	db := m.db.WithContext(ctx)
	if err := db.AutoMigrate(&models.SchemaMigration{}); err != nil {
		return nil, fmt.Errorf("prepare schema_migrations: %w", err)
	}
	var rows []models.SchemaMigration
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		out[r.Version] = r.AppliedAt
	}
	return out, nil
}
