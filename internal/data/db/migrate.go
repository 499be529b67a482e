package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/starcatalog-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return err
	}
	return EnsureCatalogConstraints(db)
}

// EnsureCatalogConstraints adds what gorm tags cannot express. The unique
// indexes backing the planet-name and observation-date upserts come from the
// model tags; this only pins the classification column to its closed set.
func EnsureCatalogConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'chk_observations_classification'
			) THEN
				ALTER TABLE observations
				ADD CONSTRAINT chk_observations_classification
				CHECK (habitability_classification IN ('Inside HZ', 'Too Hot', 'Too Cold'));
			END IF;
		END
		$$;
	`).Error; err != nil {
		return fmt.Errorf("create chk_observations_classification: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_observations_planet_date_desc
		ON observations (planet_id, observation_date DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_observations_planet_date_desc: %w", err)
	}
	return nil
}
