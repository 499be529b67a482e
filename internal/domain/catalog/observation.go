package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Observation is one ledger row per (planet, calendar date). The
// classification is denormalized from OrbitalDistanceAU and the star's
// luminosity at computation time.
type Observation struct {
	ID                  uuid.UUID      `gorm:"column:observation_id;type:uuid;primaryKey" json:"observation_id"`
	PlanetID            uuid.UUID      `gorm:"column:planet_id;type:uuid;not null;uniqueIndex:idx_observations_planet_date,priority:1" json:"planet_id"`
	ObservationDate     datatypes.Date `gorm:"column:observation_date;not null;uniqueIndex:idx_observations_planet_date,priority:2" json:"observation_date"`
	OrbitalDistanceAU   float64        `gorm:"column:orbital_distance_au;not null" json:"orbital_distance_au"`
	Classification      Classification `gorm:"column:habitability_classification;not null" json:"habitability_classification"`
	UserID              uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	AngularSeparationAS *float64       `gorm:"column:angular_separation_as" json:"angular_separation_as"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Observation) TableName() string { return "observations" }

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.UTC().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
