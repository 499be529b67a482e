package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const DefaultDiscoveryMethod = "User Submission"

// Planet belongs to exactly one star; its name is unique within that star.
// Orbital input arrives in one of two modes: a raw angular separation
// (arcseconds) resolved against the star's distance, or an orbital distance
// already expressed in AU.
type Planet struct {
	ID                      uuid.UUID       `gorm:"column:planet_id;type:uuid;primaryKey" json:"planet_id"`
	StarID                  uuid.UUID       `gorm:"column:star_id;type:uuid;not null;index;uniqueIndex:idx_planets_star_name,priority:1" json:"star_id"`
	Name                    string          `gorm:"column:planet_name;not null;uniqueIndex:idx_planets_star_name,priority:2" json:"planet_name"`
	Type                    string          `gorm:"column:planet_type;not null" json:"planet_type"`
	RadiusEarth             *float64        `gorm:"column:planet_radius_earth" json:"planet_radius_earth,omitempty"`
	AngularSeparationArcsec *float64        `gorm:"column:angular_separation_arcsec" json:"angular_separation_arcsec"`
	OrbitalDistanceAU       *float64        `gorm:"column:orbital_distance_au" json:"orbital_distance_au"`
	DiscoveryMethod         string          `gorm:"column:discovery_method" json:"discovery_method"`
	DiscoveryDate           *datatypes.Date `gorm:"column:discovery_date" json:"discovery_date,omitempty"`

	Observations []Observation `gorm:"foreignKey:PlanetID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Planet) TableName() string { return "planets" }

// EvaluationInputs is a fresh joined read of everything the habitability
// evaluator needs for one planet. Nil fields are absent in the store.
type EvaluationInputs struct {
	PlanetID                uuid.UUID `gorm:"column:planet_id"`
	StarID                  uuid.UUID `gorm:"column:star_id"`
	AngularSeparationArcsec *float64  `gorm:"column:angular_separation_arcsec"`
	OrbitalDistanceAU       *float64  `gorm:"column:orbital_distance_au"`
	DistanceLY              *float64  `gorm:"column:distance_ly"`
	Luminosity              *float64  `gorm:"column:luminosity"`
}
