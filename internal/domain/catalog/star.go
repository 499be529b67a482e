package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Star is a catalog entry. Luminosity (solar units) is the sole driver of the
// habitable zone; distance (light-years) feeds the orbital distance resolver.
type Star struct {
	ID                    uuid.UUID `gorm:"column:star_id;type:uuid;primaryKey" json:"star_id"`
	Name                  string    `gorm:"column:star_name;not null;index" json:"star_name"`
	DistanceLY            *float64  `gorm:"column:distance_ly" json:"distance_ly"`
	Luminosity            *float64  `gorm:"column:luminosity" json:"luminosity"`
	SpectralType          string    `gorm:"column:spectral_type" json:"spectral_type"`
	EffectiveTemperatureK *float64  `gorm:"column:effective_temperature_k" json:"effective_temperature_k,omitempty"`
	RadiusSolar           *float64  `gorm:"column:radius_solar" json:"radius_solar,omitempty"`

	Planets []Planet `gorm:"foreignKey:StarID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Star) TableName() string { return "stars" }
