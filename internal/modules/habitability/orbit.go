// Package habitability turns a planet's orbital geometry and its star's
// luminosity into a habitable-zone classification and keeps the per-day
// observation ledger in step with it.
package habitability

import (
	"math"

	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
)

// LightYearsPerParsec converts catalog distances to parsecs.
const LightYearsPerParsec = 3.26156

// Mode records which entry point produced an orbital distance.
type Mode string

const (
	// ModeAngularSeparation: arcseconds resolved against the star's distance.
	ModeAngularSeparation Mode = "angular_separation"
	// ModeDirect: orbital distance supplied in AU, resolver skipped.
	ModeDirect Mode = "direct"
)

// OrbitInput carries both possible orbital inputs. Angular separation wins
// when both are present.
type OrbitInput struct {
	AngularSeparationArcsec *float64
	DistanceLY              *float64
	OrbitalDistanceAU       *float64
}

type Orbit struct {
	Mode Mode
	// DistanceAU is full precision; round only when persisting.
	DistanceAU float64
	// AngularSeparationArcsec is set only in ModeAngularSeparation.
	AngularSeparationArcsec *float64
}

// OrbitalDistanceAU projects an angular separation at a given stellar
// distance onto a physical separation: one arcsecond at one parsec is one AU.
func OrbitalDistanceAU(distanceLY, separationArcsec float64) float64 {
	return distanceLY / LightYearsPerParsec * separationArcsec
}

func ResolveOrbit(in OrbitInput) (Orbit, error) {
	if in.AngularSeparationArcsec != nil {
		sep := *in.AngularSeparationArcsec
		if err := positive("angular_separation_arcsec", sep); err != nil {
			return Orbit{}, err
		}
		if in.DistanceLY == nil {
			return Orbit{}, errs.MissingInput("distance_ly")
		}
		if err := positive("distance_ly", *in.DistanceLY); err != nil {
			return Orbit{}, err
		}
		return Orbit{
			Mode:                    ModeAngularSeparation,
			DistanceAU:              OrbitalDistanceAU(*in.DistanceLY, sep),
			AngularSeparationArcsec: &sep,
		}, nil
	}
	if in.OrbitalDistanceAU != nil {
		if err := positive("orbital_distance_au", *in.OrbitalDistanceAU); err != nil {
			return Orbit{}, err
		}
		return Orbit{Mode: ModeDirect, DistanceAU: *in.OrbitalDistanceAU}, nil
	}
	return Orbit{}, errs.MissingInput("angular_separation_arcsec")
}

// RoundAU rounds to the 4 decimal places persisted on observations.
func RoundAU(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func positive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errs.InvalidArgument(field, "must be finite")
	}
	if v <= 0 {
		return errs.InvalidArgument(field, "must be positive, got %g", v)
	}
	return nil
}
