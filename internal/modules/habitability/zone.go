package habitability

import (
	"math"

	"github.com/yungbote/starcatalog-backend/internal/domain/catalog"
	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
)

const (
	innerBoundaryFactor = 0.99
	outerBoundaryFactor = 1.70
)

// Zone is a habitable zone in AU. Both edges belong to the zone.
type Zone struct {
	InnerAU float64 `json:"inner_au"`
	OuterAU float64 `json:"outer_au"`
}

func HabitableZone(luminosity float64) Zone {
	s := math.Sqrt(luminosity)
	return Zone{InnerAU: innerBoundaryFactor * s, OuterAU: outerBoundaryFactor * s}
}

func (z Zone) Classify(distanceAU float64) catalog.Classification {
	switch {
	case distanceAU < z.InnerAU:
		return catalog.TooHot
	case distanceAU > z.OuterAU:
		return catalog.TooCold
	default:
		return catalog.InsideHZ
	}
}

// Classify is HabitableZone(luminosity).Classify(distanceAU).
func Classify(luminosity, distanceAU float64) catalog.Classification {
	return HabitableZone(luminosity).Classify(distanceAU)
}

// Assessment is a classification computed without touching the store.
type Assessment struct {
	Orbit          Orbit                  `json:"-"`
	Mode           Mode                   `json:"input_mode"`
	DistanceAU     float64                `json:"orbital_distance_au"`
	Luminosity     float64                `json:"luminosity"`
	Zone           Zone                   `json:"habitable_zone"`
	Classification catalog.Classification `json:"habitability_classification"`
}

// Assess validates luminosity, resolves the orbit and classifies it at full
// precision. DistanceAU is reported rounded.
func Assess(luminosity *float64, in OrbitInput) (Assessment, error) {
	if luminosity == nil {
		return Assessment{}, errs.MissingInput("luminosity")
	}
	if err := positive("luminosity", *luminosity); err != nil {
		return Assessment{}, err
	}
	orbit, err := ResolveOrbit(in)
	if err != nil {
		return Assessment{}, err
	}
	zone := HabitableZone(*luminosity)
	return Assessment{
		Orbit:          orbit,
		Mode:           orbit.Mode,
		DistanceAU:     RoundAU(orbit.DistanceAU),
		Luminosity:     *luminosity,
		Zone:           zone,
		Classification: zone.Classify(orbit.DistanceAU),
	}, nil
}
