package catalog

import (
	"math"
	"strings"

	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
)

func requireText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", errs.MissingInput(field)
	}
	return v, nil
}

func requirePositive(field string, v *float64) error {
	if v == nil {
		return errs.MissingInput(field)
	}
	return optionalPositive(field, v)
}

func optionalPositive(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return errs.InvalidArgument(field, "must be finite")
	}
	if *v <= 0 {
		return errs.InvalidArgument(field, "must be positive, got %g", *v)
	}
	return nil
}

// orbitalInput accepts at most one of the two orbital inputs.
func orbitalInput(separation, au *float64, required bool) error {
	switch {
	case separation != nil && au != nil:
		return errs.InvalidArgument("orbital_distance_au", "give angular_separation_arcsec or orbital_distance_au, not both")
	case separation == nil && au == nil:
		if required {
			return errs.MissingInput("angular_separation_arcsec")
		}
		return nil
	case separation != nil:
		return optionalPositive("angular_separation_arcsec", separation)
	default:
		return optionalPositive("orbital_distance_au", au)
	}
}
