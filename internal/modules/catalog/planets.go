package catalog

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/starcatalog-backend/internal/domain"
	"github.com/yungbote/starcatalog-backend/internal/modules/habitability"
	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
	"github.com/yungbote/starcatalog-backend/internal/platform/apierr"
	"github.com/yungbote/starcatalog-backend/internal/platform/dbctx"
)

type CreatePlanetInput struct {
	ResearcherID uuid.UUID

	StarID      uuid.UUID
	Name        string
	Type        string
	RadiusEarth *float64
	// Exactly one of the two orbital inputs.
	AngularSeparationArcsec *float64
	OrbitalDistanceAU       *float64

	DiscoveryMethod string
	DiscoveryDate   *time.Time
}

type UpdatePlanetInput struct {
	ResearcherID uuid.UUID
	PlanetID     uuid.UUID

	Name        string
	Type        string
	RadiusEarth *float64
	// At most one; both nil keeps the stored orbital input.
	AngularSeparationArcsec *float64
	OrbitalDistanceAU       *float64
}

type RecomputeInput struct {
	ResearcherID uuid.UUID
	PlanetID     uuid.UUID
	// Optional replacement orbital input, persisted on the planet before
	// evaluating. At most one.
	AngularSeparationArcsec *float64
	OrbitalDistanceAU       *float64
}

type PlanetResult struct {
	Planet      *types.Planet        `json:"planet"`
	Observation *types.Observation   `json:"observation"`
	Evaluation  *habitability.Result `json:"evaluation"`
}

// CreatePlanet inserts the planet and its first observation in one
// transaction; either both exist afterwards or neither does.
func (u Usecases) CreatePlanet(ctx context.Context, in CreatePlanetInput) (PlanetResult, error) {
	planet, err := in.toPlanet()
	if err != nil {
		return PlanetResult{}, apierr.FromError(err, "invalid_planet")
	}

	out, err := retry(ctx, u, func(dbc dbctx.Context) (PlanetResult, error) {
		p := *planet
		created, err := u.deps.Planets.Create(dbc, &p)
		if err != nil {
			return PlanetResult{}, err
		}
		// Entry point follows whichever orbital input the planet was created with.
		res, err := u.deps.Evaluator.Evaluate(dbc, habitability.Request{
			PlanetID:     created.ID,
			ResearcherID: in.ResearcherID,
		})
		if err != nil {
			return PlanetResult{}, err
		}
		return PlanetResult{Planet: created, Observation: res.Observation, Evaluation: res}, nil
	})
	if err != nil {
		return PlanetResult{}, apierr.FromError(err, "create_planet_failed")
	}

	u.deps.Log.Info("planet created",
		"planet_id", out.Planet.ID,
		"star_id", out.Planet.StarID,
		"classification", out.Evaluation.Classification,
		"researcher_id", in.ResearcherID,
	)
	u.publishReconciled(ctx, out.Evaluation, in.ResearcherID, "create_planet")
	return out, nil
}

// UpdatePlanet rewrites the descriptive fields and, when given, the orbital
// input, then reconciles today's observation against the result.
func (u Usecases) UpdatePlanet(ctx context.Context, in UpdatePlanetInput) (PlanetResult, error) {
	if in.PlanetID == uuid.Nil {
		return PlanetResult{}, apierr.FromError(errs.MissingInput("planet_id"), "invalid_planet")
	}
	name, err := requireText("planet_name", in.Name)
	if err != nil {
		return PlanetResult{}, apierr.FromError(err, "invalid_planet")
	}
	typ, err := requireText("planet_type", in.Type)
	if err != nil {
		return PlanetResult{}, apierr.FromError(err, "invalid_planet")
	}
	if err := optionalPositive("planet_radius_earth", in.RadiusEarth); err != nil {
		return PlanetResult{}, apierr.FromError(err, "invalid_planet")
	}
	if err := orbitalInput(in.AngularSeparationArcsec, in.OrbitalDistanceAU, false); err != nil {
		return PlanetResult{}, apierr.FromError(err, "invalid_planet")
	}

	out, err := retry(ctx, u, func(dbc dbctx.Context) (PlanetResult, error) {
		p, err := u.deps.Planets.GetByID(dbc, in.PlanetID)
		if err != nil {
			return PlanetResult{}, err
		}
		p.Name = name
		p.Type = typ
		p.RadiusEarth = in.RadiusEarth
		setOrbit(p, in.AngularSeparationArcsec, in.OrbitalDistanceAU)
		updated, err := u.deps.Planets.Update(dbc, p)
		if err != nil {
			return PlanetResult{}, err
		}
		res, err := u.deps.Evaluator.Evaluate(dbc, habitability.Request{
			PlanetID:     updated.ID,
			ResearcherID: in.ResearcherID,
		})
		if err != nil {
			return PlanetResult{}, err
		}
		return PlanetResult{Planet: updated, Observation: res.Observation, Evaluation: res}, nil
	})
	if err != nil {
		return PlanetResult{}, apierr.FromError(err, "update_planet_failed")
	}
	u.publishReconciled(ctx, out.Evaluation, in.ResearcherID, "update_planet")
	return out, nil
}

// RecomputePlanet evaluates the planet against its star's current
// luminosity and upserts today's observation.
func (u Usecases) RecomputePlanet(ctx context.Context, in RecomputeInput) (*habitability.Result, error) {
	if in.PlanetID == uuid.Nil {
		return nil, apierr.FromError(errs.MissingInput("planet_id"), "invalid_planet")
	}
	if err := orbitalInput(in.AngularSeparationArcsec, in.OrbitalDistanceAU, false); err != nil {
		return nil, apierr.FromError(err, "invalid_request")
	}

	res, err := retry(ctx, u, func(dbc dbctx.Context) (*habitability.Result, error) {
		if in.AngularSeparationArcsec != nil || in.OrbitalDistanceAU != nil {
			p, err := u.deps.Planets.GetByID(dbc, in.PlanetID)
			if err != nil {
				return nil, err
			}
			setOrbit(p, in.AngularSeparationArcsec, in.OrbitalDistanceAU)
			if _, err := u.deps.Planets.Update(dbc, p); err != nil {
				return nil, err
			}
		}
		return u.deps.Evaluator.Evaluate(dbc, habitability.Request{
			PlanetID:                in.PlanetID,
			ResearcherID:            in.ResearcherID,
			AngularSeparationArcsec: in.AngularSeparationArcsec,
			OrbitalDistanceAU:       in.OrbitalDistanceAU,
		})
	})
	if err != nil {
		return nil, apierr.FromError(err, "calculate_failed")
	}
	u.publishReconciled(ctx, res, in.ResearcherID, "recompute")
	return res, nil
}

func (u Usecases) ListObservations(ctx context.Context, planetID uuid.UUID) ([]*types.Observation, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := u.deps.Planets.GetByID(dbc, planetID); err != nil {
		return nil, apierr.FromError(err, "list_observations_failed")
	}
	rows, err := u.deps.Observations.ListByPlanetID(dbc, planetID)
	if err != nil {
		return nil, apierr.FromError(err, "list_observations_failed")
	}
	if rows == nil {
		rows = []*types.Observation{}
	}
	return rows, nil
}

// retry runs fn in a fresh transaction per attempt, backing off while the
// failure is a transient store error.
func retry[T any](ctx context.Context, u Usecases, fn func(dbc dbctx.Context) (T, error)) (T, error) {
	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		var out T
		err := u.inTx(ctx, func(tx *gorm.DB) error {
			var err error
			out, err = fn(dbctx.Context{Ctx: ctx, Tx: tx})
			return err
		})
		if err == nil {
			return out, nil
		}
		if !errs.Retryable(err) {
			return out, backoff.Permanent(err)
		}
		u.deps.Log.Warn("transient store failure, retrying", "attempt", attempt, "error", err)
		return out, err
	},
		backoff.WithBackOff(u.backoff()),
		backoff.WithMaxTries(u.deps.Retry.MaxTries),
	)
}

func setOrbit(p *types.Planet, separation, au *float64) {
	switch {
	case separation != nil:
		p.AngularSeparationArcsec = separation
		p.OrbitalDistanceAU = nil
	case au != nil:
		p.AngularSeparationArcsec = nil
		p.OrbitalDistanceAU = au
	}
}

func (in CreatePlanetInput) toPlanet() (*types.Planet, error) {
	if in.StarID == uuid.Nil {
		return nil, errs.MissingInput("star_id")
	}
	name, err := requireText("planet_name", in.Name)
	if err != nil {
		return nil, err
	}
	typ, err := requireText("planet_type", in.Type)
	if err != nil {
		return nil, err
	}
	if err := optionalPositive("planet_radius_earth", in.RadiusEarth); err != nil {
		return nil, err
	}
	if err := orbitalInput(in.AngularSeparationArcsec, in.OrbitalDistanceAU, true); err != nil {
		return nil, err
	}
	p := &types.Planet{
		ID:                      uuid.New(),
		StarID:                  in.StarID,
		Name:                    name,
		Type:                    typ,
		RadiusEarth:             in.RadiusEarth,
		AngularSeparationArcsec: in.AngularSeparationArcsec,
		OrbitalDistanceAU:       in.OrbitalDistanceAU,
		DiscoveryMethod:         in.DiscoveryMethod,
	}
	if in.DiscoveryDate != nil {
		d := types.DateOf(*in.DiscoveryDate)
		p.DiscoveryDate = &d
	}
	return p, nil
}
