package catalog

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/starcatalog-backend/internal/domain"
	"github.com/yungbote/starcatalog-backend/internal/platform/apierr"
	"github.com/yungbote/starcatalog-backend/internal/platform/dbctx"
)

type StarInput struct {
	Name                  string
	DistanceLY            *float64
	Luminosity            *float64
	SpectralType          string
	EffectiveTemperatureK *float64
	RadiusSolar           *float64
}

func (in StarInput) validate() (StarInput, error) {
	name, err := requireText("star_name", in.Name)
	if err != nil {
		return in, err
	}
	in.Name = name
	if err := requirePositive("luminosity", in.Luminosity); err != nil {
		return in, err
	}
	if err := requirePositive("distance_ly", in.DistanceLY); err != nil {
		return in, err
	}
	if err := optionalPositive("effective_temperature_k", in.EffectiveTemperatureK); err != nil {
		return in, err
	}
	if err := optionalPositive("radius_solar", in.RadiusSolar); err != nil {
		return in, err
	}
	return in, nil
}

func (in StarInput) apply(s *types.Star) {
	s.Name = in.Name
	s.DistanceLY = in.DistanceLY
	s.Luminosity = in.Luminosity
	s.SpectralType = in.SpectralType
	s.EffectiveTemperatureK = in.EffectiveTemperatureK
	s.RadiusSolar = in.RadiusSolar
}

type StarDetail struct {
	Star    *types.Star     `json:"star"`
	Planets []*types.Planet `json:"planets"`
}

func (u Usecases) ListStars(ctx context.Context) ([]*types.Star, error) {
	rows, err := u.deps.Stars.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, apierr.FromError(err, "list_stars_failed")
	}
	return rows, nil
}

// GetStar loads the star and its planets concurrently.
func (u Usecases) GetStar(ctx context.Context, starID uuid.UUID) (StarDetail, error) {
	var out StarDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := u.deps.Stars.GetByID(dbctx.Context{Ctx: gctx}, starID)
		out.Star = s
		return err
	})
	g.Go(func() error {
		ps, err := u.deps.Planets.ListByStarID(dbctx.Context{Ctx: gctx}, starID)
		out.Planets = ps
		return err
	})
	if err := g.Wait(); err != nil {
		return StarDetail{}, apierr.FromError(err, "get_star_failed")
	}
	if out.Planets == nil {
		out.Planets = []*types.Planet{}
	}
	return out, nil
}

func (u Usecases) CreateStar(ctx context.Context, in StarInput) (*types.Star, error) {
	in, err := in.validate()
	if err != nil {
		return nil, apierr.FromError(err, "invalid_star")
	}
	star := &types.Star{ID: uuid.New()}
	in.apply(star)
	created, err := u.deps.Stars.Create(dbctx.Context{Ctx: ctx}, star)
	if err != nil {
		return nil, apierr.FromError(err, "create_star_failed")
	}
	u.deps.Log.Info("star created", "star_id", created.ID, "star_name", created.Name)
	return created, nil
}

// UpdateStar replaces every field. Existing observations keep the
// classification computed at the time; the next evaluation sees the new
// luminosity.
func (u Usecases) UpdateStar(ctx context.Context, starID uuid.UUID, in StarInput) (*types.Star, error) {
	in, err := in.validate()
	if err != nil {
		return nil, apierr.FromError(err, "invalid_star")
	}
	star := &types.Star{ID: starID}
	in.apply(star)
	updated, err := u.deps.Stars.Update(dbctx.Context{Ctx: ctx}, star)
	if err != nil {
		return nil, apierr.FromError(err, "update_star_failed")
	}
	return updated, nil
}
