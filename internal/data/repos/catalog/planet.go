package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/starcatalog-backend/internal/domain"
	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
	"github.com/yungbote/starcatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

type PlanetRepo interface {
	Create(dbc dbctx.Context, planet *types.Planet) (*types.Planet, error)
	GetByID(dbc dbctx.Context, planetID uuid.UUID) (*types.Planet, error)
	ListByStarID(dbc dbctx.Context, starID uuid.UUID) ([]*types.Planet, error)
	Update(dbc dbctx.Context, planet *types.Planet) (*types.Planet, error)
	// EvaluationInputs joins the planet with its star. It always hits the
	// store: luminosity may have changed since the planet was last read.
	EvaluationInputs(dbc dbctx.Context, planetID uuid.UUID) (*types.EvaluationInputs, error)
}

type planetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanetRepo(db *gorm.DB, baseLog *logger.Logger) PlanetRepo {
	return &planetRepo{db: db, log: baseLog.With("repo", "PlanetRepo")}
}

func planetKey(p *types.Planet) string {
	return p.StarID.String() + "/" + p.Name
}

func (r *planetRepo) Create(dbc dbctx.Context, planet *types.Planet) (*types.Planet, error) {
	if planet == nil {
		return nil, errs.InvalidArgument("planet", "nil planet")
	}
	if planet.ID == uuid.Nil {
		planet.ID = uuid.New()
	}
	if planet.DiscoveryMethod == "" {
		planet.DiscoveryMethod = types.DefaultDiscoveryMethod
	}
	if err := dbc.Conn(r.db).Create(planet).Error; err != nil {
		return nil, translate(err, "star", planetKey(planet))
	}
	return planet, nil
}

func (r *planetRepo) GetByID(dbc dbctx.Context, planetID uuid.UUID) (*types.Planet, error) {
	var row types.Planet
	if err := dbc.Conn(r.db).
		Where("planet_id = ?", planetID).
		Take(&row).Error; err != nil {
		return nil, translate(err, "planet", planetID.String())
	}
	return &row, nil
}

func (r *planetRepo) ListByStarID(dbc dbctx.Context, starID uuid.UUID) ([]*types.Planet, error) {
	var rows []*types.Planet
	if err := dbc.Conn(r.db).
		Where("star_id = ?", starID).
		Order("created_at ASC, planet_name ASC").
		Find(&rows).Error; err != nil {
		return nil, translate(err, "planets", starID.String())
	}
	return rows, nil
}

// Update rewrites name, type, radius and the orbital input. Exactly one of
// the two orbital fields is expected to be non-nil; the other is cleared.
func (r *planetRepo) Update(dbc dbctx.Context, planet *types.Planet) (*types.Planet, error) {
	if planet == nil || planet.ID == uuid.Nil {
		return nil, errs.InvalidArgument("planet_id", "missing planet id")
	}
	res := dbc.Conn(r.db).
		Model(&types.Planet{}).
		Where("planet_id = ?", planet.ID).
		Updates(map[string]any{
			"planet_name":               planet.Name,
			"planet_type":               planet.Type,
			"planet_radius_earth":       planet.RadiusEarth,
			"angular_separation_arcsec": planet.AngularSeparationArcsec,
			"orbital_distance_au":       planet.OrbitalDistanceAU,
			"updated_at":                time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, translate(res.Error, "planet", planetKey(planet))
	}
	if res.RowsAffected == 0 {
		return nil, errs.NotFound("planet", planet.ID.String())
	}
	return r.GetByID(dbc, planet.ID)
}

func (r *planetRepo) EvaluationInputs(dbc dbctx.Context, planetID uuid.UUID) (*types.EvaluationInputs, error) {
	var row types.EvaluationInputs
	if err := dbc.Conn(r.db).
		Table("planets AS p").
		Select(`p.planet_id, p.star_id, p.angular_separation_arcsec, p.orbital_distance_au,
			s.distance_ly, s.luminosity`).
		Joins("JOIN stars AS s ON s.star_id = p.star_id").
		Where("p.planet_id = ?", planetID).
		Limit(1).
		Scan(&row).Error; err != nil {
		return nil, translate(err, "planet", planetID.String())
	}
	if row.PlanetID == uuid.Nil {
		return nil, errs.NotFound("planet", planetID.String())
	}
	return &row, nil
}
