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

type StarRepo interface {
	Create(dbc dbctx.Context, star *types.Star) (*types.Star, error)
	GetByID(dbc dbctx.Context, starID uuid.UUID) (*types.Star, error)
	List(dbc dbctx.Context) ([]*types.Star, error)
	Update(dbc dbctx.Context, star *types.Star) (*types.Star, error)
	Exists(dbc dbctx.Context, starID uuid.UUID) (bool, error)
}

type starRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStarRepo(db *gorm.DB, baseLog *logger.Logger) StarRepo {
	return &starRepo{db: db, log: baseLog.With("repo", "StarRepo")}
}

func (r *starRepo) Create(dbc dbctx.Context, star *types.Star) (*types.Star, error) {
	if star == nil {
		return nil, errs.InvalidArgument("star", "nil star")
	}
	if star.ID == uuid.Nil {
		star.ID = uuid.New()
	}
	if err := dbc.Conn(r.db).Create(star).Error; err != nil {
		return nil, translate(err, "star", star.Name)
	}
	return star, nil
}

func (r *starRepo) GetByID(dbc dbctx.Context, starID uuid.UUID) (*types.Star, error) {
	var row types.Star
	if err := dbc.Conn(r.db).
		Where("star_id = ?", starID).
		Take(&row).Error; err != nil {
		return nil, translate(err, "star", starID.String())
	}
	return &row, nil
}

func (r *starRepo) List(dbc dbctx.Context) ([]*types.Star, error) {
	var rows []*types.Star
	if err := dbc.Conn(r.db).
		Order("star_name ASC").
		Find(&rows).Error; err != nil {
		return nil, translate(err, "stars", "")
	}
	return rows, nil
}

func (r *starRepo) Update(dbc dbctx.Context, star *types.Star) (*types.Star, error) {
	if star == nil || star.ID == uuid.Nil {
		return nil, errs.InvalidArgument("star_id", "missing star id")
	}
	res := dbc.Conn(r.db).
		Model(&types.Star{}).
		Where("star_id = ?", star.ID).
		Updates(map[string]any{
			"star_name":               star.Name,
			"distance_ly":             star.DistanceLY,
			"luminosity":              star.Luminosity,
			"spectral_type":           star.SpectralType,
			"effective_temperature_k": star.EffectiveTemperatureK,
			"radius_solar":            star.RadiusSolar,
			"updated_at":              time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, translate(res.Error, "star", star.ID.String())
	}
	if res.RowsAffected == 0 {
		return nil, errs.NotFound("star", star.ID.String())
	}
	return r.GetByID(dbc, star.ID)
}

func (r *starRepo) Exists(dbc dbctx.Context, starID uuid.UUID) (bool, error) {
	var count int64
	if err := dbc.Conn(r.db).
		Model(&types.Star{}).
		Where("star_id = ?", starID).
		Count(&count).Error; err != nil {
		return false, translate(err, "star", starID.String())
	}
	return count > 0, nil
}
