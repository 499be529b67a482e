package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/starcatalog-backend/internal/domain"
	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
	"github.com/yungbote/starcatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

type ObservationRepo interface {
	// Upsert writes the (planet, date) row in one conflict-aware statement.
	// On conflict only the computed value fields change; identity and
	// researcher attribution stay with the first writer of the day.
	Upsert(dbc dbctx.Context, obs *types.Observation) (*types.Observation, error)
	GetByPlanetDate(dbc dbctx.Context, planetID uuid.UUID, date datatypes.Date) (*types.Observation, error)
	ListByPlanetID(dbc dbctx.Context, planetID uuid.UUID) ([]*types.Observation, error)
}

type observationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewObservationRepo(db *gorm.DB, baseLog *logger.Logger) ObservationRepo {
	return &observationRepo{db: db, log: baseLog.With("repo", "ObservationRepo")}
}

var observationValueColumns = []string{
	"orbital_distance_au",
	"habitability_classification",
	"angular_separation_as",
	"updated_at",
}

func observationKey(planetID uuid.UUID, date datatypes.Date) string {
	y, m, d := time.Time(date).Date()
	return fmt.Sprintf("%s/%04d-%02d-%02d", planetID, y, m, d)
}

func (r *observationRepo) Upsert(dbc dbctx.Context, obs *types.Observation) (*types.Observation, error) {
	if obs == nil || obs.PlanetID == uuid.Nil {
		return nil, errs.InvalidArgument("planet_id", "missing planet id")
	}
	if obs.UserID == uuid.Nil {
		return nil, errs.MissingInput("researcher_id")
	}
	if !obs.Classification.Valid() {
		return nil, errs.InvalidArgument("habitability_classification", "unknown classification %q", obs.Classification)
	}
	if obs.ID == uuid.Nil {
		obs.ID = uuid.New()
	}
	key := observationKey(obs.PlanetID, obs.ObservationDate)

	// The read-back shares the upsert's transaction so it returns this
	// write, not a later one.
	var out types.Observation
	err := dbc.Conn(r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "planet_id"}, {Name: "observation_date"}},
				DoUpdates: clause.AssignmentColumns(observationValueColumns),
			}).
			Create(obs).Error; err != nil {
			return err
		}
		return tx.
			Where("planet_id = ? AND observation_date = ?", obs.PlanetID, obs.ObservationDate).
			Take(&out).Error
	})
	if err != nil {
		return nil, translate(err, "planet", key)
	}
	return &out, nil
}

func (r *observationRepo) GetByPlanetDate(dbc dbctx.Context, planetID uuid.UUID, date datatypes.Date) (*types.Observation, error) {
	var row types.Observation
	if err := dbc.Conn(r.db).
		Where("planet_id = ? AND observation_date = ?", planetID, date).
		Take(&row).Error; err != nil {
		return nil, translate(err, "observation", observationKey(planetID, date))
	}
	return &row, nil
}

func (r *observationRepo) ListByPlanetID(dbc dbctx.Context, planetID uuid.UUID) ([]*types.Observation, error) {
	var rows []*types.Observation
	if err := dbc.Conn(r.db).
		Where("planet_id = ?", planetID).
		Order("observation_date DESC").
		Find(&rows).Error; err != nil {
		return nil, translate(err, "observations", planetID.String())
	}
	return rows, nil
}
