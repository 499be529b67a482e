package habitability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"

	"github.com/yungbote/starcatalog-backend/internal/data/repos"
	"github.com/yungbote/starcatalog-backend/internal/domain/catalog"
	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
	"github.com/yungbote/starcatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

// Store is everything the evaluator needs from persistence.
type Store interface {
	// EvaluationInputs must read through to the store on every call.
	EvaluationInputs(dbc dbctx.Context, planetID uuid.UUID) (*catalog.EvaluationInputs, error)
	// UpsertObservation must be a single conflict-aware write on (planet, date).
	UpsertObservation(dbc dbctx.Context, obs *catalog.Observation) (*catalog.Observation, error)
}

type repoStore struct {
	planets      repos.PlanetRepo
	observations repos.ObservationRepo
}

func NewStore(planets repos.PlanetRepo, observations repos.ObservationRepo) Store {
	return &repoStore{planets: planets, observations: observations}
}

func (s *repoStore) EvaluationInputs(dbc dbctx.Context, planetID uuid.UUID) (*catalog.EvaluationInputs, error) {
	return s.planets.EvaluationInputs(dbc, planetID)
}

func (s *repoStore) UpsertObservation(dbc dbctx.Context, obs *catalog.Observation) (*catalog.Observation, error) {
	return s.observations.Upsert(dbc, obs)
}

// Request asks for today's observation of one planet. With both overrides
// nil the planet's stored orbital input is used. An angular separation
// override is resolved against the star's stored distance; a direct AU
// override skips the resolver.
type Request struct {
	PlanetID     uuid.UUID
	ResearcherID uuid.UUID

	AngularSeparationArcsec *float64
	OrbitalDistanceAU       *float64
}

type Result struct {
	PlanetID        uuid.UUID              `json:"planet_id"`
	StarID          uuid.UUID              `json:"star_id"`
	ObservationID   uuid.UUID              `json:"observation_id"`
	ObservationDate datatypes.Date         `json:"observation_date"`
	Mode            Mode                   `json:"input_mode"`
	DistanceAU      float64                `json:"orbital_distance_au"`
	Classification  catalog.Classification `json:"habitability_classification"`
	AngularSepAS    *float64               `json:"angular_separation_as,omitempty"`
	Luminosity      float64                `json:"luminosity"`
	Zone            Zone                   `json:"habitable_zone"`

	Observation *catalog.Observation `json:"-"`
}

type Evaluator struct {
	store Store
	log   *logger.Logger
	// Now defaults to time.Now; the observation date is its UTC calendar day.
	Now func() time.Time
}

func NewEvaluator(store Store, baseLog *logger.Logger) *Evaluator {
	return &Evaluator{
		store: store,
		log:   baseLog.With("service", "HabitabilityEvaluator"),
		Now:   time.Now,
	}
}

// Evaluate re-reads the planet and star, resolves the orbit, classifies it on
// full precision and upserts today's observation. Failures are returned
// unchanged in kind; nothing is retried here.
func (e *Evaluator) Evaluate(dbc dbctx.Context, req Request) (*Result, error) {
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := otel.Tracer("starcatalog/habitability").Start(ctx, "habitability.Evaluate")
	defer span.End()
	dbc.Ctx = ctx
	span.SetAttributes(attribute.String("planet.id", req.PlanetID.String()))

	res, err := e.evaluate(dbc, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("habitability.mode", string(res.Mode)),
		attribute.String("habitability.classification", res.Classification.String()),
		attribute.Float64("habitability.orbital_distance_au", res.DistanceAU),
	)
	return res, nil
}

func (e *Evaluator) evaluate(dbc dbctx.Context, req Request) (*Result, error) {
	if req.PlanetID == uuid.Nil {
		return nil, errs.MissingInput("planet_id")
	}

	in, err := e.store.EvaluationInputs(dbc, req.PlanetID)
	if err != nil {
		return nil, err
	}
	a, err := Assess(in.Luminosity, orbitInput(in, req))
	if err != nil {
		return nil, err
	}

	saved, err := e.store.UpsertObservation(dbc, &catalog.Observation{
		PlanetID:            req.PlanetID,
		ObservationDate:     catalog.DateOf(e.now()),
		OrbitalDistanceAU:   a.DistanceAU,
		Classification:      a.Classification,
		UserID:              req.ResearcherID,
		AngularSeparationAS: a.Orbit.AngularSeparationArcsec,
	})
	if err != nil {
		return nil, err
	}

	e.log.Debug("observation reconciled",
		"planet_id", req.PlanetID,
		"mode", a.Mode,
		"orbital_distance_au", saved.OrbitalDistanceAU,
		"classification", saved.Classification,
		"researcher_id", req.ResearcherID,
	)

	return &Result{
		PlanetID:        req.PlanetID,
		StarID:          in.StarID,
		ObservationID:   saved.ID,
		ObservationDate: saved.ObservationDate,
		Mode:            a.Mode,
		DistanceAU:      saved.OrbitalDistanceAU,
		Classification:  saved.Classification,
		AngularSepAS:    saved.AngularSeparationAS,
		Luminosity:      a.Luminosity,
		Zone:            a.Zone,
		Observation:     saved,
	}, nil
}

func orbitInput(in *catalog.EvaluationInputs, req Request) OrbitInput {
	switch {
	case req.AngularSeparationArcsec != nil:
		return OrbitInput{AngularSeparationArcsec: req.AngularSeparationArcsec, DistanceLY: in.DistanceLY}
	case req.OrbitalDistanceAU != nil:
		return OrbitInput{OrbitalDistanceAU: req.OrbitalDistanceAU}
	default:
		return OrbitInput{
			AngularSeparationArcsec: in.AngularSeparationArcsec,
			DistanceLY:              in.DistanceLY,
			OrbitalDistanceAU:       in.OrbitalDistanceAU,
		}
	}
}

func (e *Evaluator) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
