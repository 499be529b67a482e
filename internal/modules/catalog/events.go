package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/starcatalog-backend/internal/domain"
	"github.com/yungbote/starcatalog-backend/internal/modules/habitability"
	"github.com/yungbote/starcatalog-backend/internal/platform/redisbus"
)

const EventObservationReconciled = "observation.reconciled"

type ObservationReconciled struct {
	PlanetID          uuid.UUID            `json:"planet_id"`
	StarID            uuid.UUID            `json:"star_id"`
	ObservationID     uuid.UUID            `json:"observation_id"`
	ObservationDate   datatypes.Date       `json:"observation_date"`
	OrbitalDistanceAU float64              `json:"orbital_distance_au"`
	Classification    types.Classification `json:"habitability_classification"`
	ResearcherID      uuid.UUID            `json:"researcher_id"`
	Source            string               `json:"source"`
}

// publishReconciled runs after commit. The observation is durable by then,
// so a failed publish is logged and dropped.
func (u Usecases) publishReconciled(ctx context.Context, res *habitability.Result, researcherID uuid.UUID, source string) {
	if u.deps.Events == nil || res == nil {
		return
	}
	ev, err := redisbus.NewEvent(EventObservationReconciled, u.deps.Now(), ObservationReconciled{
		PlanetID:          res.PlanetID,
		StarID:            res.StarID,
		ObservationID:     res.ObservationID,
		ObservationDate:   res.ObservationDate,
		OrbitalDistanceAU: res.DistanceAU,
		Classification:    res.Classification,
		ResearcherID:      researcherID,
		Source:            source,
	})
	if err != nil {
		u.deps.Log.Warn("build observation event failed", "error", err)
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := u.deps.Events.Publish(pctx, ev); err != nil {
		u.deps.Log.Warn("publish observation event failed",
			"event_id", ev.ID,
			"planet_id", res.PlanetID,
			"error", err,
		)
	}
}
