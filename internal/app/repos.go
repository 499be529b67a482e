package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/starcatalog-backend/internal/data/repos"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	Star        repos.StarRepo
	Planet      repos.PlanetRepo
	Observation repos.ObservationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		Star:        repos.NewStarRepo(db, log),
		Planet:      repos.NewPlanetRepo(db, log),
		Observation: repos.NewObservationRepo(db, log),
	}
}
