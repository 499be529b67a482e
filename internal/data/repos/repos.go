package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/starcatalog-backend/internal/data/repos/catalog"
	"github.com/yungbote/starcatalog-backend/internal/data/repos/user"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type StarRepo = catalog.StarRepo
type PlanetRepo = catalog.PlanetRepo
type ObservationRepo = catalog.ObservationRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewStarRepo(db *gorm.DB, baseLog *logger.Logger) StarRepo {
	return catalog.NewStarRepo(db, baseLog)
}
func NewPlanetRepo(db *gorm.DB, baseLog *logger.Logger) PlanetRepo {
	return catalog.NewPlanetRepo(db, baseLog)
}
func NewObservationRepo(db *gorm.DB, baseLog *logger.Logger) ObservationRepo {
	return catalog.NewObservationRepo(db, baseLog)
}
