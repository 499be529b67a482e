package app

import (
	"gorm.io/gorm"

	authmod "github.com/yungbote/starcatalog-backend/internal/modules/auth"
	catalogmod "github.com/yungbote/starcatalog-backend/internal/modules/catalog"
	"github.com/yungbote/starcatalog-backend/internal/modules/habitability"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

type Services struct {
	Evaluator *habitability.Evaluator
	Catalog   catalogmod.Usecases
	Auth      authmod.Usecases
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	evaluator := habitability.NewEvaluator(
		habitability.NewStore(reposet.Planet, reposet.Observation),
		log,
	)

	return Services{
		Evaluator: evaluator,
		Catalog: catalogmod.New(catalogmod.UsecasesDeps{
			DB:           db,
			Log:          log,
			Stars:        reposet.Star,
			Planets:      reposet.Planet,
			Observations: reposet.Observation,
			Evaluator:    evaluator,
			Events:       clients.Events,
			Retry:        cfg.Retry,
		}),
		Auth: authmod.New(authmod.UsecasesDeps{
			Log:       log,
			Users:     reposet.User,
			JWTSecret: cfg.JWTSecret,
			TokenTTL:  cfg.TokenTTL,
		}),
	}
}
