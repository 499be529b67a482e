package domain

import (
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/starcatalog-backend/internal/domain/catalog"
	"github.com/yungbote/starcatalog-backend/internal/domain/user"
)

type Star = catalog.Star
type Planet = catalog.Planet
type Observation = catalog.Observation
type Classification = catalog.Classification
type EvaluationInputs = catalog.EvaluationInputs

const (
	InsideHZ = catalog.InsideHZ
	TooHot   = catalog.TooHot
	TooCold  = catalog.TooCold

	DefaultDiscoveryMethod = catalog.DefaultDiscoveryMethod
)

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) datatypes.Date { return catalog.DateOf(t) }

type User = user.User
type Role = user.Role

const (
	RoleResearcher = user.RoleResearcher
	RoleViewer     = user.RoleViewer
)

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{
		&user.User{},
		&catalog.Star{},
		&catalog.Planet{},
		&catalog.Observation{},
	}
}
