package catalog

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"gorm.io/gorm"

	"github.com/yungbote/starcatalog-backend/internal/data/repos"
	"github.com/yungbote/starcatalog-backend/internal/modules/habitability"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
	"github.com/yungbote/starcatalog-backend/internal/platform/redisbus"
)

// RetryConfig bounds the backoff applied to evaluations that fail with a
// transient store error.
type RetryConfig struct {
	MaxTries        uint
	InitialInterval time.Duration
}

func (r RetryConfig) withDefaults() RetryConfig {
	if r.MaxTries == 0 {
		r.MaxTries = 3
	}
	if r.InitialInterval <= 0 {
		r.InitialInterval = 100 * time.Millisecond
	}
	return r
}

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Stars        repos.StarRepo
	Planets      repos.PlanetRepo
	Observations repos.ObservationRepo

	Evaluator *habitability.Evaluator
	// Events is optional; nil disables observation events.
	Events redisbus.Publisher

	Retry RetryConfig
	Now   func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	deps.Retry = deps.Retry.withDefaults()
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	deps.Log = deps.Log.With("module", "catalog")
	return Usecases{deps: deps}
}

func (u Usecases) backoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = u.deps.Retry.InitialInterval
	return b
}

func (u Usecases) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return u.deps.DB.WithContext(ctx).Transaction(fn)
}
