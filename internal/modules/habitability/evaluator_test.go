package habitability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/datatypes"

	"github.com/yungbote/starcatalog-backend/internal/domain/catalog"
	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
	"github.com/yungbote/starcatalog-backend/internal/pkg/pointers"
	"github.com/yungbote/starcatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type obsKey struct {
	planet uuid.UUID
	date   time.Time
}

// memStore keeps one observation per (planet, date) under a mutex, which is
// the contract the real upsert gives.
type memStore struct {
	mu      sync.Mutex
	inputs  map[uuid.UUID]catalog.EvaluationInputs
	rows    map[obsKey]*catalog.Observation
	reads   int
	failErr error
}

func newMemStore() *memStore {
	return &memStore{
		inputs: map[uuid.UUID]catalog.EvaluationInputs{},
		rows:   map[obsKey]*catalog.Observation{},
	}
}

func (s *memStore) EvaluationInputs(_ dbctx.Context, planetID uuid.UUID) (*catalog.EvaluationInputs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	in, ok := s.inputs[planetID]
	if !ok {
		return nil, errs.NotFound("planet", planetID.String())
	}
	return &in, nil
}

func (s *memStore) UpsertObservation(_ dbctx.Context, obs *catalog.Observation) (*catalog.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}
	k := obsKey{planet: obs.PlanetID, date: time.Time(obs.ObservationDate)}
	if cur, ok := s.rows[k]; ok {
		cur.OrbitalDistanceAU = obs.OrbitalDistanceAU
		cur.Classification = obs.Classification
		cur.AngularSeparationAS = obs.AngularSeparationAS
		out := *cur
		return &out, nil
	}
	row := *obs
	row.ID = uuid.New()
	s.rows[k] = &row
	out := row
	return &out, nil
}

func (s *memStore) count(planetID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.rows {
		if k.planet == planetID {
			n++
		}
	}
	return n
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTestEvaluator(store Store, now time.Time) *Evaluator {
	ev := NewEvaluator(store, logger.NewNop())
	ev.Now = fixedClock(now)
	return ev
}

func seedSunLike(s *memStore, sep float64) uuid.UUID {
	id := uuid.New()
	s.inputs[id] = catalog.EvaluationInputs{
		PlanetID:                id,
		StarID:                  uuid.New(),
		AngularSeparationArcsec: pointers.Float64(sep),
		DistanceLY:              pointers.Float64(10),
		Luminosity:              pointers.Float64(1),
	}
	return id
}

func TestEvaluate_StoredAngularSeparation(t *testing.T) {
	store := newMemStore()
	planetID := seedSunLike(store, 1.0)
	ev := newTestEvaluator(store, time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC))

	res, err := ev.Evaluate(dbctx.Context{Ctx: context.Background()}, Request{PlanetID: planetID, ResearcherID: uuid.New()})
	require.NoError(t, err)

	assert.Equal(t, ModeAngularSeparation, res.Mode)
	assert.InDelta(t, 3.0665, res.DistanceAU, 1e-3)
	assert.Equal(t, RoundAU(res.DistanceAU), res.DistanceAU)
	assert.Equal(t, catalog.TooCold, res.Classification)
	assert.Equal(t, datatypes.Date(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), res.ObservationDate)
	require.NotNil(t, res.AngularSepAS)
	assert.Equal(t, 1.0, *res.AngularSepAS)
}

func TestEvaluate_SameDayRecomputeOverwrites(t *testing.T) {
	store := newMemStore()
	planetID := seedSunLike(store, 0.1)
	ev := newTestEvaluator(store, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	dbc := dbctx.Context{Ctx: context.Background()}

	first, err := ev.Evaluate(dbc, Request{PlanetID: planetID})
	require.NoError(t, err)
	require.Equal(t, catalog.TooHot, first.Classification)

	second, err := ev.Evaluate(dbc, Request{PlanetID: planetID, OrbitalDistanceAU: pointers.Float64(1.2)})
	require.NoError(t, err)
	assert.Equal(t, ModeDirect, second.Mode)
	assert.Equal(t, catalog.InsideHZ, second.Classification)
	assert.Equal(t, first.ObservationID, second.ObservationID)
	assert.Nil(t, second.AngularSepAS)
	assert.Equal(t, 1, store.count(planetID))
}

func TestEvaluate_NextDayAppends(t *testing.T) {
	store := newMemStore()
	planetID := seedSunLike(store, 0.3)
	day := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	dbc := dbctx.Context{Ctx: context.Background()}

	_, err := newTestEvaluator(store, day).Evaluate(dbc, Request{PlanetID: planetID})
	require.NoError(t, err)
	_, err = newTestEvaluator(store, day.Add(2*time.Minute)).Evaluate(dbc, Request{PlanetID: planetID})
	require.NoError(t, err)

	assert.Equal(t, 2, store.count(planetID))
}

func TestEvaluate_ReadsLuminosityFreshEachCall(t *testing.T) {
	store := newMemStore()
	planetID := seedSunLike(store, 0.3)
	ev := newTestEvaluator(store, time.Now())
	dbc := dbctx.Context{Ctx: context.Background()}

	res, err := ev.Evaluate(dbc, Request{PlanetID: planetID, OrbitalDistanceAU: pointers.Float64(2)})
	require.NoError(t, err)
	require.Equal(t, catalog.TooCold, res.Classification)

	in := store.inputs[planetID]
	in.Luminosity = pointers.Float64(4)
	store.inputs[planetID] = in

	res, err = ev.Evaluate(dbc, Request{PlanetID: planetID, OrbitalDistanceAU: pointers.Float64(2)})
	require.NoError(t, err)
	assert.Equal(t, catalog.InsideHZ, res.Classification)
	assert.Equal(t, 2, store.reads)
}

func TestEvaluate_ClassifiesBeforeRounding(t *testing.T) {
	store := newMemStore()
	planetID := seedSunLike(store, 1)
	ev := newTestEvaluator(store, time.Now())

	// 1.70004 rounds to 1.7000 but lies outside the zone.
	res, err := ev.Evaluate(dbctx.Context{Ctx: context.Background()}, Request{PlanetID: planetID, OrbitalDistanceAU: pointers.Float64(1.70004)})
	require.NoError(t, err)
	assert.Equal(t, 1.7, res.DistanceAU)
	assert.Equal(t, catalog.TooCold, res.Classification)
}

func TestEvaluate_MissingInputs(t *testing.T) {
	store := newMemStore()
	noLum := uuid.New()
	store.inputs[noLum] = catalog.EvaluationInputs{PlanetID: noLum, AngularSeparationArcsec: pointers.Float64(1), DistanceLY: pointers.Float64(10)}
	noDist := uuid.New()
	store.inputs[noDist] = catalog.EvaluationInputs{PlanetID: noDist, AngularSeparationArcsec: pointers.Float64(1), Luminosity: pointers.Float64(1)}
	noOrbit := uuid.New()
	store.inputs[noOrbit] = catalog.EvaluationInputs{PlanetID: noOrbit, DistanceLY: pointers.Float64(10), Luminosity: pointers.Float64(1)}

	ev := newTestEvaluator(store, time.Now())
	dbc := dbctx.Context{Ctx: context.Background()}

	for id, field := range map[uuid.UUID]string{noLum: "luminosity", noDist: "distance_ly", noOrbit: "angular_separation_arcsec"} {
		_, err := ev.Evaluate(dbc, Request{PlanetID: id})
		require.True(t, errors.Is(err, errs.ErrMissingInput), "got %v", err)
		assert.Equal(t, field, errs.FieldOf(err))
		assert.Equal(t, 0, store.count(id))
	}

	_, err := ev.Evaluate(dbc, Request{})
	assert.True(t, errors.Is(err, errs.ErrMissingInput))
}

func TestEvaluate_PropagatesStoreErrors(t *testing.T) {
	store := newMemStore()
	ev := newTestEvaluator(store, time.Now())
	dbc := dbctx.Context{Ctx: context.Background()}

	_, err := ev.Evaluate(dbc, Request{PlanetID: uuid.New()})
	assert.True(t, errors.Is(err, errs.ErrNotFound), "got %v", err)

	planetID := seedSunLike(store, 1)
	store.failErr = errs.StoreUnavailable(errors.New("connection reset"))
	_, err = ev.Evaluate(dbc, Request{PlanetID: planetID})
	assert.True(t, errs.Retryable(err), "got %v", err)
}

func TestEvaluate_ConcurrentSameKeyLeavesOneRow(t *testing.T) {
	store := newMemStore()
	planetID := seedSunLike(store, 1)
	ev := newTestEvaluator(store, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	dbc := dbctx.Context{Ctx: context.Background()}

	var wg sync.WaitGroup
	errCh := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := ev.Evaluate(dbc, Request{PlanetID: planetID, OrbitalDistanceAU: pointers.Float64(0.5 + float64(i)*0.1)})
			errCh <- err
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.count(planetID))
}
