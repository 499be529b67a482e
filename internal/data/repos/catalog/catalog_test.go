package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/starcatalog-backend/internal/data/repos/testutil"
	types "github.com/yungbote/starcatalog-backend/internal/domain"
	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
	"github.com/yungbote/starcatalog-backend/internal/platform/dbctx"
)

func countObservations(t *testing.T, dbc dbctx.Context, repo ObservationRepo, planetID uuid.UUID) int {
	t.Helper()
	rows, err := repo.ListByPlanetID(dbc, planetID)
	if err != nil {
		t.Fatalf("ListByPlanetID: %v", err)
	}
	return len(rows)
}

func TestStarRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewStarRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	for _, name := range []string{"Vega", "Altair"} {
		if _, err := repo.Create(dbc, &types.Star{
			Name:       name,
			Luminosity: testutil.PtrFloat(1),
			DistanceLY: testutil.PtrFloat(10),
		}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	stars, err := repo.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(stars) != 2 || stars[0].Name != "Altair" {
		t.Fatalf("List: expected name order, got %+v", stars)
	}

	stars[0].Luminosity = testutil.PtrFloat(10.6)
	updated, err := repo.Update(dbc, stars[0])
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Luminosity == nil || *updated.Luminosity != 10.6 {
		t.Fatalf("Update: luminosity not persisted: %+v", updated)
	}

	_, err = repo.Update(dbc, &types.Star{ID: uuid.New(), Name: "Ghost"})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Update missing: expected not found, got %v", err)
	}

	ok, err := repo.Exists(dbc, stars[1].ID)
	if err != nil || !ok {
		t.Fatalf("Exists: ok=%v err=%v", ok, err)
	}
}

func TestPlanetRepoDuplicateNameWithinStar(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	star := testutil.SeedStar(t, ctx, db, "Sol", 1, 10)
	other := testutil.SeedStar(t, ctx, db, "Tau Ceti", 0.52, 11.9)

	repo := NewPlanetRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := repo.Create(dbc, &types.Planet{StarID: star.ID, Name: "b", Type: "Gas Giant"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := repo.Create(dbc, &types.Planet{StarID: star.ID, Name: "b", Type: "Gas Giant"})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("Create duplicate: expected conflict, got %v", err)
	}
	if _, err := repo.Create(dbc, &types.Planet{StarID: other.ID, Name: "b", Type: "Gas Giant"}); err != nil {
		t.Fatalf("Create same name under other star: %v", err)
	}
}

func TestPlanetRepoUnknownStar(t *testing.T) {
	db := testutil.DB(t)
	repo := NewPlanetRepo(db, testutil.Logger(t))

	_, err := repo.Create(dbctx.Context{Ctx: context.Background()}, &types.Planet{StarID: uuid.New(), Name: "x", Type: "Rocky"})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Create: expected not found for unknown star, got %v", err)
	}
}

func TestPlanetRepoEvaluationInputs(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	star := testutil.SeedStar(t, ctx, db, "Sol", 1, 10)
	planet := testutil.SeedPlanet(t, ctx, db, star.ID, "Earthish", 1.0)

	repo := NewPlanetRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	in, err := repo.EvaluationInputs(dbc, planet.ID)
	if err != nil {
		t.Fatalf("EvaluationInputs: %v", err)
	}
	if in.StarID != star.ID || in.Luminosity == nil || *in.Luminosity != 1 {
		t.Fatalf("EvaluationInputs: unexpected star fields: %+v", in)
	}
	if in.AngularSeparationArcsec == nil || *in.AngularSeparationArcsec != 1.0 || in.OrbitalDistanceAU != nil {
		t.Fatalf("EvaluationInputs: unexpected planet fields: %+v", in)
	}

	if _, err := repo.EvaluationInputs(dbc, uuid.New()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("EvaluationInputs missing: expected not found, got %v", err)
	}
}

func TestObservationUpsertSameDayOverwrites(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	star := testutil.SeedStar(t, ctx, db, "Sol", 1, 10)
	planet := testutil.SeedPlanet(t, ctx, db, star.ID, "P", 1.0)
	first := testutil.SeedUser(t, ctx, db, "first", types.RoleResearcher)
	second := testutil.SeedUser(t, ctx, db, "second", types.RoleResearcher)

	repo := NewObservationRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}
	today := types.DateOf(time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC))

	a, err := repo.Upsert(dbc, &types.Observation{
		PlanetID:          planet.ID,
		ObservationDate:   today,
		OrbitalDistanceAU: 0.3066,
		Classification:    types.TooHot,
		UserID:            first.ID,
	})
	if err != nil {
		t.Fatalf("Upsert first: %v", err)
	}

	b, err := repo.Upsert(dbc, &types.Observation{
		PlanetID:          planet.ID,
		ObservationDate:   today,
		OrbitalDistanceAU: 1.2,
		Classification:    types.InsideHZ,
		UserID:            second.ID,
	})
	if err != nil {
		t.Fatalf("Upsert second: %v", err)
	}

	if b.ID != a.ID {
		t.Fatalf("expected row identity kept, got %s then %s", a.ID, b.ID)
	}
	if b.Classification != types.InsideHZ || b.OrbitalDistanceAU != 1.2 {
		t.Fatalf("expected values overwritten, got %+v", b)
	}
	if b.UserID != first.ID {
		t.Fatalf("expected original researcher kept, got %s", b.UserID)
	}
	if n := countObservations(t, dbc, repo, planet.ID); n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}
}

func TestObservationUpsertNewDayAppends(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	star := testutil.SeedStar(t, ctx, db, "Sol", 1, 10)
	planet := testutil.SeedPlanet(t, ctx, db, star.ID, "P", 1.0)
	researcher := testutil.SeedUser(t, ctx, db, "ada", types.RoleResearcher)

	repo := NewObservationRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}
	day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, d := range []time.Time{day, day.AddDate(0, 0, 1)} {
		if _, err := repo.Upsert(dbc, &types.Observation{
			PlanetID:          planet.ID,
			ObservationDate:   types.DateOf(d),
			OrbitalDistanceAU: 3.066,
			Classification:    types.TooCold,
			UserID:            researcher.ID,
		}); err != nil {
			t.Fatalf("Upsert %d: %v", i, err)
		}
	}

	rows, err := repo.ListByPlanetID(dbc, planet.ID)
	if err != nil {
		t.Fatalf("ListByPlanetID: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !time.Time(rows[0].ObservationDate).After(time.Time(rows[1].ObservationDate)) {
		t.Fatalf("expected newest first, got %v then %v", rows[0].ObservationDate, rows[1].ObservationDate)
	}
}

func TestObservationUpsertConcurrentSameKey(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	star := testutil.SeedStar(t, ctx, db, "Sol", 1, 10)
	planet := testutil.SeedPlanet(t, ctx, db, star.ID, "P", 1.0)
	researcher := testutil.SeedUser(t, ctx, db, "ada", types.RoleResearcher)

	repo := NewObservationRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}
	today := types.DateOf(time.Now())

	values := []types.Classification{types.TooHot, types.InsideHZ, types.TooCold, types.InsideHZ}
	var wg sync.WaitGroup
	errCh := make(chan error, len(values))
	for i, c := range values {
		wg.Add(1)
		go func(i int, c types.Classification) {
			defer wg.Done()
			_, err := repo.Upsert(dbc, &types.Observation{
				PlanetID:          planet.ID,
				ObservationDate:   today,
				OrbitalDistanceAU: float64(i),
				Classification:    c,
				UserID:            researcher.ID,
			})
			errCh <- err
		}(i, c)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("concurrent Upsert: %v", err)
		}
	}

	if n := countObservations(t, dbc, repo, planet.ID); n != 1 {
		t.Fatalf("expected exactly 1 surviving row, got %d", n)
	}
}

func TestObservationUpsertRejectsUnknownPlanetAndClassification(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	researcher := testutil.SeedUser(t, ctx, db, "ada", types.RoleResearcher)
	repo := NewObservationRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}
	today := types.DateOf(time.Now())

	_, err := repo.Upsert(dbc, &types.Observation{
		PlanetID:        uuid.New(),
		ObservationDate: today,
		Classification:  types.InsideHZ,
		UserID:          researcher.ID,
	})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unknown planet: expected not found, got %v", err)
	}

	_, err = repo.Upsert(dbc, &types.Observation{
		PlanetID:        uuid.New(),
		ObservationDate: today,
		Classification:  "Outside HZ",
		UserID:          researcher.ID,
	})
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("bad classification: expected invalid argument, got %v", err)
	}
}

func TestObservationUpsertRequiresKnownResearcher(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	star := testutil.SeedStar(t, ctx, db, "Sol", 1, 10)
	planet := testutil.SeedPlanet(t, ctx, db, star.ID, "P", 1.0)
	repo := NewObservationRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}
	today := types.DateOf(time.Now())

	_, err := repo.Upsert(dbc, &types.Observation{
		PlanetID:          planet.ID,
		ObservationDate:   today,
		OrbitalDistanceAU: 1,
		Classification:    types.InsideHZ,
	})
	if !errors.Is(err, errs.ErrMissingInput) || errs.FieldOf(err) != "researcher_id" {
		t.Fatalf("nil researcher: expected missing researcher_id, got %v", err)
	}

	_, err = repo.Upsert(dbc, &types.Observation{
		PlanetID:          planet.ID,
		ObservationDate:   today,
		OrbitalDistanceAU: 1,
		Classification:    types.InsideHZ,
		UserID:            uuid.New(),
	})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unknown researcher: expected not found, got %v", err)
	}
	if n := countObservations(t, dbc, repo, planet.ID); n != 0 {
		t.Fatalf("expected no rows, got %d", n)
	}
}

type foreignKey struct {
	Table    string `gorm:"column:table"`
	From     string `gorm:"column:from"`
	To       string `gorm:"column:to"`
	OnDelete string `gorm:"column:on_delete"`
}

func foreignKeys(t *testing.T, db *gorm.DB, table string) []foreignKey {
	t.Helper()
	var out []foreignKey
	if err := db.Raw("PRAGMA foreign_key_list(" + table + ")").Scan(&out).Error; err != nil {
		t.Fatalf("foreign_key_list(%s): %v", table, err)
	}
	return out
}

func TestMigratedForeignKeys(t *testing.T) {
	db := testutil.DB(t)

	if fks := foreignKeys(t, db, "stars"); len(fks) != 0 {
		t.Fatalf("stars: expected no foreign keys, got %+v", fks)
	}

	want := map[string][]foreignKey{
		"planets": {
			{Table: "stars", From: "star_id", To: "star_id", OnDelete: "CASCADE"},
		},
		"observations": {
			{Table: "planets", From: "planet_id", To: "planet_id", OnDelete: "CASCADE"},
			{Table: "users", From: "user_id", To: "user_id", OnDelete: "NO ACTION"},
		},
	}
	for table, expected := range want {
		got := foreignKeys(t, db, table)
		if len(got) != len(expected) {
			t.Fatalf("%s: expected %d foreign keys, got %+v", table, len(expected), got)
		}
		for _, fk := range expected {
			found := false
			for _, g := range got {
				if g == fk {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("%s: missing foreign key %+v, got %+v", table, fk, got)
			}
		}
	}
}

func TestStarCreateAcceptedWithForeignKeysOn(t *testing.T) {
	db := testutil.DB(t)
	var on int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&on).Error; err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if on != 1 {
		t.Fatalf("expected foreign keys enforced, got %d", on)
	}

	repo := NewStarRepo(db, testutil.Logger(t))
	if _, err := repo.Create(dbctx.Context{Ctx: context.Background()}, &types.Star{
		Name:       "Lonely",
		Luminosity: testutil.PtrFloat(1),
		DistanceLY: testutil.PtrFloat(4.2),
	}); err != nil {
		t.Fatalf("Create star with no planets: %v", err)
	}
}
