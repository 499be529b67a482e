package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/starcatalog-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string, role types.Role) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "pw",
		Role:         role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedStar(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, luminosity, distanceLY float64) *types.Star {
	tb.Helper()
	s := &types.Star{
		ID:           uuid.New(),
		Name:         name,
		Luminosity:   PtrFloat(luminosity),
		DistanceLY:   PtrFloat(distanceLY),
		SpectralType: "G2V",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed star: %v", err)
	}
	return s
}

func SeedPlanet(tb testing.TB, ctx context.Context, tx *gorm.DB, starID uuid.UUID, name string, separationArcsec float64) *types.Planet {
	tb.Helper()
	p := &types.Planet{
		ID:                      uuid.New(),
		StarID:                  starID,
		Name:                    name,
		Type:                    "Terrestrial",
		AngularSeparationArcsec: PtrFloat(separationArcsec),
		DiscoveryMethod:         types.DefaultDiscoveryMethod,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed planet: %v", err)
	}
	return p
}

func PtrFloat(v float64) *float64 { return &v }
