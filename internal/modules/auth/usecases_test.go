package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/starcatalog-backend/internal/data/repos"
	"github.com/yungbote/starcatalog-backend/internal/data/repos/testutil"
	types "github.com/yungbote/starcatalog-backend/internal/domain"
	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
	"github.com/yungbote/starcatalog-backend/internal/platform/apierr"
)

func newUsecases(t *testing.T, now func() time.Time) Usecases {
	t.Helper()
	db := testutil.DB(t)
	return New(UsecasesDeps{
		Log:       testutil.Logger(t),
		Users:     repos.NewUserRepo(db, testutil.Logger(t)),
		JWTSecret: "test-secret",
		Now:       now,
	})
}

func status(t *testing.T, err error) int {
	t.Helper()
	var ae *apierr.Error
	require.True(t, errors.As(err, &ae), "expected *apierr.Error, got %v", err)
	return ae.Status
}

func TestRegisterAndLogin(t *testing.T) {
	uc := newUsecases(t, nil)
	ctx := context.Background()

	u, err := uc.Register(ctx, RegisterInput{Username: "ada", Password: "hunter22", Role: "Researcher"})
	require.NoError(t, err)
	assert.Equal(t, types.RoleResearcher, u.Role)
	assert.NotEqual(t, "hunter22", u.PasswordHash)

	out, err := uc.Login(ctx, LoginInput{Username: "ada", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), out.ExpiresIn)

	claims, err := uc.ParseToken(out.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	assert.Equal(t, types.RoleResearcher, claims.Role)
}

func TestRegister_Rejections(t *testing.T) {
	uc := newUsecases(t, nil)
	ctx := context.Background()

	_, err := uc.Register(ctx, RegisterInput{Username: "bob", Password: "secret1", Role: "viewer"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, RegisterInput{Username: "bob", Password: "secret1", Role: "viewer"})
	assert.Equal(t, http.StatusConflict, status(t, err))

	_, err = uc.Register(ctx, RegisterInput{Username: "eve", Password: "secret1", Role: "admin"})
	assert.Equal(t, http.StatusBadRequest, status(t, err))
	assert.Equal(t, "role", errs.FieldOf(err))

	_, err = uc.Register(ctx, RegisterInput{Username: "", Password: "secret1", Role: "viewer"})
	assert.True(t, errors.Is(err, errs.ErrMissingInput))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	uc := newUsecases(t, nil)
	ctx := context.Background()
	_, err := uc.Register(ctx, RegisterInput{Username: "carol", Password: "correct", Role: "viewer"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, LoginInput{Username: "carol", Password: "wrong!"})
	assert.Equal(t, http.StatusUnauthorized, status(t, err))

	_, err = uc.Login(ctx, LoginInput{Username: "nobody", Password: "whatever"})
	assert.Equal(t, http.StatusUnauthorized, status(t, err))
}

func TestParseToken_RejectsExpiredAndForeignTokens(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	uc := newUsecases(t, clock)
	ctx := context.Background()
	_, err := uc.Register(ctx, RegisterInput{Username: "dan", Password: "secret1", Role: "viewer"})
	require.NoError(t, err)
	out, err := uc.Login(ctx, LoginInput{Username: "dan", Password: "secret1"})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = uc.ParseToken(out.Token)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized), "got %v", err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             types.RoleResearcher,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = uc.ParseToken(forged)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))

	_, err = uc.ParseToken("")
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))
}
