package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/starcatalog-backend/internal/data/repos"
	types "github.com/yungbote/starcatalog-backend/internal/domain"
	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
	"github.com/yungbote/starcatalog-backend/internal/platform/apierr"
	"github.com/yungbote/starcatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

const (
	DefaultTokenTTL = time.Hour
	bcryptCost      = 10
	minPasswordLen  = 6
)

type UsecasesDeps struct {
	Log   *logger.Logger
	Users repos.UserRepo

	JWTSecret string
	TokenTTL  time.Duration
	Now       func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.TokenTTL <= 0 {
		deps.TokenTTL = DefaultTokenTTL
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	deps.Log = deps.Log.With("module", "auth")
	return Usecases{deps: deps}
}

type RegisterInput struct {
	Username string
	Password string
	Role     string
}

type LoginInput struct {
	Username string
	Password string
}

type LoginOutput struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	User      *types.User `json:"user"`
}

// Claims carry the user id in sub and the role used for write gating.
type Claims struct {
	Role types.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

func (u Usecases) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apierr.FromError(errs.MissingInput("username"), "invalid_request")
	}
	if in.Password == "" {
		return nil, apierr.FromError(errs.MissingInput("password"), "invalid_request")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apierr.FromError(errs.InvalidArgument("password", "must be at least %d characters", minPasswordLen), "invalid_request")
	}
	role := types.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	if role == "" {
		return nil, apierr.FromError(errs.MissingInput("role"), "invalid_request")
	}
	if !role.Valid() {
		return nil, apierr.FromError(errs.InvalidArgument("role", "must be 'researcher' or 'viewer'"), "invalid_request")
	}

	dbc := dbctx.Context{Ctx: ctx}
	taken, err := u.deps.Users.UsernameExists(dbc, username)
	if err != nil {
		return nil, apierr.FromError(err, "register_failed")
	}
	if taken {
		return nil, apierr.FromError(errs.Conflict("username/"+username, errors.New("username is already taken")), "register_failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, apierr.FromError(fmt.Errorf("hash password: %w", err), "register_failed")
	}
	created, err := u.deps.Users.Create(dbc, &types.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		// Lost a race with a concurrent registration of the same name.
		return nil, apierr.FromError(err, "register_failed")
	}
	u.deps.Log.Info("user registered", "user_id", created.ID, "role", created.Role)
	return created, nil
}

func (u Usecases) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return LoginOutput{}, apierr.FromError(errs.MissingInput("username"), "invalid_request")
	}
	if in.Password == "" {
		return LoginOutput{}, apierr.FromError(errs.MissingInput("password"), "invalid_request")
	}

	user, err := u.deps.Users.GetByUsername(dbctx.Context{Ctx: ctx}, username)
	if err != nil {
		return LoginOutput{}, apierr.FromError(err, "login_failed")
	}
	if user == nil {
		return LoginOutput{}, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, invalidCredentials()
	}

	tok, err := u.issue(user)
	if err != nil {
		return LoginOutput{}, apierr.FromError(err, "login_failed")
	}
	return LoginOutput{
		Token:     tok,
		ExpiresIn: int64(u.deps.TokenTTL / time.Second),
		User:      user,
	}, nil
}

func invalidCredentials() error {
	return apierr.FromError(errs.Unauthorized(errors.New("invalid credentials")), "invalid_credentials")
}

func (u Usecases) issue(user *types.User) (string, error) {
	if u.deps.JWTSecret == "" {
		return "", errors.New("jwt secret not configured")
	}
	now := u.deps.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.deps.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.deps.JWTSecret))
}

// ParseToken verifies signature, algorithm and expiry.
func (u Usecases) ParseToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, errs.Unauthorized(errors.New("missing token"))
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(u.deps.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(u.deps.Now),
	)
	if err != nil {
		return nil, errs.Unauthorized(fmt.Errorf("parse token: %w", err))
	}
	if !tok.Valid {
		return nil, errs.Unauthorized(errors.New("invalid token"))
	}
	if _, err := claims.UserID(); err != nil {
		return nil, errs.Unauthorized(fmt.Errorf("invalid subject: %w", err))
	}
	return claims, nil
}
