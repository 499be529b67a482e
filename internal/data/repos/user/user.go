package user

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	types "github.com/yungbote/starcatalog-backend/internal/domain"
	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
	"github.com/yungbote/starcatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, user *types.User) (*types.User, error)
	GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
	GetByUsername(dbc dbctx.Context, username string) (*types.User, error)
	UsernameExists(dbc dbctx.Context, username string) (bool, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) Create(dbc dbctx.Context, user *types.User) (*types.User, error) {
	if user == nil {
		return nil, errs.InvalidArgument("user", "nil user")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := dbc.Conn(ur.db).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, errs.Conflict("username/"+user.Username, err)
		}
		return nil, err
	}
	return user, nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	var row types.User
	if err := dbc.Conn(ur.db).Where("user_id = ?", userID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("user", userID.String())
		}
		return nil, err
	}
	return &row, nil
}

// GetByUsername returns (nil, nil) when no such user exists.
func (ur *userRepo) GetByUsername(dbc dbctx.Context, username string) (*types.User, error) {
	var rows []*types.User
	if err := dbc.Conn(ur.db).
		Where("username = ?", strings.TrimSpace(username)).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (ur *userRepo) UsernameExists(dbc dbctx.Context, username string) (bool, error) {
	var count int64
	if err := dbc.Conn(ur.db).
		Model(&types.User{}).
		Where("username = ?", strings.TrimSpace(username)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
