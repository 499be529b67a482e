package catalog

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	errs "github.com/yungbote/starcatalog-backend/internal/pkg/errors"
)

// translate classifies a store error into the shared failure kinds. what/key
// describe the row the statement was about, for NotFound and Conflict detail.
func translate(err error, what, key string) error {
	if err == nil {
		return nil
	}
	if errs.KindOf(err) != nil {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NotFound(what, key)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.Conflict(key, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errs.NotFound(what, key)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return errs.Conflict(key, err)
		case pgErr.Code == "23503":
			return errs.NotFound(what, key)
		case transientPgClass(pgErr.Code):
			return errs.StoreUnavailable(err)
		}
		return fmt.Errorf("%s %s: %w", what, key, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return errs.StoreUnavailable(err)
		case sqlite3.ErrConstraint:
			if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
				return errs.Conflict(key, err)
			}
			if sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
				return errs.NotFound(what, key)
			}
		}
		return fmt.Errorf("%s %s: %w", what, key, err)
	}

	if transientConn(err) {
		return errs.StoreUnavailable(err)
	}
	return fmt.Errorf("%s %s: %w", what, key, err)
}

// Connection exceptions, transaction rollbacks (serialization, deadlock),
// insufficient resources and operator intervention.
func transientPgClass(code string) bool {
	for _, prefix := range []string{"08", "40", "53", "57P"} {
		if strings.HasPrefix(code, prefix) {
			return true
		}
	}
	return false
}

func transientConn(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
