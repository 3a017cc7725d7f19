package sqlite

import (
	"errors"
	"strings"

	"github.com/aussiebroadwan/aupwu/internal/union/store"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// mapUserConstraint turns a unique violation on users into the matching
// store sentinel.
func mapUserConstraint(err error) error {
	var serr *sqlitedrv.Error
	if !errors.As(err, &serr) || serr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return err
	}

	msg := serr.Error()
	switch {
	case strings.Contains(msg, "users.username"):
		return store.ErrUniqueUsername
	case strings.Contains(msg, "users.email"):
		return store.ErrUniqueEmail
	default:
		return store.ErrAlreadyExists
	}
}

func mapUniqueViolation(err error) error {
	var serr *sqlitedrv.Error
	if errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return store.ErrAlreadyExists
	}
	return err
}
