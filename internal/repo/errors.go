package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrEmailTaken    = errors.New("email already exists")
	ErrUsernameTaken = errors.New("username already exists")
	ErrDuplicate     = errors.New("duplicate key")
)

const uniqueViolationCode = "23505"

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

// mapUserConflict resolves a unique violation on users to the column it hit.
// email is checked first.
func mapUserConflict(err error) error {
	target, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	switch {
	case strings.Contains(target, "email"):
		return fmt.Errorf("%w: %v", ErrEmailTaken, err)
	case strings.Contains(target, "username"):
		return fmt.Errorf("%w: %v", ErrUsernameTaken, err)
	default:
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
}

// uniqueViolation reports whether err is a unique violation from any of the
// supported drivers and returns the constraint (or message) naming the column.
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		if pgErr.ConstraintName != "" {
			return pgErr.ConstraintName, true
		}
		return pgErr.Detail, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
		if pqErr.Constraint != "" {
			return pqErr.Constraint, true
		}
		return pqErr.Detail, true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return err.Error(), true
	}

	// sqlite: "UNIQUE constraint failed: users.email"
	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
		return msg[strings.Index(msg, "UNIQUE constraint failed"):], true
	}

	return "", false
}
