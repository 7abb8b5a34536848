package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes translated by MapError.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgNotNull         = "23502"
)

// Errors names the domain errors a package wants database failures mapped to.
// A nil field leaves that class of failure unmapped.
type Errors struct {
	NotFound  error
	Duplicate error
	Invalid   error
}

// MapError translates database errors to domain errors: sql.ErrNoRows to
// NotFound, unique violations to Duplicate, and check or not-null
// violations to Invalid. Anything else is returned unchanged.
func MapError(err error, domain Errors) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && domain.NotFound != nil {
		return domain.NotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgUniqueViolation && domain.Duplicate != nil:
		return domain.Duplicate
	case (pgErr.Code == pgCheckViolation || pgErr.Code == pgNotNull) && domain.Invalid != nil:
		return errors.Join(domain.Invalid, errors.New(pgErr.Message))
	}
	return err
}
