package services

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes.
const (
	exclusionViolation = "23P01"
	uniqueViolation    = "23505"
)

// overlapConstraint is the EXCLUDE constraint that keeps active budgets apart.
const overlapConstraint = "budgets_no_overlap"

// isOverlapViolation reports whether err came from the database rejecting an
// overlapping active budget.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == exclusionViolation &&
		(pgErr.ConstraintName == "" || pgErr.ConstraintName == overlapConstraint)
}

// isUniqueViolation reports whether err is a unique-key violation from Postgres or SQLite.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
