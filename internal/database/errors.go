package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the postgres error code for a unique constraint
// violation.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a violated unique
// constraint. Handles both backing drivers: pgconn errors carry a
// SQLSTATE, sqlite only exposes a message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
