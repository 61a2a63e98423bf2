package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgCodeCheckViolation = "23514"

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCodeCheckViolation
	}
	return false
}
