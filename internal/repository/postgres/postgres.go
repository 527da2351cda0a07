// Package postgres implements the menu repositories on PostgreSQL via pgx.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool     { return pgCode(err) == uniqueViolation }
func isForeignKeyViolation(err error) bool { return pgCode(err) == foreignKeyViolation }
