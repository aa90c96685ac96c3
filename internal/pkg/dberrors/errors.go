package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL unique_violation code
const uniqueViolation = "23505"

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	return pgErr, errors.As(err, &pgErr)
}

// IsDuplicateConstraintError reports a unique violation of the named constraint
func IsDuplicateConstraintError(err error, constraintName string) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintName
}
