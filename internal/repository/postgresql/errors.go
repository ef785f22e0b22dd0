package postgresql

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// violatedConstraint returns the constraint name when err is a Postgres
// error with the given SQLSTATE code.
func violatedConstraint(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// isUUID guards uuid columns against casts that would fail with 22P02
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
