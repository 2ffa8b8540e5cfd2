package repository

import (
	"errors"

	"github.com/fridaygt/fridaygt/common/ordering"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// notFound maps pgx.ErrNoRows to a NotFound error and leaves other errors alone
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ordering.NotFound(what + " not found")
	}
	return err
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
