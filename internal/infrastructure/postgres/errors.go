package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/firmhub/internal/domain/repository"
)

const (
	codeUniqueViolation    = "23505"
	codeInvalidTextRepr    = "22P02"
	codeForeignKeyViolated = "23503"
)

var constraintErrors = map[string]error{
	"vendors_username_key": repository.ErrDuplicateUsername,
	"vendors_email_key":    repository.ErrDuplicateEmail,
	"firms_name_key":       repository.ErrDuplicateFirmName,
}

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
				return mapped
			}
		case codeInvalidTextRepr, codeForeignKeyViolated:
			// malformed uuid or a vendor that vanished
			return repository.ErrNotFound
		}
	}
	return err
}
