package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueFields maps unique constraints to the input field they guard.
var uniqueFields = map[string]string{
	"accounts_username_key":                  "username",
	"accounts_email_key":                     "email",
	"friendships_sender_id_recipient_id_key": "recipient_id",
}

// MapPostgresError translates driver errors into model errors. Unique
// violations become field errors so callers can report them as
// validation failures.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return models.NewFieldError(uniqueField(pgErr.ConstraintName), "already exists", models.ErrConflict)
		case "23503": // foreign_key_violation
			return models.ErrBadRequest
		case "23502": // not_null_violation
			return models.ErrBadRequest
		case "23514": // check_violation
			return models.ErrBadRequest
		}
	}

	return err
}

func uniqueField(constraint string) string {
	if field, ok := uniqueFields[constraint]; ok {
		return field
	}
	return strings.TrimSuffix(constraint, "_key")
}

func (db *DB) WithTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}
