package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPostgresError_NoRows(t *testing.T) {
	assert.ErrorIs(t, MapPostgresError(pgx.ErrNoRows), models.ErrNotFound)
	assert.ErrorIs(t, MapPostgresError(sql.ErrNoRows), models.ErrNotFound)
	assert.ErrorIs(t, MapPostgresError(fmt.Errorf("scan: %w", sql.ErrNoRows)), models.ErrNotFound)
}

func TestMapPostgresError_UniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		field      string
	}{
		{"accounts_username_key", "username"},
		{"accounts_email_key", "email"},
		{"friendships_sender_id_recipient_id_key", "recipient_id"},
		{"places_name_key", "places_name"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			err := MapPostgresError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			assert.ErrorIs(t, err, models.ErrConflict)
			assert.ErrorIs(t, err, models.ErrValidation)

			var fe *models.FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestMapPostgresError_BadRequestCodes(t *testing.T) {
	for _, code := range []string{"23503", "23502", "23514"} {
		wrapped := fmt.Errorf("exec: %w", &pgconn.PgError{Code: code})
		assert.ErrorIs(t, MapPostgresError(wrapped), models.ErrBadRequest, code)
	}
}

func TestMapPostgresError_Passthrough(t *testing.T) {
	assert.NoError(t, MapPostgresError(nil))

	other := errors.New("connection reset")
	assert.Equal(t, other, MapPostgresError(other))
}
