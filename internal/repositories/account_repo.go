package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BradenHooton/tourexpress/internal/database"
	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `id, username, email, password_hash, role, pending_token, security_key,
	is_active, is_staff, is_superuser, created_at, updated_at`

type AccountRepository struct {
	db   *database.DB
	pool *pgxpool.Pool
}

func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db, pool: db.Pool}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccountRow(scanner rowScanner) (*models.Account, error) {
	var a models.Account
	err := scanner.Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role,
		&a.PendingToken, &a.SecurityKey,
		&a.IsActive, &a.IsStaff, &a.IsSuperuser,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &a, nil
}

func scanAccountRows(rows pgx.Rows) ([]*models.Account, error) {
	defer rows.Close()

	accounts := make([]*models.Account, 0)
	for rows.Next() {
		a, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccountRow(r.pool.QueryRow(ctx, query, id))
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return scanAccountRow(r.pool.QueryRow(ctx, query, username))
}

// GetByEmail matches case-insensitively; emails are stored lower-cased.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccountRow(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	return scanAccountRows(rows)
}

// ListAdminsMissingKey returns admin-role accounts whose security key is still empty.
func (r *AccountRepository) ListAdminsMissingKey(ctx context.Context, limit int) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE role = 'admin' AND security_key = '' ORDER BY id LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query admins without key: %w", err)
	}
	return scanAccountRows(rows)
}

func (r *AccountRepository) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if a.Role == "" {
		a.Role = models.RolePlayer
	}

	query := `
		INSERT INTO accounts (username, email, password_hash, role, pending_token, security_key,
			is_active, is_staff, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + accountColumns

	return scanAccountRow(r.pool.QueryRow(ctx, query,
		a.Username, strings.ToLower(a.Email), a.PasswordHash, a.Role, a.PendingToken, a.SecurityKey,
		a.IsActive, a.IsStaff, a.IsSuperuser,
	))
}

const updateAccountQuery = `
	UPDATE accounts SET username = $1, email = $2, password_hash = $3, role = $4,
		pending_token = $5, security_key = $6, is_active = $7, is_staff = $8,
		is_superuser = $9, updated_at = $10
	WHERE id = $11
	RETURNING ` + accountColumns

func updateAccountArgs(a *models.Account) []interface{} {
	a.UpdatedAt = time.Now()
	return []interface{}{
		a.Username, strings.ToLower(a.Email), a.PasswordHash, a.Role,
		a.PendingToken, a.SecurityKey, a.IsActive, a.IsStaff,
		a.IsSuperuser, a.UpdatedAt, a.ID,
	}
}

// Update persists every mutable column of the account. There is no version
// check; the last writer wins. Use Modify when the write depends on what
// was read.
func (r *AccountRepository) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	return scanAccountRow(r.pool.QueryRow(ctx, updateAccountQuery, updateAccountArgs(a)...))
}

// Modify locks the account row, hands it to fn and writes the result back
// in the same transaction. An error from fn rolls back and is returned
// unchanged.
func (r *AccountRepository) Modify(ctx context.Context, id int64, fn func(*models.Account) error) (*models.Account, error) {
	var out *models.Account
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		a, err := scanAccountRow(tx.QueryRow(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
		a.ID = id
		out, err = scanAccountRow(tx.QueryRow(ctx, updateAccountQuery, updateAccountArgs(a)...))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetSecurityKeyIfEmpty stores key only on an admin-role row that has no
// key yet. No other column is written. ErrNotFound means no row qualified.
func (r *AccountRepository) SetSecurityKeyIfEmpty(ctx context.Context, id int64, key string) (*models.Account, error) {
	query := `
		UPDATE accounts SET security_key = $1, updated_at = NOW()
		WHERE id = $2 AND role = 'admin' AND security_key = ''
		RETURNING ` + accountColumns

	return scanAccountRow(r.pool.QueryRow(ctx, query, key, id))
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return n, nil
}
