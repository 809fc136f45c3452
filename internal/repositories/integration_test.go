//go:build integration

package repositories

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/BradenHooton/tourexpress/internal/database"
	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDatabase starts a throwaway Postgres, applies migrations and
// returns a connected DB. The container is terminated on cleanup.
func setupTestDatabase(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("tourexpress"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	sqlDB := stdlib.OpenDBFromPool(pool)
	require.NoError(t, database.Migrate(ctx, sqlDB))
	_ = sqlDB.Close()

	db := database.NewFromPool(pool, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(db.Close)
	return db
}

func TestIntegration_AccountRepository(t *testing.T) {
	db := setupTestDatabase(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	ana, err := repo.Create(ctx, &models.Account{
		Username:     "ana",
		Email:        "Ana@X.com",
		PasswordHash: "hash",
		Role:         models.RoleAdmin,
		PendingToken: "a1b2c3",
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", ana.Email)
	assert.True(t, ana.NeedsSecurityKey())

	byEmail, err := repo.GetByEmail(ctx, "ANA@x.com")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, byEmail.ID)

	missing, err := repo.ListAdminsMissingKey(ctx, 10)
	require.NoError(t, err)
	require.Len(t, missing, 1)

	ana.IsActive = false
	_, err = repo.Update(ctx, ana)
	require.NoError(t, err)

	keyed, err := repo.SetSecurityKeyIfEmpty(ctx, ana.ID, "0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", keyed.SecurityKey)
	assert.False(t, keyed.IsActive, "only the key column is written")
	assert.Equal(t, "a1b2c3", keyed.PendingToken)

	_, err = repo.SetSecurityKeyIfEmpty(ctx, ana.ID, "fedcba9876543210")
	assert.ErrorIs(t, err, models.ErrNotFound, "an existing key is never replaced")

	missing, err = repo.ListAdminsMissingKey(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, missing)

	rejected := errors.New("code mismatch")
	_, err = repo.Modify(ctx, ana.ID, func(a *models.Account) error {
		a.PendingToken = ""
		return rejected
	})
	assert.ErrorIs(t, err, rejected)
	unchanged, err := repo.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3", unchanged.PendingToken, "a failed modify rolls back")

	confirmed, err := repo.Modify(ctx, ana.ID, func(a *models.Account) error {
		a.PendingToken = ""
		a.IsActive = true
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, confirmed.PendingToken)
	assert.True(t, confirmed.IsActive)
	assert.Equal(t, "0123456789abcdef", confirmed.SecurityKey)

	_, err = repo.Modify(ctx, 9999, func(a *models.Account) error { return nil })
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.Create(ctx, &models.Account{Username: "ana", Email: "other@x.com", PasswordHash: "h", IsActive: true})
	var fe *models.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "username", fe.Field)

	_, err = repo.Create(ctx, &models.Account{Username: "ana2", Email: "ana@x.com", PasswordHash: "h", IsActive: true})
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "email", fe.Field)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIntegration_GameTables(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	accounts := NewAccountRepository(db)
	owner, err := accounts.Create(ctx, &models.Account{Username: "ben", Email: "ben@x.com", PasswordHash: "h", IsActive: true})
	require.NoError(t, err)

	territories := NewTerritoryRepository(db)
	for i, pts := range []int{5, 50, 20} {
		_, err := territories.Create(ctx, &models.Territory{
			OwnerID: owner.ID, Name: []string{"a", "b", "c"}[i], Status: models.RatingNone, Points: pts,
		})
		require.NoError(t, err)
	}

	top, err := territories.TopByPoints(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, 50, top[0].Points)

	_, err = territories.AddVisit(ctx, &models.Visit{VisitorID: owner.ID, TerritoryID: top[0].ID, Rating: models.RatingNormal})
	require.NoError(t, err)
	visits, err := territories.ListVisits(ctx, top[0].ID)
	require.NoError(t, err)
	assert.Len(t, visits, 1)

	articles := NewArticleRepository(db)
	art, err := articles.Create(ctx, &models.Article{Name: "Sofa", Price: "19.99"})
	require.NoError(t, err)
	assert.Equal(t, "19.99", art.Price)

	lounges := NewLoungeRepository(db)
	full, err := lounges.Create(ctx, &models.Lounge{Name: "full", OwnerID: owner.ID})
	require.NoError(t, err)
	_, err = lounges.Create(ctx, &models.Lounge{Name: "empty", OwnerID: owner.ID})
	require.NoError(t, err)
	_, err = lounges.AddItem(ctx, &models.LoungeItem{LoungeID: full.ID, ArticleID: art.ID, Quantity: 2})
	require.NoError(t, err)

	ranking, err := lounges.TopByItemCount(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, "full", ranking[0].Name)
	assert.Equal(t, int64(1), ranking[0].ItemCount)

	stats, err := NewStatisticsRepository(db).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalAccounts)
	assert.Equal(t, int64(3), stats.TotalTerritories)
}
