package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/BradenHooton/tourexpress/internal/database"
	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/jmoiron/sqlx"
)

// table is the shared CRUD implementation for the catalog and game tables.
// fields are the writable columns; generated lists columns the database
// fills in (timestamps) that are read back but never written.
type table[T any] struct {
	db        *sqlx.DB
	name      string
	fields    []string
	generated []string
}

func (t table[T]) columns() string {
	cols := append([]string{"id"}, t.fields...)
	return strings.Join(append(cols, t.generated...), ", ")
}

func (t table[T]) List(ctx context.Context, limit, offset int) ([]T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id LIMIT $1 OFFSET $2`, t.columns(), t.name)

	out := make([]T, 0)
	if err := t.db.SelectContext(ctx, &out, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.name, database.MapPostgresError(err))
	}
	return out, nil
}

func (t table[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, t.columns(), t.name)

	var rec T
	if err := t.db.GetContext(ctx, &rec, query, id); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &rec, nil
}

func (t table[T]) Create(ctx context.Context, rec *T) (*T, error) {
	named := make([]string, len(t.fields))
	for i, f := range t.fields {
		named[i] = ":" + f
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		t.name, strings.Join(t.fields, ", "), strings.Join(named, ", "), t.columns())

	return t.namedGet(ctx, query, rec)
}

// Update writes every writable column of rec to the row identified by its id.
func (t table[T]) Update(ctx context.Context, rec *T) (*T, error) {
	sets := make([]string, len(t.fields))
	for i, f := range t.fields {
		sets[i] = f + " = :" + f
	}
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = :id RETURNING %s`,
		t.name, strings.Join(sets, ", "), t.columns())

	return t.namedGet(ctx, query, rec)
}

func (t table[T]) Delete(ctx context.Context, id int64) error {
	result, err := t.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name), id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (t table[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := t.db.GetContext(ctx, &n, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t.name)); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return n, nil
}

func (t table[T]) namedGet(ctx context.Context, query string, rec *T) (*T, error) {
	rows, err := t.db.NamedQueryContext(ctx, query, rec)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, database.MapPostgresError(err)
		}
		return nil, models.ErrNotFound
	}

	var out T
	if err := rows.StructScan(&out); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", t.name, err)
	}
	return &out, nil
}

type PlaceRepository struct {
	table[models.Place]
}

func NewPlaceRepository(db *database.DB) *PlaceRepository {
	return &PlaceRepository{table[models.Place]{
		db: db.SQL, name: "places",
		fields: []string{"name", "description", "location"},
	}}
}

type MissionRepository struct {
	table[models.Mission]
}

func NewMissionRepository(db *database.DB) *MissionRepository {
	return &MissionRepository{table[models.Mission]{
		db: db.SQL, name: "missions",
		fields: []string{"title", "description", "place_id", "minigame_url"},
	}}
}

type ArticleRepository struct {
	table[models.Article]
}

func NewArticleRepository(db *database.DB) *ArticleRepository {
	return &ArticleRepository{table[models.Article]{
		db: db.SQL, name: "articles",
		fields: []string{"name", "description", "price"},
	}}
}

type GiftRepository struct {
	table[models.Gift]
}

func NewGiftRepository(db *database.DB) *GiftRepository {
	return &GiftRepository{table[models.Gift]{
		db: db.SQL, name: "gifts",
		fields: []string{"name", "description", "bonus_points"},
	}}
}
