package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/tourexpress/internal/database"
	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/jmoiron/sqlx"
)

type TerritoryRepository struct {
	table[models.Territory]
	visits table[models.Visit]
}

func NewTerritoryRepository(db *database.DB) *TerritoryRepository {
	return &TerritoryRepository{
		table: table[models.Territory]{
			db: db.SQL, name: "territories",
			fields: []string{"owner_id", "name", "description", "status", "points"},
		},
		visits: table[models.Visit]{
			db: db.SQL, name: "visits",
			fields:    []string{"visitor_id", "territory_id", "rating"},
			generated: []string{"visited_at"},
		},
	}
}

// TopByPoints returns the n highest-scoring territories.
func (r *TerritoryRepository) TopByPoints(ctx context.Context, n int) ([]models.Territory, error) {
	query := `SELECT ` + r.columns() + ` FROM territories ORDER BY points DESC, id LIMIT $1`

	out := make([]models.Territory, 0)
	if err := r.db.SelectContext(ctx, &out, query, n); err != nil {
		return nil, fmt.Errorf("failed to rank territories: %w", database.MapPostgresError(err))
	}
	return out, nil
}

func (r *TerritoryRepository) AddVisit(ctx context.Context, v *models.Visit) (*models.Visit, error) {
	return r.visits.Create(ctx, v)
}

// ListVisits returns the visits to a territory, newest first.
func (r *TerritoryRepository) ListVisits(ctx context.Context, territoryID int64) ([]models.Visit, error) {
	query := `SELECT ` + r.visits.columns() + ` FROM visits WHERE territory_id = $1 ORDER BY visited_at DESC, id DESC`

	out := make([]models.Visit, 0)
	if err := r.db.SelectContext(ctx, &out, query, territoryID); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", database.MapPostgresError(err))
	}
	return out, nil
}

type FriendshipRepository struct {
	table[models.Friendship]
}

func NewFriendshipRepository(db *database.DB) *FriendshipRepository {
	return &FriendshipRepository{table[models.Friendship]{
		db: db.SQL, name: "friendships",
		fields:    []string{"sender_id", "recipient_id", "status"},
		generated: []string{"created_at"},
	}}
}

// SetStatus moves a friendship to status and returns the updated row.
func (r *FriendshipRepository) SetStatus(ctx context.Context, id int64, status models.FriendshipStatus) (*models.Friendship, error) {
	query := `UPDATE friendships SET status = $1 WHERE id = $2 RETURNING ` + r.columns()

	var f models.Friendship
	if err := r.db.GetContext(ctx, &f, query, status, id); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &f, nil
}

type SentGiftRepository struct {
	table[models.SentGift]
}

func NewSentGiftRepository(db *database.DB) *SentGiftRepository {
	return &SentGiftRepository{table[models.SentGift]{
		db: db.SQL, name: "sent_gifts",
		fields:    []string{"gift_id", "from_id", "to_id"},
		generated: []string{"sent_at"},
	}}
}

// ListReceived returns the gifts sent to an account, newest first.
func (r *SentGiftRepository) ListReceived(ctx context.Context, accountID int64) ([]models.SentGift, error) {
	query := `SELECT ` + r.columns() + ` FROM sent_gifts WHERE to_id = $1 ORDER BY sent_at DESC, id DESC`

	out := make([]models.SentGift, 0)
	if err := r.db.SelectContext(ctx, &out, query, accountID); err != nil {
		return nil, fmt.Errorf("failed to list received gifts: %w", database.MapPostgresError(err))
	}
	return out, nil
}

type LoungeRepository struct {
	table[models.Lounge]
	rooms table[models.LoungeRoom]
	items table[models.LoungeItem]
}

func NewLoungeRepository(db *database.DB) *LoungeRepository {
	return &LoungeRepository{
		table: table[models.Lounge]{
			db: db.SQL, name: "lounges",
			fields: []string{"name", "owner_id"},
		},
		rooms: table[models.LoungeRoom]{
			db: db.SQL, name: "lounge_rooms",
			fields: []string{"lounge_id", "name"},
		},
		items: table[models.LoungeItem]{
			db: db.SQL, name: "lounge_items",
			fields: []string{"lounge_id", "article_id", "quantity"},
		},
	}
}

func (r *LoungeRepository) ListRooms(ctx context.Context, loungeID int64) ([]models.LoungeRoom, error) {
	query := `SELECT ` + r.rooms.columns() + ` FROM lounge_rooms WHERE lounge_id = $1 ORDER BY id`

	out := make([]models.LoungeRoom, 0)
	if err := r.db.SelectContext(ctx, &out, query, loungeID); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", database.MapPostgresError(err))
	}
	return out, nil
}

func (r *LoungeRepository) ListItems(ctx context.Context, loungeID int64) ([]models.LoungeItem, error) {
	query := `SELECT ` + r.items.columns() + ` FROM lounge_items WHERE lounge_id = $1 ORDER BY id`

	out := make([]models.LoungeItem, 0)
	if err := r.db.SelectContext(ctx, &out, query, loungeID); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", database.MapPostgresError(err))
	}
	return out, nil
}

func (r *LoungeRepository) AddRoom(ctx context.Context, room *models.LoungeRoom) (*models.LoungeRoom, error) {
	return r.rooms.Create(ctx, room)
}

func (r *LoungeRepository) AddItem(ctx context.Context, item *models.LoungeItem) (*models.LoungeItem, error) {
	return r.items.Create(ctx, item)
}

// DeleteRoom removes a room only if it belongs to loungeID.
func (r *LoungeRepository) DeleteRoom(ctx context.Context, loungeID, roomID int64) error {
	return r.deleteChild(ctx, "lounge_rooms", loungeID, roomID)
}

// DeleteItem removes an item only if it belongs to loungeID.
func (r *LoungeRepository) DeleteItem(ctx context.Context, loungeID, itemID int64) error {
	return r.deleteChild(ctx, "lounge_items", loungeID, itemID)
}

func (r *LoungeRepository) deleteChild(ctx context.Context, tableName string, loungeID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND lounge_id = $2`, tableName), id, loungeID)
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

// TopByItemCount ranks lounges by how many item rows they hold.
func (r *LoungeRepository) TopByItemCount(ctx context.Context, n int) ([]models.LoungeRanking, error) {
	query := `
		SELECT l.id, l.name, l.owner_id, COUNT(i.id) AS item_count
		FROM lounges l
		LEFT JOIN lounge_items i ON i.lounge_id = l.id
		GROUP BY l.id, l.name, l.owner_id
		ORDER BY item_count DESC, l.id
		LIMIT $1`

	out := make([]models.LoungeRanking, 0)
	if err := r.db.SelectContext(ctx, &out, query, n); err != nil {
		return nil, fmt.Errorf("failed to rank lounges: %w", database.MapPostgresError(err))
	}
	return out, nil
}

// StatisticsRepository computes the global counters in one round trip.
type StatisticsRepository struct {
	db *sqlx.DB
}

func NewStatisticsRepository(db *database.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db.SQL}
}

func (r *StatisticsRepository) Get(ctx context.Context) (*models.Statistics, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM accounts)    AS total_accounts,
			(SELECT COUNT(*) FROM places)      AS total_places,
			(SELECT COUNT(*) FROM missions)    AS total_missions,
			(SELECT COUNT(*) FROM territories) AS total_territories,
			(SELECT COUNT(*) FROM gifts)       AS total_gifts`

	var s models.Statistics
	if err := r.db.GetContext(ctx, &s, query); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &s, nil
}
