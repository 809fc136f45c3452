package models

import "time"

// Rating is the shared scale used for territory status and visit ratings.
type Rating string

const (
	RatingNone    Rating = "none"
	RatingLow     Rating = "low"
	RatingNormal  Rating = "normal"
	RatingLiked   Rating = "liked"
	RatingAmazing Rating = "amazing"
)

// FriendshipStatus tracks a friend request.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipRejected FriendshipStatus = "rejected"
)

type Place struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Location    string `db:"location" json:"location"`
}

type Mission struct {
	ID          int64   `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	Description string  `db:"description" json:"description"`
	PlaceID     int64   `db:"place_id" json:"place_id"`
	MinigameURL *string `db:"minigame_url" json:"minigame_url,omitempty"`
}

// Article is an item sold in the shop and placed in lounges.
type Article struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
	Price       string  `db:"price" json:"price"` // NUMERIC(10,2)
}

type Territory struct {
	ID          int64   `db:"id" json:"id"`
	OwnerID     int64   `db:"owner_id" json:"owner_id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
	Status      Rating  `db:"status" json:"status"`
	Points      int     `db:"points" json:"points"`
}

type Visit struct {
	ID          int64     `db:"id" json:"id"`
	VisitorID   int64     `db:"visitor_id" json:"visitor_id"`
	TerritoryID int64     `db:"territory_id" json:"territory_id"`
	Rating      Rating    `db:"rating" json:"rating"`
	VisitedAt   time.Time `db:"visited_at" json:"visited_at"`
}

type Friendship struct {
	ID          int64            `db:"id" json:"id"`
	SenderID    int64            `db:"sender_id" json:"sender_id"`
	RecipientID int64            `db:"recipient_id" json:"recipient_id"`
	Status      FriendshipStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// Gift is a catalog entry players can send to each other.
type Gift struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
	BonusPoints int     `db:"bonus_points" json:"bonus_points"`
}

type SentGift struct {
	ID     int64     `db:"id" json:"id"`
	GiftID int64     `db:"gift_id" json:"gift_id"`
	FromID int64     `db:"from_id" json:"from_id"`
	ToID   int64     `db:"to_id" json:"to_id"`
	SentAt time.Time `db:"sent_at" json:"sent_at"`
}

// Lounge is a player-owned friend lounge.
type Lounge struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	OwnerID int64  `db:"owner_id" json:"owner_id"`
}

type LoungeRoom struct {
	ID       int64  `db:"id" json:"id"`
	LoungeID int64  `db:"lounge_id" json:"lounge_id"`
	Name     string `db:"name" json:"name"`
}

type LoungeItem struct {
	ID        int64 `db:"id" json:"id"`
	LoungeID  int64 `db:"lounge_id" json:"lounge_id"`
	ArticleID int64 `db:"article_id" json:"article_id"`
	Quantity  int   `db:"quantity" json:"quantity"`
}

// LoungeRanking is one row of the lounge leaderboard.
type LoungeRanking struct {
	Lounge
	ItemCount int64 `db:"item_count" json:"item_count"`
}

// Statistics is the global summary shown on the statistics page and dashboard.
type Statistics struct {
	TotalAccounts    int64 `db:"total_accounts" json:"total_accounts"`
	TotalPlaces      int64 `db:"total_places" json:"total_places"`
	TotalMissions    int64 `db:"total_missions" json:"total_missions"`
	TotalTerritories int64 `db:"total_territories" json:"total_territories"`
	TotalGifts       int64 `db:"total_gifts" json:"total_gifts"`
}
