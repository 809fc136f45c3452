package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/tourexpress/internal/auth"
	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/BradenHooton/tourexpress/internal/services"
	pkghttp "github.com/BradenHooton/tourexpress/pkg/http"
)

type TerritoryServiceInterface interface {
	List(ctx context.Context, limit, offset int) ([]models.Territory, error)
	Get(ctx context.Context, id int64) (*services.TerritoryDetail, error)
	Create(ctx context.Context, actor *models.Account, t *models.Territory) (*models.Territory, error)
	Update(ctx context.Context, actor *models.Account, t *models.Territory) (*models.Territory, error)
	Delete(ctx context.Context, actor *models.Account, id int64) error
	Visit(ctx context.Context, actor *models.Account, territoryID int64, rating models.Rating) (*models.Visit, error)
}

type SocialServiceInterface interface {
	ListFriendships(ctx context.Context, limit, offset int) ([]models.Friendship, error)
	GetFriendship(ctx context.Context, id int64) (*models.Friendship, error)
	RequestFriendship(ctx context.Context, actor *models.Account, recipientID int64) (*models.Friendship, error)
	UpdateFriendship(ctx context.Context, actor *models.Account, f *models.Friendship) (*models.Friendship, error)
	DeleteFriendship(ctx context.Context, actor *models.Account, id int64) error
	Respond(ctx context.Context, actor *models.Account, id int64, status models.FriendshipStatus) (*models.Friendship, error)
	SendGift(ctx context.Context, actor *models.Account, toID, giftID int64) (*models.SentGift, error)
	ReceivedGifts(ctx context.Context, accountID int64) ([]models.SentGift, error)
}

type LoungeServiceInterface interface {
	List(ctx context.Context, limit, offset int) ([]models.Lounge, error)
	Get(ctx context.Context, id int64) (*services.LoungeDetail, error)
	Create(ctx context.Context, actor *models.Account, name string) (*models.Lounge, error)
	Rename(ctx context.Context, actor *models.Account, id int64, name string) (*models.Lounge, error)
	Delete(ctx context.Context, actor *models.Account, id int64) error
	AddRoom(ctx context.Context, actor *models.Account, loungeID int64, name string) (*models.LoungeRoom, error)
	AddItem(ctx context.Context, actor *models.Account, loungeID, articleID int64, quantity int) (*models.LoungeItem, error)
	RemoveRoom(ctx context.Context, actor *models.Account, loungeID, roomID int64) error
	RemoveItem(ctx context.Context, actor *models.Account, loungeID, itemID int64) error
}

// GameHandler serves the player-facing territory, social and lounge routes.
type GameHandler struct {
	territories TerritoryServiceInterface
	social      SocialServiceInterface
	lounges     LoungeServiceInterface
}

func NewGameHandler(territories TerritoryServiceInterface, social SocialServiceInterface, lounges LoungeServiceInterface) *GameHandler {
	return &GameHandler{territories: territories, social: social, lounges: lounges}
}

type TerritoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	Status      string  `json:"status" validate:"omitempty,oneof=none low normal liked amazing"`
	Points      int     `json:"points" validate:"gte=0"`
}

func (t TerritoryRequest) toModel(id int64) *models.Territory {
	return &models.Territory{ID: id, Name: t.Name, Description: t.Description, Status: models.Rating(t.Status), Points: t.Points}
}

type VisitRequest struct {
	Rating string `json:"rating" validate:"omitempty,oneof=none low normal liked amazing"`
}

type FriendshipRequest struct {
	RecipientID int64 `json:"recipient_id" validate:"required,gte=1"`
}

type UpdateFriendshipRequest struct {
	SenderID    int64  `json:"sender_id" validate:"omitempty,gte=1"`
	RecipientID int64  `json:"recipient_id" validate:"omitempty,gte=1"`
	Status      string `json:"status" validate:"omitempty,oneof=pending accepted rejected"`
}

type SendGiftRequest struct {
	GiftID int64 `json:"gift_id" validate:"required,gte=1"`
}

type LoungeRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type LoungeItemRequest struct {
	ArticleID int64 `json:"article_id" validate:"required,gte=1"`
	Quantity  int   `json:"quantity" validate:"omitempty,gte=1"`
}

// actor returns the authenticated account or writes 401.
func actor(w http.ResponseWriter, r *http.Request) (*models.Account, bool) {
	a := auth.AccountFromContext(r.Context())
	if a == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return nil, false
	}
	return a, true
}

// Territories

func (h *GameHandler) ListTerritories(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	items, err := h.territories.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, ListResponse[models.Territory]{Items: items, Limit: limit, Offset: offset})
}

func (h *GameHandler) GetTerritory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.territories.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, detail)
}

func (h *GameHandler) CreateTerritory(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req TerritoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	created, err := h.territories.Create(r.Context(), a, req.toModel(0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, created)
}

func (h *GameHandler) UpdateTerritory(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req TerritoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	updated, err := h.territories.Update(r.Context(), a, req.toModel(id))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, updated)
}

func (h *GameHandler) DeleteTerritory(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.territories.Delete(r.Context(), a, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// VisitTerritory handles POST /territories/{id}/visit
func (h *GameHandler) VisitTerritory(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req VisitRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	visit, err := h.territories.Visit(r.Context(), a, id, models.Rating(req.Rating))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, visit)
}

// Friendships

func (h *GameHandler) ListFriendships(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	items, err := h.social.ListFriendships(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, ListResponse[models.Friendship]{Items: items, Limit: limit, Offset: offset})
}

func (h *GameHandler) GetFriendship(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	f, err := h.social.GetFriendship(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, f)
}

func (h *GameHandler) CreateFriendship(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req FriendshipRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	f, err := h.social.RequestFriendship(r.Context(), a, req.RecipientID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, f)
}

func (h *GameHandler) UpdateFriendship(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdateFriendshipRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	f, err := h.social.UpdateFriendship(r.Context(), a, &models.Friendship{
		ID:          id,
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		Status:      models.FriendshipStatus(req.Status),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, f)
}

func (h *GameHandler) DeleteFriendship(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.social.DeleteFriendship(r.Context(), a, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AcceptFriendship handles POST /friendships/{id}/accept
func (h *GameHandler) AcceptFriendship(w http.ResponseWriter, r *http.Request) {
	h.respondFriendship(w, r, models.FriendshipAccepted)
}

// RejectFriendship handles POST /friendships/{id}/reject
func (h *GameHandler) RejectFriendship(w http.ResponseWriter, r *http.Request) {
	h.respondFriendship(w, r, models.FriendshipRejected)
}

func (h *GameHandler) respondFriendship(w http.ResponseWriter, r *http.Request, status models.FriendshipStatus) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	f, err := h.social.Respond(r.Context(), a, id, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, f)
}

// Gifts

// SendGift handles POST /gifts/send/{accountID}
func (h *GameHandler) SendGift(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	to, ok := idParam(w, r, "accountID")
	if !ok {
		return
	}
	var req SendGiftRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	sent, err := h.social.SendGift(r.Context(), a, to, req.GiftID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, sent)
}

// ReceivedGifts handles GET /gifts/received
func (h *GameHandler) ReceivedGifts(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	gifts, err := h.social.ReceivedGifts(r.Context(), a.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, gifts)
}

// Lounges

func (h *GameHandler) ListLounges(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	items, err := h.lounges.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, ListResponse[models.Lounge]{Items: items, Limit: limit, Offset: offset})
}

func (h *GameHandler) GetLounge(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.lounges.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, detail)
}

func (h *GameHandler) CreateLounge(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var req LoungeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	l, err := h.lounges.Create(r.Context(), a, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, l)
}

func (h *GameHandler) UpdateLounge(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req LoungeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	l, err := h.lounges.Rename(r.Context(), a, id, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, l)
}

func (h *GameHandler) DeleteLounge(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.lounges.Delete(r.Context(), a, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddLoungeRoom handles POST /lounges/{id}/rooms
func (h *GameHandler) AddLoungeRoom(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req LoungeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	room, err := h.lounges.AddRoom(r.Context(), a, id, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, room)
}

// AddLoungeItem handles POST /lounges/{id}/items
func (h *GameHandler) AddLoungeItem(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req LoungeItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	item, err := h.lounges.AddItem(r.Context(), a, id, req.ArticleID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, item)
}

// RemoveLoungeRoom handles DELETE /lounges/{id}/rooms/{roomID}
func (h *GameHandler) RemoveLoungeRoom(w http.ResponseWriter, r *http.Request) {
	h.removeLoungeChild(w, r, "roomID", h.lounges.RemoveRoom)
}

// RemoveLoungeItem handles DELETE /lounges/{id}/items/{itemID}
func (h *GameHandler) RemoveLoungeItem(w http.ResponseWriter, r *http.Request) {
	h.removeLoungeChild(w, r, "itemID", h.lounges.RemoveItem)
}

func (h *GameHandler) removeLoungeChild(w http.ResponseWriter, r *http.Request, param string,
	remove func(ctx context.Context, actor *models.Account, loungeID, childID int64) error) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	loungeID, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	childID, ok := idParam(w, r, param)
	if !ok {
		return
	}
	if err := remove(r.Context(), a, loungeID, childID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
