package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/tourexpress/internal/models"
	pkghttp "github.com/BradenHooton/tourexpress/pkg/http"
)

// CatalogServiceInterface is the CRUD contract for one catalog entity.
type CatalogServiceInterface[T any] interface {
	List(ctx context.Context, limit, offset int) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, rec *T) (*T, error)
	Update(ctx context.Context, rec *T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// catalogRequest is a validated request body that converts to its model.
type catalogRequest[T any] interface {
	toModel(id int64) *T
}

// CatalogHandler serves list/detail/create/update/delete for one entity.
type CatalogHandler[T any, R catalogRequest[T]] struct {
	service CatalogServiceInterface[T]
}

func NewCatalogHandler[T any, R catalogRequest[T]](service CatalogServiceInterface[T]) *CatalogHandler[T, R] {
	return &CatalogHandler[T, R]{service: service}
}

func (h *CatalogHandler[T, R]) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	items, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, ListResponse[T]{Items: items, Limit: limit, Offset: offset})
}

func (h *CatalogHandler[T, R]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler[T, R]) Create(w http.ResponseWriter, r *http.Request) {
	var req R
	if !decodeAndValidate(w, r, &req) {
		return
	}
	created, err := h.service.Create(r.Context(), req.toModel(0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandler[T, R]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req R
	if !decodeAndValidate(w, r, &req) {
		return
	}
	updated, err := h.service.Update(r.Context(), req.toModel(id))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, updated)
}

func (h *CatalogHandler[T, R]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type PlaceRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Location    string `json:"location" validate:"required,max=100"`
}

func (p PlaceRequest) toModel(id int64) *models.Place {
	return &models.Place{ID: id, Name: p.Name, Description: p.Description, Location: p.Location}
}

type MissionRequest struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description string  `json:"description"`
	PlaceID     int64   `json:"place_id" validate:"required,gte=1"`
	MinigameURL *string `json:"minigame_url" validate:"omitempty,url,max=255"`
}

func (m MissionRequest) toModel(id int64) *models.Mission {
	return &models.Mission{ID: id, Title: m.Title, Description: m.Description, PlaceID: m.PlaceID, MinigameURL: m.MinigameURL}
}

type ArticleRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	Price       string  `json:"price" validate:"required,numeric,max=11"`
}

func (a ArticleRequest) toModel(id int64) *models.Article {
	return &models.Article{ID: id, Name: a.Name, Description: a.Description, Price: a.Price}
}

type GiftRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	BonusPoints int     `json:"bonus_points" validate:"gte=0"`
}

func (g GiftRequest) toModel(id int64) *models.Gift {
	return &models.Gift{ID: id, Name: g.Name, Description: g.Description, BonusPoints: g.BonusPoints}
}
