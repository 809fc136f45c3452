package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCatalog is an in-memory CatalogServiceInterface keyed by id.
type memCatalog[T any] struct {
	items  map[int64]T
	nextID int64
	setID  func(*T, int64)
	getID  func(*T) int64
	err    error
}

func newMemCatalog[T any](setID func(*T, int64), getID func(*T) int64) *memCatalog[T] {
	return &memCatalog[T]{items: map[int64]T{}, setID: setID, getID: getID}
}

func (m *memCatalog[T]) List(ctx context.Context, limit, offset int) ([]T, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]T, 0, len(m.items))
	for i := int64(1); i <= m.nextID; i++ {
		if v, ok := m.items[i]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memCatalog[T]) Get(ctx context.Context, id int64) (*T, error) {
	v, ok := m.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &v, nil
}

func (m *memCatalog[T]) Create(ctx context.Context, rec *T) (*T, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	m.setID(rec, m.nextID)
	m.items[m.nextID] = *rec
	return rec, nil
}

func (m *memCatalog[T]) Update(ctx context.Context, rec *T) (*T, error) {
	id := m.getID(rec)
	if _, ok := m.items[id]; !ok {
		return nil, models.ErrNotFound
	}
	m.items[id] = *rec
	return rec, nil
}

func (m *memCatalog[T]) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func newPlaceHandler() (*CatalogHandler[models.Place, PlaceRequest], *memCatalog[models.Place]) {
	svc := newMemCatalog(func(p *models.Place, id int64) { p.ID = id }, func(p *models.Place) int64 { return p.ID })
	return NewCatalogHandler[models.Place, PlaceRequest](svc), svc
}

func TestCatalogHandler_PlaceLifecycle(t *testing.T) {
	h, svc := newPlaceHandler()

	w := httptest.NewRecorder()
	h.Create(w, NewTestRequest(t, http.MethodPost, "/places", PlaceRequest{Name: "Plaza", Location: "Centro"}))
	var created models.Place
	AssertJSONResponse(t, w, http.StatusCreated, &created)
	assert.Equal(t, int64(1), created.ID)

	w = httptest.NewRecorder()
	h.Update(w, WithURLParams(NewTestRequest(t, http.MethodPut, "/places/1", PlaceRequest{Name: "Plaza Mayor", Location: "Centro"}), "id", "1"))
	var updated models.Place
	AssertJSONResponse(t, w, http.StatusOK, &updated)
	assert.Equal(t, "Plaza Mayor", updated.Name)
	assert.Equal(t, int64(1), updated.ID)

	w = httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/places", nil))
	var list ListResponse[models.Place]
	AssertJSONResponse(t, w, http.StatusOK, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, defaultPageSize, list.Limit)

	w = httptest.NewRecorder()
	h.Delete(w, WithURLParams(httptest.NewRequest(http.MethodDelete, "/places/1", nil), "id", "1"))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, svc.items)

	w = httptest.NewRecorder()
	h.Get(w, WithURLParams(httptest.NewRequest(http.MethodGet, "/places/1", nil), "id", "1"))
	AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
}

func TestCatalogHandler_Validation(t *testing.T) {
	t.Run("place requires location", func(t *testing.T) {
		h, _ := newPlaceHandler()
		w := httptest.NewRecorder()
		h.Create(w, NewTestRequest(t, http.MethodPost, "/places", PlaceRequest{Name: "Plaza"}))

		resp := AssertErrorResponse(t, w, http.StatusBadRequest, "validation_failed")
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "location", resp.Fields[0].Field)
	})

	t.Run("article price must be numeric", func(t *testing.T) {
		svc := newMemCatalog(func(a *models.Article, id int64) { a.ID = id }, func(a *models.Article) int64 { return a.ID })
		h := NewCatalogHandler[models.Article, ArticleRequest](svc)
		w := httptest.NewRecorder()
		h.Create(w, NewTestRequest(t, http.MethodPost, "/articles", ArticleRequest{Name: "Sofa", Price: "cheap"}))

		resp := AssertErrorResponse(t, w, http.StatusBadRequest, "validation_failed")
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "price", resp.Fields[0].Field)
	})

	t.Run("mission with unknown place is 400", func(t *testing.T) {
		svc := newMemCatalog(func(m *models.Mission, id int64) { m.ID = id }, func(m *models.Mission) int64 { return m.ID })
		svc.err = models.ErrBadRequest
		h := NewCatalogHandler[models.Mission, MissionRequest](svc)
		w := httptest.NewRecorder()
		h.Create(w, NewTestRequest(t, http.MethodPost, "/missions", MissionRequest{Title: "Find the bell", PlaceID: 42}))

		AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
	})

	t.Run("duplicate name surfaces as field error", func(t *testing.T) {
		svc := newMemCatalog(func(g *models.Gift, id int64) { g.ID = id }, func(g *models.Gift) int64 { return g.ID })
		svc.err = models.NewFieldError("name", "already exists", models.ErrConflict)
		h := NewCatalogHandler[models.Gift, GiftRequest](svc)
		w := httptest.NewRecorder()
		h.Create(w, NewTestRequest(t, http.MethodPost, "/gifts", GiftRequest{Name: "Rose"}))

		resp := AssertErrorResponse(t, w, http.StatusBadRequest, "validation_failed")
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "name", resp.Fields[0].Field)
	})

	t.Run("list failure is 500", func(t *testing.T) {
		h, svc := newPlaceHandler()
		svc.err = models.ErrInternalServer
		w := httptest.NewRecorder()
		h.List(w, httptest.NewRequest(http.MethodGet, "/places", nil))

		AssertErrorResponse(t, w, http.StatusInternalServerError, "internal_error")
	})
}
