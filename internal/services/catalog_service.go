package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/tourexpress/internal/models"
)

// CRUDRepository is the storage contract shared by the catalog tables.
type CRUDRepository[T any] interface {
	List(ctx context.Context, limit, offset int) ([]T, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, rec *T) (*T, error)
	Update(ctx context.Context, rec *T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogService exposes CRUD over one admin-managed catalog entity
// (places, missions, articles, gifts).
type CatalogService[T any] struct {
	repo   CRUDRepository[T]
	entity string
	logger *slog.Logger
}

func NewCatalogService[T any](repo CRUDRepository[T], entity string, logger *slog.Logger) *CatalogService[T] {
	return &CatalogService[T]{
		repo:   repo,
		entity: entity,
		logger: logger.With(slog.String("entity", entity)),
	}
}

func (s *CatalogService[T]) List(ctx context.Context, limit, offset int) ([]T, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return items, nil
}

func (s *CatalogService[T]) Get(ctx context.Context, id int64) (*T, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate("get", id, err)
	}
	return item, nil
}

func (s *CatalogService[T]) Create(ctx context.Context, rec *T) (*T, error) {
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, s.translate("create", 0, err)
	}
	s.logger.Info("created")
	return created, nil
}

// Update replaces the record; rec must carry the target id.
func (s *CatalogService[T]) Update(ctx context.Context, rec *T) (*T, error) {
	updated, err := s.repo.Update(ctx, rec)
	if err != nil {
		return nil, s.translate("update", 0, err)
	}
	s.logger.Info("updated")
	return updated, nil
}

func (s *CatalogService[T]) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate("delete", id, err)
	}
	s.logger.Info("deleted", slog.Int64("id", id))
	return nil
}

func (s *CatalogService[T]) translate(op string, id int64, err error) error {
	return translateStoreError(s.logger, op, id, err)
}

// translateStoreError passes through errors callers can act on and hides
// everything else behind ErrInternalServer.
func translateStoreError(logger *slog.Logger, op string, id int64, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return models.ErrNotFound
	case errors.Is(err, models.ErrValidation):
		return err
	case errors.Is(err, models.ErrBadRequest):
		return models.ErrBadRequest
	}
	logger.Error("failed to "+op, slog.Int64("id", id), slog.Any("error", err))
	return models.ErrInternalServer
}
