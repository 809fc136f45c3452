package services

import (
	"context"
	"log/slog"

	"github.com/BradenHooton/tourexpress/internal/models"
)

type TerritoryRepository interface {
	CRUDRepository[models.Territory]
	TopByPoints(ctx context.Context, n int) ([]models.Territory, error)
	AddVisit(ctx context.Context, v *models.Visit) (*models.Visit, error)
	ListVisits(ctx context.Context, territoryID int64) ([]models.Visit, error)
}

// TerritoryDetail is a territory with its visit history.
type TerritoryDetail struct {
	models.Territory
	Visits []models.Visit `json:"visits"`
}

type TerritoryService struct {
	repo   TerritoryRepository
	logger *slog.Logger
}

func NewTerritoryService(repo TerritoryRepository, logger *slog.Logger) *TerritoryService {
	return &TerritoryService{repo: repo, logger: logger}
}

func (s *TerritoryService) List(ctx context.Context, limit, offset int) ([]models.Territory, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list territories", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return items, nil
}

func (s *TerritoryService) Get(ctx context.Context, id int64) (*TerritoryDetail, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(s.logger, "get territory", id, err)
	}
	visits, err := s.repo.ListVisits(ctx, id)
	if err != nil {
		return nil, translateStoreError(s.logger, "list visits", id, err)
	}
	return &TerritoryDetail{Territory: *t, Visits: visits}, nil
}

// Create stores a territory owned by the caller.
func (s *TerritoryService) Create(ctx context.Context, actor *models.Account, t *models.Territory) (*models.Territory, error) {
	t.OwnerID = actor.ID
	if t.Status == "" {
		t.Status = models.RatingNone
	}
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, translateStoreError(s.logger, "create territory", 0, err)
	}
	s.logger.Info("territory created", slog.Int64("territory_id", created.ID), slog.Int64("owner_id", actor.ID))
	return created, nil
}

// Update is allowed for the owner and administrators. Ownership is kept.
func (s *TerritoryService) Update(ctx context.Context, actor *models.Account, t *models.Territory) (*models.Territory, error) {
	current, err := s.repo.GetByID(ctx, t.ID)
	if err != nil {
		return nil, translateStoreError(s.logger, "get territory", t.ID, err)
	}
	if !canModify(actor, current.OwnerID) {
		return nil, models.ErrForbidden
	}
	t.OwnerID = current.OwnerID
	if t.Status == "" {
		t.Status = current.Status
	}

	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, translateStoreError(s.logger, "update territory", t.ID, err)
	}
	return updated, nil
}

func (s *TerritoryService) Delete(ctx context.Context, actor *models.Account, id int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return translateStoreError(s.logger, "get territory", id, err)
	}
	if !canModify(actor, current.OwnerID) {
		return models.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateStoreError(s.logger, "delete territory", id, err)
	}
	s.logger.Info("territory deleted", slog.Int64("territory_id", id))
	return nil
}

// Visit records that the caller visited the territory.
func (s *TerritoryService) Visit(ctx context.Context, actor *models.Account, territoryID int64, rating models.Rating) (*models.Visit, error) {
	if _, err := s.repo.GetByID(ctx, territoryID); err != nil {
		return nil, translateStoreError(s.logger, "get territory", territoryID, err)
	}
	if rating == "" {
		rating = models.RatingNormal
	}

	v, err := s.repo.AddVisit(ctx, &models.Visit{VisitorID: actor.ID, TerritoryID: territoryID, Rating: rating})
	if err != nil {
		return nil, translateStoreError(s.logger, "add visit", territoryID, err)
	}
	s.logger.Info("territory visited", slog.Int64("territory_id", territoryID), slog.Int64("visitor_id", actor.ID))
	return v, nil
}

func canModify(actor *models.Account, ownerID int64) bool {
	return actor.IsAdmin() || actor.ID == ownerID
}
