package services

import (
	"context"
	"log/slog"

	"github.com/BradenHooton/tourexpress/internal/models"
)

type LoungeRepository interface {
	CRUDRepository[models.Lounge]
	ListRooms(ctx context.Context, loungeID int64) ([]models.LoungeRoom, error)
	ListItems(ctx context.Context, loungeID int64) ([]models.LoungeItem, error)
	AddRoom(ctx context.Context, room *models.LoungeRoom) (*models.LoungeRoom, error)
	AddItem(ctx context.Context, item *models.LoungeItem) (*models.LoungeItem, error)
	DeleteRoom(ctx context.Context, loungeID, roomID int64) error
	DeleteItem(ctx context.Context, loungeID, itemID int64) error
	TopByItemCount(ctx context.Context, n int) ([]models.LoungeRanking, error)
}

// LoungeDetail is a lounge with its rooms and placed items.
type LoungeDetail struct {
	models.Lounge
	Rooms []models.LoungeRoom `json:"rooms"`
	Items []models.LoungeItem `json:"items"`
}

type LoungeService struct {
	repo     LoungeRepository
	articles CRUDRepository[models.Article]
	logger   *slog.Logger
}

func NewLoungeService(repo LoungeRepository, articles CRUDRepository[models.Article], logger *slog.Logger) *LoungeService {
	return &LoungeService{repo: repo, articles: articles, logger: logger}
}

func (s *LoungeService) List(ctx context.Context, limit, offset int) ([]models.Lounge, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list lounges", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return items, nil
}

func (s *LoungeService) Get(ctx context.Context, id int64) (*LoungeDetail, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(s.logger, "get lounge", id, err)
	}
	rooms, err := s.repo.ListRooms(ctx, id)
	if err != nil {
		return nil, translateStoreError(s.logger, "list rooms", id, err)
	}
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, translateStoreError(s.logger, "list items", id, err)
	}
	return &LoungeDetail{Lounge: *l, Rooms: rooms, Items: items}, nil
}

func (s *LoungeService) Create(ctx context.Context, actor *models.Account, name string) (*models.Lounge, error) {
	l, err := s.repo.Create(ctx, &models.Lounge{Name: name, OwnerID: actor.ID})
	if err != nil {
		return nil, translateStoreError(s.logger, "create lounge", 0, err)
	}
	s.logger.Info("lounge created", slog.Int64("lounge_id", l.ID), slog.Int64("owner_id", actor.ID))
	return l, nil
}

// Rename changes the lounge name. Ownership never changes.
func (s *LoungeService) Rename(ctx context.Context, actor *models.Account, id int64, name string) (*models.Lounge, error) {
	l, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	l.Name = name

	updated, err := s.repo.Update(ctx, l)
	if err != nil {
		return nil, translateStoreError(s.logger, "update lounge", id, err)
	}
	return updated, nil
}

func (s *LoungeService) Delete(ctx context.Context, actor *models.Account, id int64) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateStoreError(s.logger, "delete lounge", id, err)
	}
	s.logger.Info("lounge deleted", slog.Int64("lounge_id", id))
	return nil
}

func (s *LoungeService) AddRoom(ctx context.Context, actor *models.Account, loungeID int64, name string) (*models.LoungeRoom, error) {
	if _, err := s.owned(ctx, actor, loungeID); err != nil {
		return nil, err
	}
	room, err := s.repo.AddRoom(ctx, &models.LoungeRoom{LoungeID: loungeID, Name: name})
	if err != nil {
		return nil, translateStoreError(s.logger, "add room", loungeID, err)
	}
	return room, nil
}

// AddItem places quantity copies of an article in the lounge.
func (s *LoungeService) AddItem(ctx context.Context, actor *models.Account, loungeID, articleID int64, quantity int) (*models.LoungeItem, error) {
	if _, err := s.owned(ctx, actor, loungeID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, models.NewFieldError("quantity", "ensure this value is greater than or equal to 1", nil)
	}
	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		err = translateStoreError(s.logger, "get article", articleID, err)
		if err == models.ErrNotFound {
			return nil, models.NewFieldError("article_id", "select a valid choice", nil)
		}
		return nil, err
	}

	item, err := s.repo.AddItem(ctx, &models.LoungeItem{LoungeID: loungeID, ArticleID: articleID, Quantity: quantity})
	if err != nil {
		return nil, translateStoreError(s.logger, "add item", loungeID, err)
	}
	return item, nil
}

func (s *LoungeService) RemoveRoom(ctx context.Context, actor *models.Account, loungeID, roomID int64) error {
	if _, err := s.owned(ctx, actor, loungeID); err != nil {
		return err
	}
	if err := s.repo.DeleteRoom(ctx, loungeID, roomID); err != nil {
		return translateStoreError(s.logger, "delete room", roomID, err)
	}
	return nil
}

func (s *LoungeService) RemoveItem(ctx context.Context, actor *models.Account, loungeID, itemID int64) error {
	if _, err := s.owned(ctx, actor, loungeID); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, loungeID, itemID); err != nil {
		return translateStoreError(s.logger, "delete item", itemID, err)
	}
	return nil
}

// owned loads the lounge and checks the actor may modify it.
func (s *LoungeService) owned(ctx context.Context, actor *models.Account, id int64) (*models.Lounge, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(s.logger, "get lounge", id, err)
	}
	if !canModify(actor, l.OwnerID) {
		return nil, models.ErrForbidden
	}
	return l, nil
}
