package services

import (
	"context"
	"log/slog"

	"github.com/BradenHooton/tourexpress/internal/models"
)

type FriendshipRepository interface {
	CRUDRepository[models.Friendship]
	SetStatus(ctx context.Context, id int64, status models.FriendshipStatus) (*models.Friendship, error)
}

type SentGiftRepository interface {
	Create(ctx context.Context, rec *models.SentGift) (*models.SentGift, error)
	ListReceived(ctx context.Context, accountID int64) ([]models.SentGift, error)
}

// SocialService covers friend requests and gift sending.
type SocialService struct {
	friendships FriendshipRepository
	gifts       CRUDRepository[models.Gift]
	sent        SentGiftRepository
	accounts    AccountRepository
	logger      *slog.Logger
}

func NewSocialService(friendships FriendshipRepository, gifts CRUDRepository[models.Gift], sent SentGiftRepository, accounts AccountRepository, logger *slog.Logger) *SocialService {
	return &SocialService{
		friendships: friendships,
		gifts:       gifts,
		sent:        sent,
		accounts:    accounts,
		logger:      logger,
	}
}

func (s *SocialService) ListFriendships(ctx context.Context, limit, offset int) ([]models.Friendship, error) {
	items, err := s.friendships.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list friendships", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return items, nil
}

func (s *SocialService) GetFriendship(ctx context.Context, id int64) (*models.Friendship, error) {
	f, err := s.friendships.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(s.logger, "get friendship", id, err)
	}
	return f, nil
}

// RequestFriendship sends a pending request from the caller.
func (s *SocialService) RequestFriendship(ctx context.Context, actor *models.Account, recipientID int64) (*models.Friendship, error) {
	if recipientID == actor.ID {
		return nil, models.NewFieldError("recipient_id", "you cannot befriend yourself", nil)
	}
	if err := s.requireAccount(ctx, "recipient_id", recipientID); err != nil {
		return nil, err
	}

	f, err := s.friendships.Create(ctx, &models.Friendship{
		SenderID:    actor.ID,
		RecipientID: recipientID,
		Status:      models.FriendshipPending,
	})
	if err != nil {
		return nil, translateStoreError(s.logger, "create friendship", 0, err)
	}
	s.logger.Info("friend request sent", slog.Int64("friendship_id", f.ID))
	return f, nil
}

// UpdateFriendship lets a participant or an administrator rewrite the row.
func (s *SocialService) UpdateFriendship(ctx context.Context, actor *models.Account, f *models.Friendship) (*models.Friendship, error) {
	current, err := s.GetFriendship(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(actor, current) {
		return nil, models.ErrForbidden
	}
	if f.SenderID == 0 {
		f.SenderID = current.SenderID
	}
	if f.RecipientID == 0 {
		f.RecipientID = current.RecipientID
	}
	if f.Status == "" {
		f.Status = current.Status
	}

	updated, err := s.friendships.Update(ctx, f)
	if err != nil {
		return nil, translateStoreError(s.logger, "update friendship", f.ID, err)
	}
	return updated, nil
}

func (s *SocialService) DeleteFriendship(ctx context.Context, actor *models.Account, id int64) error {
	current, err := s.GetFriendship(ctx, id)
	if err != nil {
		return err
	}
	if !isParticipant(actor, current) {
		return models.ErrForbidden
	}
	if err := s.friendships.Delete(ctx, id); err != nil {
		return translateStoreError(s.logger, "delete friendship", id, err)
	}
	return nil
}

// Respond accepts or rejects a request. Only the recipient or an
// administrator may answer.
func (s *SocialService) Respond(ctx context.Context, actor *models.Account, id int64, status models.FriendshipStatus) (*models.Friendship, error) {
	current, err := s.GetFriendship(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != current.RecipientID {
		return nil, models.ErrForbidden
	}

	f, err := s.friendships.SetStatus(ctx, id, status)
	if err != nil {
		return nil, translateStoreError(s.logger, "set friendship status", id, err)
	}
	s.logger.Info("friend request answered", slog.Int64("friendship_id", id), slog.String("status", string(status)))
	return f, nil
}

// SendGift records a catalog gift sent from the caller to another account.
func (s *SocialService) SendGift(ctx context.Context, actor *models.Account, toID, giftID int64) (*models.SentGift, error) {
	if _, err := s.gifts.GetByID(ctx, giftID); err != nil {
		if err := translateStoreError(s.logger, "get gift", giftID, err); err == models.ErrNotFound {
			return nil, models.NewFieldError("gift_id", "select a valid choice", nil)
		} else {
			return nil, err
		}
	}
	if err := s.requireAccount(ctx, "to_id", toID); err != nil {
		return nil, err
	}

	sent, err := s.sent.Create(ctx, &models.SentGift{GiftID: giftID, FromID: actor.ID, ToID: toID})
	if err != nil {
		return nil, translateStoreError(s.logger, "send gift", giftID, err)
	}
	s.logger.Info("gift sent", slog.Int64("gift_id", giftID), slog.Int64("from_id", actor.ID), slog.Int64("to_id", toID))
	return sent, nil
}

func (s *SocialService) ReceivedGifts(ctx context.Context, accountID int64) ([]models.SentGift, error) {
	gifts, err := s.sent.ListReceived(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to list received gifts", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return gifts, nil
}

func (s *SocialService) requireAccount(ctx context.Context, field string, id int64) error {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		err = translateStoreError(s.logger, "get account", id, err)
		if err == models.ErrNotFound {
			return models.NewFieldError(field, "account does not exist", nil)
		}
		return err
	}
	return nil
}

func isParticipant(actor *models.Account, f *models.Friendship) bool {
	return actor.IsAdmin() || actor.ID == f.SenderID || actor.ID == f.RecipientID
}
