package services

import (
	"context"
	"log/slog"

	"github.com/BradenHooton/tourexpress/internal/models"
)

// rankingSize is the number of rows shown on each leaderboard.
const rankingSize = 10

// StatisticsRepository is the aggregate query behind the statistics page.
type StatisticsRepository interface {
	Get(ctx context.Context) (*models.Statistics, error)
}

// TerritoryRanker and LoungeRanker are the leaderboard subsets of the game repositories.
type TerritoryRanker interface {
	TopByPoints(ctx context.Context, n int) ([]models.Territory, error)
}

type LoungeRanker interface {
	TopByItemCount(ctx context.Context, n int) ([]models.LoungeRanking, error)
}

// DashboardResponse is what an administrator sees on the dashboard.
type DashboardResponse struct {
	Statistics  *models.Statistics `json:"statistics"`
	SecurityKey string             `json:"security_key"`
	Username    string             `json:"username"`
}

// AdminService aggregates statistics, rankings and dashboard data.
type AdminService struct {
	stats       StatisticsRepository
	territories TerritoryRanker
	lounges     LoungeRanker
	keys        KeyEnsurer
	logger      *slog.Logger
}

func NewAdminService(stats StatisticsRepository, territories TerritoryRanker, lounges LoungeRanker, keys KeyEnsurer, logger *slog.Logger) *AdminService {
	return &AdminService{
		stats:       stats,
		territories: territories,
		lounges:     lounges,
		keys:        keys,
		logger:      logger,
	}
}

func (s *AdminService) Statistics(ctx context.Context) (*models.Statistics, error) {
	st, err := s.stats.Get(ctx)
	if err != nil {
		s.logger.Error("failed to compute statistics", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return st, nil
}

// TerritoryRanking returns the top territories by points.
func (s *AdminService) TerritoryRanking(ctx context.Context) ([]models.Territory, error) {
	out, err := s.territories.TopByPoints(ctx, rankingSize)
	if err != nil {
		s.logger.Error("failed to rank territories", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return out, nil
}

// LoungeRanking returns the top lounges by number of placed items.
func (s *AdminService) LoungeRanking(ctx context.Context) ([]models.LoungeRanking, error) {
	out, err := s.lounges.TopByItemCount(ctx, rankingSize)
	if err != nil {
		s.logger.Error("failed to rank lounges", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return out, nil
}

// Dashboard returns statistics and the caller's security key, issuing the
// key first if the caller is an admin without one.
func (s *AdminService) Dashboard(ctx context.Context, actor *models.Account) (*DashboardResponse, error) {
	if _, _, err := s.keys.EnsureAdminKey(ctx, actor); err != nil {
		s.logger.Error("dashboard: failed to ensure security key",
			slog.Int64("account_id", actor.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	st, err := s.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardResponse{
		Statistics:  st,
		SecurityKey: actor.SecurityKey,
		Username:    actor.Username,
	}, nil
}
