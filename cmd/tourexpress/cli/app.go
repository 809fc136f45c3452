package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/tourexpress/internal/auth"
	"github.com/BradenHooton/tourexpress/internal/config"
	"github.com/BradenHooton/tourexpress/internal/database"
	"github.com/BradenHooton/tourexpress/internal/handlers"
	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/BradenHooton/tourexpress/internal/repositories"
	"github.com/BradenHooton/tourexpress/internal/routes"
	"github.com/BradenHooton/tourexpress/internal/services"
	pkglogger "github.com/BradenHooton/tourexpress/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// app holds the wired dependency graph shared by the commands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *database.DB
	redis  *redis.Client

	accounts  *repositories.AccountRepository
	elevation *services.ElevationService
	auth      *services.AuthService
	handlers  routes.Handlers
}

// newApp connects to Postgres and Redis and builds every service and
// handler. Close releases the connections.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rdb, err := repositories.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	notifier, err := newNotifier(ctx, cfg, logger)
	if err != nil {
		db.Close()
		_ = rdb.Close()
		return nil, err
	}

	auditLogger := pkglogger.NewAuditLogger(logger)

	// Repositories
	accountRepo := repositories.NewAccountRepository(db)
	sessionRepo := repositories.NewSessionRepository(rdb)
	placeRepo := repositories.NewPlaceRepository(db)
	missionRepo := repositories.NewMissionRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	giftRepo := repositories.NewGiftRepository(db)
	territoryRepo := repositories.NewTerritoryRepository(db)
	friendshipRepo := repositories.NewFriendshipRepository(db)
	sentGiftRepo := repositories.NewSentGiftRepository(db)
	loungeRepo := repositories.NewLoungeRepository(db)
	statsRepo := repositories.NewStatisticsRepository(db)

	// Services
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionExpiry)
	elevationService := services.NewElevationService(accountRepo, notifier, cfg.Elevation, logger, auditLogger)
	authService := services.NewAuthService(accountRepo, sessionRepo, tokenManager, elevationService, logger, auditLogger)
	accountService := services.NewAccountService(accountRepo, elevationService, logger, auditLogger)
	territoryService := services.NewTerritoryService(territoryRepo, logger)
	socialService := services.NewSocialService(friendshipRepo, giftRepo, sentGiftRepo, accountRepo, logger)
	loungeService := services.NewLoungeService(loungeRepo, articleRepo, logger)
	adminService := services.NewAdminService(statsRepo, territoryRepo, loungeRepo, elevationService, logger)

	cookies := auth.CookieConfig{
		Secure:   cfg.Server.Env == "production",
		SameSite: "lax",
	}

	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, elevationService, cookies),
		Elevation: handlers.NewElevationHandler(elevationService),
		Accounts:  handlers.NewAccountHandler(accountService),
		Game:      handlers.NewGameHandler(territoryService, socialService, loungeService),
		Admin:     handlers.NewAdminHandler(adminService),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": handlers.PingFunc(db.HealthCheck),
			"redis":    sessionRepo,
		}, logger),
		Places: handlers.NewCatalogHandler[models.Place, handlers.PlaceRequest](
			services.NewCatalogService[models.Place](placeRepo, "place", logger)),
		Missions: handlers.NewCatalogHandler[models.Mission, handlers.MissionRequest](
			services.NewCatalogService[models.Mission](missionRepo, "mission", logger)),
		Articles: handlers.NewCatalogHandler[models.Article, handlers.ArticleRequest](
			services.NewCatalogService[models.Article](articleRepo, "article", logger)),
		Gifts: handlers.NewCatalogHandler[models.Gift, handlers.GiftRequest](
			services.NewCatalogService[models.Gift](giftRepo, "gift", logger)),
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		redis:     rdb,
		accounts:  accountRepo,
		elevation: elevationService,
		auth:      authService,
		handlers:  h,
	}, nil
}

func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.logger.Error("failed to close redis client", slog.Any("error", err))
	}
	a.db.Close()
}

// newNotifier picks SES in deployed environments and a log-only notifier
// otherwise, per EMAIL_PROVIDER.
func newNotifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.Notifier, error) {
	if cfg.Email.Provider == "ses" {
		n, err := services.NewSESNotifier(ctx, cfg.Email.AWSRegion, cfg.Email.FromEmail, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize email service: %w", err)
		}
		return n, nil
	}
	return services.NewLogNotifier(logger, cfg.Server.Env), nil
}
