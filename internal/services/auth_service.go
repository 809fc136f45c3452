package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/BradenHooton/tourexpress/internal/auth"
	"github.com/BradenHooton/tourexpress/internal/metrics"
	"github.com/BradenHooton/tourexpress/internal/models"
	pkgauth "github.com/BradenHooton/tourexpress/pkg/auth"
	pkglogger "github.com/BradenHooton/tourexpress/pkg/logger"
)

// SessionStore tracks revoked sessions.
type SessionStore interface {
	Revoke(ctx context.Context, jti string, accountID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// KeyEnsurer brings an admin account in line with the security-key invariant.
type KeyEnsurer interface {
	EnsureAdminKey(ctx context.Context, a *models.Account) (string, bool, error)
}

// AuthService handles login, logout and per-request session resolution.
type AuthService struct {
	repo        AccountRepository
	sessions    SessionStore
	tm          *auth.TokenManager
	keys        KeyEnsurer
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewAuthService(repo AccountRepository, sessions SessionStore, tm *auth.TokenManager, keys KeyEnsurer, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		repo:        repo,
		sessions:    sessions,
		tm:          tm,
		keys:        keys,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

type LoginResult struct {
	Account   *models.Account
	Token     string
	ExpiresAt time.Time
}

// Login resolves identifier as a username first, then as an email. Every
// failure mode returns ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		metrics.RecordLogin(false)
		return nil, models.ErrInvalidCredentials
	}

	account, err := s.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: invalid credentials")
			metrics.RecordLogin(false)
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				FailureReason: "invalid_credentials",
				Success:       false,
			})
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	accountID := strconv.FormatInt(account.ID, 10)
	if err := pkgauth.ComparePassword(account.PasswordHash, password); err != nil || !account.IsActive {
		reason := "invalid_credentials"
		if err == nil {
			reason = "account_inactive"
		}
		s.logger.Info("login failed", slog.String("reason", reason))
		metrics.RecordLogin(false)
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			AccountID:     accountID,
			FailureReason: reason,
			Success:       false,
		})
		return nil, models.ErrInvalidCredentials
	}

	s.ensureKey(ctx, account)

	token, claims, err := s.tm.GenerateSessionToken(account.ID, account.Username)
	if err != nil {
		s.logger.Error("failed to generate session token", slog.String("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("account logged in", slog.String("account_id", accountID))
	metrics.RecordLogin(true)
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		AccountID: accountID,
		Success:   true,
	})

	return &LoginResult{
		Account:   account,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *AuthService) lookup(ctx context.Context, identifier string) (*models.Account, error) {
	account, err := s.repo.GetByUsername(ctx, identifier)
	if err == nil || !errors.Is(err, models.ErrNotFound) {
		return account, err
	}
	return s.repo.GetByEmail(ctx, identifier)
}

// Logout revokes the session until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tm.ValidateToken(token)
	if err != nil {
		return models.ErrUnauthorized
	}

	accountID, _ := claims.AccountID()
	if err := s.sessions.Revoke(ctx, claims.ID, accountID, claims.ExpiresAt.Time); err != nil {
		s.logger.Error("failed to revoke session", slog.String("jti", claims.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("account logged out", slog.Int64("account_id", accountID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "logout",
		AccountID: strconv.FormatInt(accountID, 10),
		Success:   true,
	})
	return nil
}

// Authenticate resolves a session token to its active account and runs
// the security-key sync before returning it.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	claims, err := s.tm.ValidateToken(token)
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("failed to check session revocation", slog.Any("error", err))
		return nil, fmt.Errorf("session check: %w", models.ErrInternalServer)
	}
	if revoked {
		return nil, models.ErrSessionRevoked
	}

	accountID, err := claims.AccountID()
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to load session account", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if !account.IsActive {
		return nil, models.ErrUnauthorized
	}

	s.ensureKey(ctx, account)
	return account, nil
}

// ensureKey runs the key sync; failures are logged and retried on the
// next request.
func (s *AuthService) ensureKey(ctx context.Context, account *models.Account) {
	if _, _, err := s.keys.EnsureAdminKey(ctx, account); err != nil {
		s.logger.Error("failed to ensure admin security key",
			slog.Int64("account_id", account.ID),
			slog.Any("error", err),
		)
	}
}
