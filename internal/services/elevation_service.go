package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BradenHooton/tourexpress/internal/config"
	"github.com/BradenHooton/tourexpress/internal/metrics"
	"github.com/BradenHooton/tourexpress/internal/models"
	pkgauth "github.com/BradenHooton/tourexpress/pkg/auth"
	pkglogger "github.com/BradenHooton/tourexpress/pkg/logger"
)

// maxAdminCodeLen bounds the admin code accepted at registration.
const maxAdminCodeLen = 20

// Warnings attached to results when the code could not be delivered.
const (
	WarnConfirmationNotSent = "account created, but the confirmation email could not be sent"
	WarnAdminCodeNotSent    = "admin code generated, but the email could not be sent"
)

// AccountRepository defines the persistence operations on accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context, limit, offset int) ([]*models.Account, error)
	ListAdminsMissingKey(ctx context.Context, limit int) ([]*models.Account, error)
	Create(ctx context.Context, a *models.Account) (*models.Account, error)
	Update(ctx context.Context, a *models.Account) (*models.Account, error)
	SetSecurityKeyIfEmpty(ctx context.Context, id int64, key string) (*models.Account, error)
	Modify(ctx context.Context, id int64, fn func(*models.Account) error) (*models.Account, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// ElevationService owns registration and every path that can grant the
// admin role or issue a security key.
type ElevationService struct {
	repo        AccountRepository
	notifier    Notifier
	cfg         config.ElevationConfig
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewElevationService(repo AccountRepository, notifier Notifier, cfg config.ElevationConfig, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *ElevationService {
	return &ElevationService{
		repo:        repo,
		notifier:    notifier,
		cfg:         cfg,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	AdminCode       string
}

type RegisterResult struct {
	Account  *models.Account
	Elevated bool
	Warning  string
}

// Register creates a player account, or an admin account when the admin
// code matches the configured secret. A pending token is always issued
// and mailed; delivery failure is reported as a warning only.
func (s *ElevationService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	adminCode := normalizeAdminCode(in.AdminCode)

	if err := s.validateRegistration(ctx, username, email, in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}

	hash, err := pkgauth.HashPassword(in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	account := &models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RolePlayer,
		IsActive:     true,
	}

	elevated := adminCode != "" && adminCode == s.cfg.AdminSecretCode
	if elevated {
		key, err := pkgauth.GenerateSecurityKey()
		if err != nil {
			s.logger.Error("failed to generate security key", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		account.Role = models.RoleAdmin
		account.IsStaff = true
		account.IsSuperuser = true
		account.SecurityKey = key
	}

	token, err := pkgauth.GenerateHexToken(pkgauth.RegistrationTokenBytes)
	if err != nil {
		s.logger.Error("failed to generate pending token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	account.PendingToken = token

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			s.logger.Info("registration rejected by unique constraint", slog.Any("error", err))
			return nil, err
		}
		s.logger.Error("failed to create account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	accountID := strconv.FormatInt(created.ID, 10)
	s.logger.Info("account registered",
		slog.String("account_id", accountID),
		slog.String("role", string(created.Role)),
	)
	s.auditLogger.LogAccountAction("account_registered", accountID, "", map[string]string{
		"role": string(created.Role),
	})
	metrics.RecordRegistration(string(created.Role))
	if elevated {
		metrics.RecordElevation("registration", true)
		metrics.RecordKeyIssued("registration")
		s.auditLogger.LogElevation(pkglogger.AuditEvent{
			EventType: "admin_code_registration",
			AccountID: accountID,
			Success:   true,
		})
	}

	result := &RegisterResult{Account: created, Elevated: elevated}
	if err := s.notifier.SendConfirmationCode(ctx, created.Email, created.Username, token); err != nil {
		s.logger.Warn("failed to send confirmation code",
			slog.String("email", pkglogger.SanitizedEmail(created.Email)),
			slog.Any("error", err),
		)
		metrics.RecordNotificationFailure("confirmation")
		result.Warning = WarnConfirmationNotSent
	}

	return result, nil
}

func (s *ElevationService) validateRegistration(ctx context.Context, username, email, password, confirm string) error {
	ve := &models.ValidationError{}

	if password != confirm {
		ve.Add("password2", "the two password fields didn't match")
	} else {
		addPasswordErrors(ve, "password1", password, username)
	}

	addUsernameErrors(ve, username)
	if models.ValidUsername(username) {
		if _, err := s.repo.GetByUsername(ctx, username); err == nil {
			ve.Add("username", "a user with that username already exists")
		} else if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to check username", slog.Any("error", err))
			return models.ErrInternalServer
		}
	}

	if email != "" {
		if _, err := s.repo.GetByEmail(ctx, email); err == nil {
			ve.Add("email", "a user with that email already exists")
		} else if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to check email", slog.Any("error", err))
			return models.ErrInternalServer
		}
	}

	return ve.OrNil()
}

type CodeRequestResult struct {
	Warning string
}

// RequestCode issues a fresh pending token for the account registered
// under email and mails it. An unknown email returns ErrEmailNotRegistered.
func (s *ElevationService) RequestCode(ctx context.Context, email string) (*CodeRequestResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("admin code requested for unknown email")
			s.auditLogger.LogElevation(pkglogger.AuditEvent{
				EventType:     "admin_code_request",
				Success:       false,
				FailureReason: "email_not_registered",
			})
			return nil, models.ErrEmailNotRegistered
		}
		s.logger.Error("failed to look up account by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := pkgauth.GenerateHexToken(pkgauth.RequestedTokenBytes)
	if err != nil {
		s.logger.Error("failed to generate pending token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	account, err = s.repo.Modify(ctx, account.ID, func(a *models.Account) error {
		a.PendingToken = token
		return nil
	})
	if err != nil {
		s.logger.Error("failed to store pending token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogElevation(pkglogger.AuditEvent{
		EventType: "admin_code_request",
		AccountID: strconv.FormatInt(account.ID, 10),
		Success:   true,
		Metadata:  map[string]string{"code": pkglogger.MaskToken(token)},
	})

	result := &CodeRequestResult{}
	if err := s.notifier.SendAdminCode(ctx, account.Email, account.Username, token); err != nil {
		s.logger.Warn("failed to send admin code",
			slog.String("email", pkglogger.SanitizedEmail(account.Email)),
			slog.Any("error", err),
		)
		metrics.RecordNotificationFailure("admin_code")
		result.Warning = WarnAdminCodeNotSent
	}
	return result, nil
}

// RedeemCode elevates the caller when code equals their stored pending
// token. The token is cleared on success; on mismatch nothing changes.
// The comparison and the write happen under one row lock.
func (s *ElevationService) RedeemCode(ctx context.Context, accountID int64, code string) (*models.Account, error) {
	code = strings.TrimSpace(code)

	key, err := pkgauth.GenerateSecurityKey()
	if err != nil {
		s.logger.Error("failed to generate security key", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	id := strconv.FormatInt(accountID, 10)
	updated, err := s.repo.Modify(ctx, accountID, func(a *models.Account) error {
		if !pkgauth.TokensEqual(a.PendingToken, code) {
			return models.ErrIncorrectCode
		}
		a.Role = models.RoleAdmin
		a.SecurityKey = key
		a.PendingToken = ""
		return nil
	})
	switch {
	case errors.Is(err, models.ErrIncorrectCode):
		s.logger.Info("admin code redemption failed", slog.Int64("account_id", accountID))
		metrics.RecordElevation("redeem", false)
		s.auditLogger.LogElevation(pkglogger.AuditEvent{
			EventType:     "admin_code_redeem",
			AccountID:     id,
			Success:       false,
			FailureReason: "incorrect_code",
			Metadata:      map[string]string{"code": pkglogger.MaskToken(code)},
		})
		return nil, models.ErrIncorrectCode
	case errors.Is(err, models.ErrNotFound):
		return nil, models.ErrNotFound
	case err != nil:
		s.logger.Error("failed to persist elevation", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("account elevated to admin", slog.Int64("account_id", accountID))
	metrics.RecordElevation("redeem", true)
	metrics.RecordKeyIssued("redeem")
	s.auditLogger.LogElevation(pkglogger.AuditEvent{
		EventType: "admin_code_redeem",
		AccountID: id,
		Success:   true,
		Metadata:  map[string]string{"key": pkglogger.MaskToken(updated.SecurityKey)},
	})
	return updated, nil
}

// ConfirmCode confirms the caller's account when code equals their stored
// pending token: the token is cleared and the account activated. The role
// is left as it is. On mismatch nothing changes.
func (s *ElevationService) ConfirmCode(ctx context.Context, accountID int64, code string) (*models.Account, error) {
	code = strings.TrimSpace(code)

	id := strconv.FormatInt(accountID, 10)
	updated, err := s.repo.Modify(ctx, accountID, func(a *models.Account) error {
		if !pkgauth.TokensEqual(a.PendingToken, code) {
			return models.ErrIncorrectCode
		}
		a.PendingToken = ""
		a.IsActive = true
		return nil
	})
	switch {
	case errors.Is(err, models.ErrIncorrectCode):
		s.logger.Info("confirmation code rejected", slog.Int64("account_id", accountID))
		s.auditLogger.LogAccountAction("account_confirm_failed", id, "", map[string]string{
			"code": pkglogger.MaskToken(code),
		})
		return nil, models.ErrIncorrectCode
	case errors.Is(err, models.ErrNotFound):
		return nil, models.ErrNotFound
	case err != nil:
		s.logger.Error("failed to persist confirmation", slog.Int64("account_id", accountID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("account confirmed", slog.Int64("account_id", accountID))
	s.auditLogger.LogAccountAction("account_confirmed", id, "", nil)
	return updated, nil
}

// EnsureAdminKey issues a security key to an admin-role account that has
// none and refreshes a from the stored row. It reports whether a key was
// issued. Only the key column is written, so a stale copy in a cannot undo
// other changes to the account. Calling it on any other account is a no-op.
func (s *ElevationService) EnsureAdminKey(ctx context.Context, a *models.Account) (string, bool, error) {
	if !a.NeedsSecurityKey() {
		return a.SecurityKey, false, nil
	}

	key, err := pkgauth.GenerateSecurityKey()
	if err != nil {
		return "", false, fmt.Errorf("failed to generate security key: %w", err)
	}

	updated, err := s.repo.SetSecurityKeyIfEmpty(ctx, a.ID, key)
	if errors.Is(err, models.ErrNotFound) {
		// Keyed or demoted since a was read.
		current, err := s.repo.GetByID(ctx, a.ID)
		if err != nil {
			return "", false, fmt.Errorf("failed to reload account: %w", err)
		}
		*a = *current
		return a.SecurityKey, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to persist security key: %w", err)
	}
	*a = *updated

	s.logger.Info("security key issued", slog.Int64("account_id", a.ID))
	metrics.RecordKeyIssued("sync")
	s.auditLogger.LogElevation(pkglogger.AuditEvent{
		EventType: "security_key_issued",
		AccountID: strconv.FormatInt(a.ID, 10),
		Success:   true,
		Metadata:  map[string]string{"key": pkglogger.MaskToken(a.SecurityKey)},
	})
	return a.SecurityKey, true, nil
}

func normalizeAdminCode(code string) string {
	runes := []rune(strings.TrimSpace(code))
	if len(runes) > maxAdminCodeLen {
		runes = runes[:maxAdminCodeLen]
	}
	return string(runes)
}
