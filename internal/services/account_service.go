package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BradenHooton/tourexpress/internal/models"
	pkgauth "github.com/BradenHooton/tourexpress/pkg/auth"
	pkglogger "github.com/BradenHooton/tourexpress/pkg/logger"
)

// AccountService handles administrator account management and profile edits.
type AccountService struct {
	repo        AccountRepository
	keys        KeyEnsurer
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewAccountService(repo AccountRepository, keys KeyEnsurer, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AccountService {
	return &AccountService{
		repo:        repo,
		keys:        keys,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

type CreateAccountInput struct {
	Username    string
	Email       string
	Password    string
	Role        models.Role
	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
}

// AccountUpdate carries optional changes; nil fields are left untouched.
type AccountUpdate struct {
	Username    *string
	Email       *string
	Password    *string
	Role        *models.Role
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("account not found", slog.Int64("account_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get account", slog.Int64("account_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	accounts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list accounts", slog.Int("limit", limit), slog.Int("offset", offset), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return accounts, nil
}

// CreateAccount is the administrator path for creating accounts directly.
func (s *AccountService) CreateAccount(ctx context.Context, in CreateAccountInput) (*models.Account, error) {
	if in.Role == "" {
		in.Role = models.RolePlayer
	}
	ve := &models.ValidationError{}
	if !in.Role.Valid() {
		ve.Add("role", "select a valid choice")
	}
	in.Username = strings.TrimSpace(in.Username)
	addUsernameErrors(ve, in.Username)
	addPasswordErrors(ve, "password", in.Password, in.Username)
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	hash, err := pkgauth.HashPassword(in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	created, err := s.repo.Create(ctx, &models.Account{
		Username:     in.Username,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     in.IsActive,
		IsStaff:      in.IsStaff,
		IsSuperuser:  in.IsSuperuser,
	})
	if err != nil {
		return nil, s.persistError("create", 0, err)
	}

	s.syncKey(ctx, created)
	s.logger.Info("account created", slog.Int64("account_id", created.ID))
	s.auditLogger.LogAccountAction("account_created", strconv.FormatInt(created.ID, 10), "", map[string]string{
		"role": string(created.Role),
	})
	return created, nil
}

func (s *AccountService) UpdateAccount(ctx context.Context, id int64, upd AccountUpdate) (*models.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	ve := &models.ValidationError{}
	if upd.Username != nil {
		account.Username = strings.TrimSpace(*upd.Username)
		addUsernameErrors(ve, account.Username)
	}
	if upd.Email != nil {
		account.Email = strings.ToLower(strings.TrimSpace(*upd.Email))
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			ve.Add("role", "select a valid choice")
		}
		account.Role = *upd.Role
	}
	if upd.IsActive != nil {
		account.IsActive = *upd.IsActive
	}
	if upd.IsStaff != nil {
		account.IsStaff = *upd.IsStaff
	}
	if upd.IsSuperuser != nil {
		account.IsSuperuser = *upd.IsSuperuser
	}
	if upd.Password != nil {
		addPasswordErrors(ve, "password", *upd.Password, account.Username)
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	if upd.Password != nil {
		hash, err := pkgauth.HashPassword(*upd.Password)
		if err != nil {
			s.logger.Error("failed to hash password", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		account.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		return nil, s.persistError("update", id, err)
	}

	s.syncKey(ctx, updated)
	s.logger.Info("account updated", slog.Int64("account_id", id))
	return updated, nil
}

// UpdateProfile lets an account holder change their own handle and email.
func (s *AccountService) UpdateProfile(ctx context.Context, id int64, username, email *string) (*models.Account, error) {
	return s.UpdateAccount(ctx, id, AccountUpdate{Username: username, Email: email})
}

func (s *AccountService) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("account not found", slog.Int64("account_id", id))
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete account", slog.Int64("account_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("account deleted", slog.Int64("account_id", id))
	s.auditLogger.LogAccountAction("account_deleted", strconv.FormatInt(id, 10), "", nil)
	return nil
}

// syncKey applies the security-key invariant after a role change.
func (s *AccountService) syncKey(ctx context.Context, account *models.Account) {
	if _, _, err := s.keys.EnsureAdminKey(ctx, account); err != nil {
		s.logger.Error("failed to ensure admin security key", slog.Int64("account_id", account.ID), slog.Any("error", err))
	}
}

func (s *AccountService) persistError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, models.ErrValidation):
		return err
	case errors.Is(err, models.ErrNotFound):
		return models.ErrNotFound
	}
	s.logger.Error("failed to "+op+" account", slog.Int64("account_id", id), slog.Any("error", err))
	return models.ErrInternalServer
}

func addUsernameErrors(ve *models.ValidationError, username string) {
	switch {
	case username == "":
		ve.Add("username", "this field is required")
	case !models.ValidUsername(username):
		ve.Add("username", models.InvalidUsernameMessage)
	}
}

func addPasswordErrors(ve *models.ValidationError, field, password, username string) {
	err := pkgauth.ValidatePassword(password, username)
	if err == nil {
		return
	}
	var pe *pkgauth.PasswordValidationError
	if errors.As(err, &pe) {
		for _, msg := range pe.Errors {
			ve.Add(field, msg)
		}
		return
	}
	ve.Add(field, err.Error())
}
