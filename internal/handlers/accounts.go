package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/tourexpress/internal/auth"
	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/BradenHooton/tourexpress/internal/services"
	pkghttp "github.com/BradenHooton/tourexpress/pkg/http"
)

// AccountServiceInterface defines the account management operations.
type AccountServiceInterface interface {
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error)
	CreateAccount(ctx context.Context, in services.CreateAccountInput) (*models.Account, error)
	UpdateAccount(ctx context.Context, id int64, upd services.AccountUpdate) (*models.Account, error)
	UpdateProfile(ctx context.Context, id int64, username, email *string) (*models.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
}

// AccountHandler serves the caller's profile and the admin account screens.
type AccountHandler struct {
	service AccountServiceInterface
}

func NewAccountHandler(service AccountServiceInterface) *AccountHandler {
	return &AccountHandler{service: service}
}

type CreateAccountRequest struct {
	Username    string `json:"username" validate:"required,username"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required"`
	Role        string `json:"role" validate:"omitempty,oneof=player admin"`
	IsActive    *bool  `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

type UpdateAccountRequest struct {
	Username    *string `json:"username" validate:"omitempty,username"`
	Email       *string `json:"email" validate:"omitempty,email,max=254"`
	Password    *string `json:"password" validate:"omitempty"`
	Role        *string `json:"role" validate:"omitempty,oneof=player admin"`
	IsActive    *bool   `json:"is_active"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,username"`
	Email    *string `json:"email" validate:"omitempty,email,max=254"`
}

// Home handles GET /: the caller's own account.
func (h *AccountHandler) Home(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	if account == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, accountToResponse(account))
}

// UpdateProfile handles PUT /profile
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	if account == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), account.ID, req.Username, req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, accountToResponse(updated))
}

// ListAccounts handles GET /accounts
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	accounts, err := h.service.ListAccounts(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]*AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, accountToResponse(a))
	}
	pkghttp.WriteJSON(w, http.StatusOK, ListResponse[*AccountResponse]{Items: items, Limit: limit, Offset: offset})
}

// GetAccount handles GET /accounts/{id}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	account, err := h.service.GetAccount(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, accountToResponse(account))
}

// CreateAccount handles POST /accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	account, err := h.service.CreateAccount(r.Context(), services.CreateAccountInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Role:        models.Role(req.Role),
		IsActive:    active,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, accountToResponse(account))
}

// UpdateAccount handles PUT /accounts/{id}
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	upd := services.AccountUpdate{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		IsActive:    req.IsActive,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		upd.Role = &role
	}

	account, err := h.service.UpdateAccount(r.Context(), id, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, accountToResponse(account))
}

// DeleteAccount handles DELETE /accounts/{id}
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteAccount(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
