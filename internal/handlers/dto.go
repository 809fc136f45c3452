package handlers

import (
	"time"

	"github.com/BradenHooton/tourexpress/internal/models"
)

// AccountResponse is the public view of an account. Password hash and
// pending token are never serialized.
type AccountResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	IsAdmin     bool   `json:"is_admin"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func accountToResponse(a *models.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		Role:        string(a.Role),
		IsAdmin:     a.IsAdmin(),
		IsActive:    a.IsActive,
		IsStaff:     a.IsStaff,
		IsSuperuser: a.IsSuperuser,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

// MessageResponse is a plain acknowledgement with an optional warning.
type MessageResponse struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

// ListResponse wraps a page of results.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
