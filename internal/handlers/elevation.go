package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/BradenHooton/tourexpress/internal/auth"
	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/BradenHooton/tourexpress/internal/services"
	pkghttp "github.com/BradenHooton/tourexpress/pkg/http"
)

// ElevationServiceInterface covers the post-registration elevation flow.
type ElevationServiceInterface interface {
	RequestCode(ctx context.Context, email string) (*services.CodeRequestResult, error)
	RedeemCode(ctx context.Context, accountID int64, code string) (*models.Account, error)
	ConfirmCode(ctx context.Context, accountID int64, code string) (*models.Account, error)
}

type ElevationHandler struct {
	service ElevationServiceInterface
}

func NewElevationHandler(service ElevationServiceInterface) *ElevationHandler {
	return &ElevationHandler{service: service}
}

type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RedeemCodeRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type ConfirmCodeResponse struct {
	Message string           `json:"message"`
	Account *AccountResponse `json:"account"`
}

type RedeemCodeResponse struct {
	Message     string           `json:"message"`
	Account     *AccountResponse `json:"account"`
	SecurityKey string           `json:"security_key"`
}

// RequestCode handles POST /admin-code/request
func (h *ElevationHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req RequestCodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.service.RequestCode(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrEmailNotRegistered) {
			writeFieldError(w, "email", "This email is not registered")
			return
		}
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, MessageResponse{
		Message: "An administrator code has been sent to your email",
		Warning: res.Warning,
	})
}

// RedeemCode handles POST /admin-code/redeem for the logged-in account.
func (h *ElevationHandler) RedeemCode(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	if account == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req RedeemCodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.service.RedeemCode(r.Context(), account.ID, req.Code)
	if err != nil {
		if errors.Is(err, models.ErrIncorrectCode) {
			writeFieldError(w, "code", "Incorrect code")
			return
		}
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, RedeemCodeResponse{
		Message:     "You are now an administrator",
		Account:     accountToResponse(updated),
		SecurityKey: updated.SecurityKey,
	})
}

// ConfirmCode handles POST /confirm-code: the mailed code confirms the
// logged-in account without changing its role.
func (h *ElevationHandler) ConfirmCode(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	if account == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req RedeemCodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.service.ConfirmCode(r.Context(), account.ID, req.Code)
	if err != nil {
		if errors.Is(err, models.ErrIncorrectCode) {
			writeFieldError(w, "code", "Incorrect code")
			return
		}
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, ConfirmCodeResponse{
		Message: "Account confirmed",
		Account: accountToResponse(updated),
	})
}
