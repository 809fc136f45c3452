package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/BradenHooton/tourexpress/internal/auth"
	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/BradenHooton/tourexpress/internal/services"
	pkghttp "github.com/BradenHooton/tourexpress/pkg/http"
)

// Landing pages after login.
const (
	AdminLandingPath  = "/admin/dashboard"
	PlayerLandingPath = "/"
)

// AuthServiceInterface defines the session operations the handler needs.
type AuthServiceInterface interface {
	Login(ctx context.Context, identifier, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// RegistrationService creates accounts.
type RegistrationService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.RegisterResult, error)
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	service      AuthServiceInterface
	registration RegistrationService
	cookies      auth.CookieConfig
}

func NewAuthHandler(service AuthServiceInterface, registration RegistrationService, cookies auth.CookieConfig) *AuthHandler {
	return &AuthHandler{
		service:      service,
		registration: registration,
		cookies:      cookies,
	}
}

// RegisterRequest is the sign-up form. admin_code is optional and is
// trimmed and cut to length by the service rather than rejected here.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,username"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password1 string `json:"password1" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
	AdminCode string `json:"admin_code"`
}

// LoginRequest accepts a username or an email in the username field.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	Account  *AccountResponse `json:"account"`
	Elevated bool             `json:"elevated"`
	Warning  string           `json:"warning,omitempty"`
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.registration.Register(r.Context(), services.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password1,
		PasswordConfirm: req.Password2,
		AdminCode:       req.AdminCode,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Account:  accountToResponse(res.Account),
		Elevated: res.Elevated,
		Warning:  res.Warning,
	})
}

// LoginPage handles GET /login. There is no HTML form; it tells the
// client where to post credentials and where it will land afterwards.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteErrorWithDetails(w, http.StatusUnauthorized, "authentication_required",
		"Log in with POST "+auth.LoginPath, safeNext(r.URL.Query().Get("next")))
}

// Login handles POST /login. On success the session cookie is set and the
// client is redirected with 303: admins to the dashboard, players home,
// or to ?next when it is a local path.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			pkghttp.WriteUnauthorized(w, models.ErrInvalidCredentials.Error())
			return
		}
		pkghttp.WriteInternalError(w, "Login failed")
		return
	}

	auth.SetSessionCookie(w, res.Token, res.ExpiresAt, h.cookies)

	target := PlayerLandingPath
	if res.Account.IsAdmin() {
		target = AdminLandingPath
	}
	if next := safeNext(r.URL.Query().Get("next")); next != "" {
		target = next
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.SessionTokenFromRequest(r); token != "" {
		// A stale token still gets its cookie cleared.
		if err := h.service.Logout(r.Context(), token); err != nil && !errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteInternalError(w, "Logout failed")
			return
		}
	}
	auth.ClearSessionCookie(w, h.cookies)
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}

// safeNext accepts only local absolute paths, rejecting scheme-relative
// and backslash tricks that would redirect off-site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return ""
	}
	return next
}
