package handlers

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/BradenHooton/tourexpress/internal/services"
	pkghttp "github.com/BradenHooton/tourexpress/pkg/http"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 200

// AdminServiceInterface defines the dashboard, statistics and ranking contract.
type AdminServiceInterface interface {
	Dashboard(ctx context.Context, actor *models.Account) (*services.DashboardResponse, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	TerritoryRanking(ctx context.Context) ([]models.Territory, error)
	LoungeRanking(ctx context.Context) ([]models.LoungeRanking, error)
}

// AdminHandler serves the dashboard plus the statistics and ranking pages.
type AdminHandler struct {
	service AdminServiceInterface
}

func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

type DashboardResponse struct {
	*services.DashboardResponse
	SecurityKeyQR string `json:"security_key_qr,omitempty"` // PNG data URL
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	dash, err := h.service.Dashboard(r.Context(), a)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to load dashboard")
		return
	}

	resp := DashboardResponse{DashboardResponse: dash}
	if dash.SecurityKey != "" {
		png, err := qrcode.Encode(dash.SecurityKey, qrcode.Medium, qrSize)
		if err != nil {
			pkghttp.WriteInternalError(w, "Failed to render security key")
			return
		}
		resp.SecurityKeyQR = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	}
	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// SecurityKeyQR handles GET /admin/security-key.png
func (h *AdminHandler) SecurityKeyQR(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}

	dash, err := h.service.Dashboard(r.Context(), a)
	if err != nil || dash.SecurityKey == "" {
		pkghttp.WriteInternalError(w, "Failed to load security key")
		return
	}

	png, err := qrcode.Encode(dash.SecurityKey, qrcode.Medium, qrSize)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to render security key")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Statistics handles GET /statistics
func (h *AdminHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Statistics(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, st)
}

// TerritoryRanking handles GET /rankings/territories
func (h *AdminHandler) TerritoryRanking(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.TerritoryRanking(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, out)
}

// LoungeRanking handles GET /rankings/lounges
func (h *AdminHandler) LoungeRanking(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.LoungeRanking(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, out)
}
