package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/tourexpress/internal/auth"
	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/BradenHooton/tourexpress/internal/services"
	pkghttp "github.com/BradenHooton/tourexpress/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAccountContext attaches an authenticated account to the request.
func WithAccountContext(req *http.Request, account *models.Account) *http.Request {
	return req.WithContext(auth.WithAccount(req.Context(), account))
}

// WithURLParams attaches chi route parameters to the request.
func WithURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) pkghttp.ErrorResponse {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
	return resp
}

// MockAuthService implements AuthServiceInterface and RegistrationService for testing
type MockAuthService struct {
	LoginFunc    func(ctx context.Context, identifier, password string) (*services.LoginResult, error)
	LogoutFunc   func(ctx context.Context, token string) error
	RegisterFunc func(ctx context.Context, in services.RegisterInput) (*services.RegisterResult, error)
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*services.LoginResult, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrInvalidCredentials
	}
	return m.LoginFunc(ctx, identifier, password)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, token)
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) (*services.RegisterResult, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.RegisterFunc(ctx, in)
}

// MockElevationService implements ElevationServiceInterface for testing
type MockElevationService struct {
	RequestCodeFunc func(ctx context.Context, email string) (*services.CodeRequestResult, error)
	RedeemCodeFunc  func(ctx context.Context, accountID int64, code string) (*models.Account, error)
	ConfirmCodeFunc func(ctx context.Context, accountID int64, code string) (*models.Account, error)
}

func (m *MockElevationService) RequestCode(ctx context.Context, email string) (*services.CodeRequestResult, error) {
	if m.RequestCodeFunc == nil {
		return &services.CodeRequestResult{}, nil
	}
	return m.RequestCodeFunc(ctx, email)
}

func (m *MockElevationService) RedeemCode(ctx context.Context, accountID int64, code string) (*models.Account, error) {
	if m.RedeemCodeFunc == nil {
		return nil, models.ErrIncorrectCode
	}
	return m.RedeemCodeFunc(ctx, accountID, code)
}

func (m *MockElevationService) ConfirmCode(ctx context.Context, accountID int64, code string) (*models.Account, error) {
	if m.ConfirmCodeFunc == nil {
		return nil, models.ErrIncorrectCode
	}
	return m.ConfirmCodeFunc(ctx, accountID, code)
}

// MockAccountService implements AccountServiceInterface for testing
type MockAccountService struct {
	GetAccountFunc    func(ctx context.Context, id int64) (*models.Account, error)
	ListAccountsFunc  func(ctx context.Context, limit, offset int) ([]*models.Account, error)
	CreateAccountFunc func(ctx context.Context, in services.CreateAccountInput) (*models.Account, error)
	UpdateAccountFunc func(ctx context.Context, id int64, upd services.AccountUpdate) (*models.Account, error)
	DeleteAccountFunc func(ctx context.Context, id int64) error
}

func (m *MockAccountService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	if m.GetAccountFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetAccountFunc(ctx, id)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	if m.ListAccountsFunc == nil {
		return []*models.Account{}, nil
	}
	return m.ListAccountsFunc(ctx, limit, offset)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, in services.CreateAccountInput) (*models.Account, error) {
	if m.CreateAccountFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateAccountFunc(ctx, in)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, id int64, upd services.AccountUpdate) (*models.Account, error) {
	if m.UpdateAccountFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateAccountFunc(ctx, id, upd)
}

func (m *MockAccountService) UpdateProfile(ctx context.Context, id int64, username, email *string) (*models.Account, error) {
	return m.UpdateAccount(ctx, id, services.AccountUpdate{Username: username, Email: email})
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, id int64) error {
	if m.DeleteAccountFunc == nil {
		return nil
	}
	return m.DeleteAccountFunc(ctx, id)
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	DashboardFunc  func(ctx context.Context, actor *models.Account) (*services.DashboardResponse, error)
	StatisticsFunc func(ctx context.Context) (*models.Statistics, error)
}

func (m *MockAdminService) Dashboard(ctx context.Context, actor *models.Account) (*services.DashboardResponse, error) {
	if m.DashboardFunc == nil {
		return &services.DashboardResponse{Statistics: &models.Statistics{}, SecurityKey: actor.SecurityKey, Username: actor.Username}, nil
	}
	return m.DashboardFunc(ctx, actor)
}

func (m *MockAdminService) Statistics(ctx context.Context) (*models.Statistics, error) {
	if m.StatisticsFunc == nil {
		return &models.Statistics{}, nil
	}
	return m.StatisticsFunc(ctx)
}

func (m *MockAdminService) TerritoryRanking(ctx context.Context) ([]models.Territory, error) {
	return []models.Territory{}, nil
}

func (m *MockAdminService) LoungeRanking(ctx context.Context) ([]models.LoungeRanking, error) {
	return []models.LoungeRanking{}, nil
}
