package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	account *models.Account
	err     error
	token   string
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	s.token = token
	return s.account, s.err
}

func okHandler(t *testing.T, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		assert.NotNil(t, AccountFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_NoSessionRedirects(t *testing.T) {
	called := false
	h := Authenticate(&stubAuthenticator{})(okHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/territories?page=2", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fterritories%3Fpage%3D2", w.Header().Get("Location"))
}

func TestAuthenticate_InvalidSessionRedirects(t *testing.T) {
	called := false
	h := Authenticate(&stubAuthenticator{err: errors.New("expired")})(okHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bad"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestAuthenticate_ValidSessionFromCookieOrBearer(t *testing.T) {
	stub := &stubAuthenticator{account: &models.Account{ID: 1, Role: models.RolePlayer}}

	for _, setup := range []func(r *http.Request){
		func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"}) },
		func(r *http.Request) { r.Header.Set("Authorization", "Bearer tok") },
	} {
		called := false
		h := Authenticate(stub)(okHandler(t, &called))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		setup(req)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tok", stub.token)
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name    string
		account *models.Account
		status  int
	}{
		{"player forbidden", &models.Account{Role: models.RolePlayer}, http.StatusForbidden},
		{"admin role", &models.Account{Role: models.RoleAdmin}, http.StatusOK},
		{"legacy staff flag", &models.Account{Role: models.RolePlayer, IsStaff: true}, http.StatusOK},
		{"legacy superuser flag", &models.Account{Role: models.RolePlayer, IsSuperuser: true}, http.StatusOK},
		{"anonymous redirected", nil, http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			if tt.account != nil {
				req = req.WithContext(WithAccount(req.Context(), tt.account))
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
		})
	}
}
