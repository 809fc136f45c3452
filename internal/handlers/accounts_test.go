package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/BradenHooton/tourexpress/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountHandler_Home(t *testing.T) {
	h := NewAccountHandler(&MockAccountService{})

	t.Run("returns caller", func(t *testing.T) {
		ana := &models.Account{ID: 2, Username: "ana", Role: models.RolePlayer, PasswordHash: "hash", PendingToken: "abc123"}
		req := WithAccountContext(httptest.NewRequest(http.MethodGet, "/", nil), ana)
		w := httptest.NewRecorder()
		h.Home(w, req)

		var resp AccountResponse
		AssertJSONResponse(t, w, http.StatusOK, &resp)
		assert.Equal(t, "ana", resp.Username)
		assert.False(t, resp.IsAdmin)
		assert.NotContains(t, w.Body.String(), "abc123")
		assert.NotContains(t, w.Body.String(), "hash")
	})

	t.Run("anonymous is 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Home(w, httptest.NewRequest(http.MethodGet, "/", nil))
		AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized")
	})
}

func TestAccountHandler_UpdateProfile(t *testing.T) {
	ana := &models.Account{ID: 2, Username: "ana", Email: "ana@x.io"}
	var got services.AccountUpdate
	h := NewAccountHandler(&MockAccountService{UpdateAccountFunc: func(ctx context.Context, id int64, upd services.AccountUpdate) (*models.Account, error) {
		got = upd
		return &models.Account{ID: id, Username: *upd.Username, Email: ana.Email}, nil
	}})

	req := WithAccountContext(NewTestRequest(t, http.MethodPut, "/profile", map[string]string{"username": "ana2"}), ana)
	w := httptest.NewRecorder()
	h.UpdateProfile(w, req)

	var resp AccountResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "ana2", resp.Username)
	assert.Nil(t, got.Email)
	assert.Nil(t, got.Role, "profile edits never touch the role")
}

func TestAccountHandler_UpdateProfile_RejectsMalformedUsername(t *testing.T) {
	ana := &models.Account{ID: 2, Username: "ana", Email: "ana@x.io"}
	h := NewAccountHandler(&MockAccountService{})

	req := WithAccountContext(NewTestRequest(t, http.MethodPut, "/profile", map[string]string{"username": "  "}), ana)
	w := httptest.NewRecorder()
	h.UpdateProfile(w, req)

	resp := AssertErrorResponse(t, w, http.StatusBadRequest, "validation_failed")
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "username", resp.Fields[0].Field)
}

func TestAccountHandler_CRUD(t *testing.T) {
	accounts := map[int64]*models.Account{
		1: {ID: 1, Username: "root", Role: models.RoleAdmin},
		2: {ID: 2, Username: "ana", Role: models.RolePlayer},
	}
	m := &MockAccountService{
		GetAccountFunc: func(ctx context.Context, id int64) (*models.Account, error) {
			if a, ok := accounts[id]; ok {
				return a, nil
			}
			return nil, models.ErrNotFound
		},
		ListAccountsFunc: func(ctx context.Context, limit, offset int) ([]*models.Account, error) {
			return []*models.Account{accounts[1], accounts[2]}, nil
		},
		CreateAccountFunc: func(ctx context.Context, in services.CreateAccountInput) (*models.Account, error) {
			return &models.Account{ID: 9, Username: in.Username, Email: in.Email, Role: in.Role, IsActive: in.IsActive}, nil
		},
		UpdateAccountFunc: func(ctx context.Context, id int64, upd services.AccountUpdate) (*models.Account, error) {
			a := *accounts[id]
			if upd.Role != nil {
				a.Role = *upd.Role
			}
			return &a, nil
		},
	}
	h := NewAccountHandler(m)

	t.Run("list", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ListAccounts(w, httptest.NewRequest(http.MethodGet, "/accounts?limit=1000", nil))

		var resp ListResponse[AccountResponse]
		AssertJSONResponse(t, w, http.StatusOK, &resp)
		assert.Len(t, resp.Items, 2)
		assert.Equal(t, maxPageSize, resp.Limit)
	})

	t.Run("get", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.GetAccount(w, WithURLParams(httptest.NewRequest(http.MethodGet, "/accounts/1", nil), "id", "1"))

		var resp AccountResponse
		AssertJSONResponse(t, w, http.StatusOK, &resp)
		assert.True(t, resp.IsAdmin)
	})

	t.Run("get missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.GetAccount(w, WithURLParams(httptest.NewRequest(http.MethodGet, "/accounts/99", nil), "id", "99"))
		AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
	})

	t.Run("get non-numeric id", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.GetAccount(w, WithURLParams(httptest.NewRequest(http.MethodGet, "/accounts/abc", nil), "id", "abc"))
		AssertErrorResponse(t, w, http.StatusNotFound, "not_found")
	})

	t.Run("create defaults to active", func(t *testing.T) {
		req := NewTestRequest(t, http.MethodPost, "/accounts", CreateAccountRequest{Username: "cam", Email: "cam@x.io", Password: "Secreta123"})
		w := httptest.NewRecorder()
		h.CreateAccount(w, req)

		var resp AccountResponse
		AssertJSONResponse(t, w, http.StatusCreated, &resp)
		assert.True(t, resp.IsActive)
	})

	t.Run("create rejects unknown role", func(t *testing.T) {
		req := NewTestRequest(t, http.MethodPost, "/accounts", CreateAccountRequest{Username: "cam", Email: "cam@x.io", Password: "x", Role: "owner"})
		w := httptest.NewRecorder()
		h.CreateAccount(w, req)

		resp := AssertErrorResponse(t, w, http.StatusBadRequest, "validation_failed")
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "role", resp.Fields[0].Field)
	})

	t.Run("update role", func(t *testing.T) {
		req := WithURLParams(NewTestRequest(t, http.MethodPut, "/accounts/2", map[string]string{"role": "admin"}), "id", "2")
		w := httptest.NewRecorder()
		h.UpdateAccount(w, req)

		var resp AccountResponse
		AssertJSONResponse(t, w, http.StatusOK, &resp)
		assert.Equal(t, "admin", resp.Role)
		assert.True(t, resp.IsAdmin)
	})

	t.Run("delete", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.DeleteAccount(w, WithURLParams(httptest.NewRequest(http.MethodDelete, "/accounts/2", nil), "id", "2"))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
