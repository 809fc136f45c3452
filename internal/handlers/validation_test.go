package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BradenHooton/tourexpress/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequest_UsesJSONNames(t *testing.T) {
	fields := ValidateRequest(&RegisterRequest{Email: "bad"})
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"username", "email", "password1", "password2"}, names)
}

func TestWriteServiceError(t *testing.T) {
	ve := &models.ValidationError{}
	ve.Add("password2", "The two password fields didn't match.")
	ve.Add("email", "Enter a valid email address.")

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"grouped validation", ve, http.StatusBadRequest, "validation_failed"},
		{"not found", models.ErrNotFound, http.StatusNotFound, "not_found"},
		{"forbidden", models.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"bad reference", models.ErrBadRequest, http.StatusBadRequest, "bad_request"},
		{"credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"anything else", models.ErrInternalServer, http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeServiceError(w, tt.err)
			AssertErrorResponse(t, w, tt.status, tt.code)
		})
	}

	w := httptest.NewRecorder()
	writeServiceError(w, ve)
	resp := AssertErrorResponse(t, w, http.StatusBadRequest, "validation_failed")
	require.Len(t, resp.Fields, 2)
	assert.Equal(t, "password2", resp.Fields[0].Field)
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		query         string
		limit, offset int
	}{
		{"", defaultPageSize, 0},
		{"limit=10&offset=20", 10, 20},
		{"limit=5000", maxPageSize, 0},
		{"limit=-1&offset=-5", defaultPageSize, 0},
		{"limit=abc", defaultPageSize, 0},
	}
	for _, tt := range tests {
		limit, offset := pageParams(httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil))
		assert.Equal(t, tt.limit, limit, tt.query)
		assert.Equal(t, tt.offset, offset, tt.query)
	}
}

func TestDecode_BodyTooLarge(t *testing.T) {
	body := `{"username":"` + strings.Repeat("a", maxBodyBytes) + `","password":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	w := httptest.NewRecorder()

	var dst LoginRequest
	assert.False(t, decodeAndValidate(w, req, &dst))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
